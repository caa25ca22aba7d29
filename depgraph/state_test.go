package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/wsdedupe/wserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../testdata/workspace-state.yaml"

func TestLoadState(t *testing.T) {
	s, err := LoadState(fixturePath)
	require.NoError(t, err)

	assert.Equal(t, "/repo", s.LockfileDir)
	require.Len(t, s.Projects, 3)
	assert.Equal(t, ProjectID("a"), s.Projects[0].ID)
	assert.Equal(t, NodeID("1"), s.Projects[0].DirectNodeIDsByAlias["b"])
	assert.Equal(t, DepPath("b@file:b"), s.NodePaths["1"])

	node := s.Graph["b@file:b"]
	require.NotNil(t, node)
	assert.Equal(t, KindMaterialized, node.ID.Kind())
	assert.Equal(t, DepPath("is-positive@1.0.0"), node.Children["is-positive"])
	assert.Equal(t, Resolution{Type: ResolutionTypeDirectory, Directory: "b"}, node.Resolution)

	assert.Equal(t, []ProjectID{"a", "b", "c"}, s.ResolvedImporters.ProjectIDs())
	require.Len(t, s.ResolvedImporters["b"].DirectDependencies, 2)
	assert.True(t, s.ResolvedImporters["b"].DirectDependencies[1].Dev)
	assert.True(t, s.Settings.DedupeEnabled())

	require.NoError(t, s.Validate())
}

func TestLoadState_MissingFile(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseState_JSON(t *testing.T) {
	data := []byte(`{
  "lockfileDir": "/repo",
  "settings": {"dedupeInjectedDeps": false},
  "projects": [{"id": "./a", "directDependencies": {"b": "1"}}],
  "nodePaths": {"1": "b@file:b"},
  "graph": {"b@file:b": {"id": "file:b", "name": "b"}},
  "dependenciesByProjectId": {"./a": {"b": "b@file:b"}, "b": null},
  "resolvedImporters": {"a/": {"directDependencies": [{"alias": "b", "pkgId": "file:b"}]}, "b": null}
}`)
	s, err := ParseState(data, "inline.json")
	require.NoError(t, err)

	assert.False(t, s.Settings.DedupeEnabled())
	assert.Equal(t, ProjectID("a"), s.Projects[0].ID)
	assert.Contains(t, s.DependenciesByProjectID, ProjectID("a"))
	assert.NotNil(t, s.DependenciesByProjectID["b"])
	assert.True(t, s.ResolvedImporters.Has("a"))
	assert.NotNil(t, s.ResolvedImporters["b"])
}

func TestParseState_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{"malformed yaml", "projects: [", "invalid resolution state"},
		{"duplicate project", "projects:\n  - id: a\n  - id: ./a\n", `duplicate project id "a"`},
		{"empty project id", "projects:\n  - id: \"\"\n", "invalid id"},
		{"absolute importer id", "resolvedImporters:\n  /abs: {}\n", "invalid id"},
		{"duplicate importer", "resolvedImporters:\n  b: {}\n  ./b: {}\n", `duplicate importer id "b"`},
		{"duplicate dependency index", "dependenciesByProjectId:\n  packages/b: {}\n  packages/b/: {}\n", `duplicate dependency index id "packages/b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseState([]byte(tt.data), "bad.yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, wserrors.ErrParse)
			assert.Contains(t, err.Error(), "bad.yaml")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestStateValidate(t *testing.T) {
	t.Run("missing dep path", func(t *testing.T) {
		s := &State{
			Projects:  []*Project{{ID: "a", DirectNodeIDsByAlias: map[string]NodeID{"b": "9"}}},
			NodePaths: NodePaths{},
			Graph:     Graph{},
		}
		err := s.Validate()
		assert.ErrorIs(t, err, wserrors.ErrMissingDepPath)
		assert.ErrorIs(t, err, wserrors.ErrConsistency)
	})

	t.Run("missing node", func(t *testing.T) {
		s := &State{
			Projects:  []*Project{{ID: "a", DirectNodeIDsByAlias: map[string]NodeID{"b": "1"}}},
			NodePaths: NodePaths{"1": "b@file:b"},
			Graph:     Graph{"b@file:b": nil},
		}
		err := s.Validate()
		assert.ErrorIs(t, err, wserrors.ErrMissingNode)

		var cErr *wserrors.ConsistencyError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "b@file:b", cErr.DepPath)
	})

	t.Run("missing child", func(t *testing.T) {
		s, err := LoadState(fixturePath)
		require.NoError(t, err)
		delete(s.Graph, "is-positive@2.0.0")

		err = s.Validate()
		assert.ErrorIs(t, err, wserrors.ErrMissingNode)

		var cErr *wserrors.ConsistencyError
		require.ErrorAs(t, err, &cErr)
		assert.Empty(t, cErr.Project)
		assert.Equal(t, "is-positive@2.0.0", cErr.DepPath)
		assert.Contains(t, cErr.Message, "b@file:b(is-positive@2.0.0)")
	})
}

func TestStateProject(t *testing.T) {
	s, err := LoadState(fixturePath)
	require.NoError(t, err)

	assert.NotNil(t, s.Project("c"))
	assert.Nil(t, s.Project("missing"))
}

func TestStateClone(t *testing.T) {
	s, err := LoadState(fixturePath)
	require.NoError(t, err)
	disabled := false
	s.Settings.DedupeInjectedDeps = &disabled

	c := s.Clone()
	require.Equal(t, s, c)

	// Mutating the clone leaves the original intact.
	delete(c.DependenciesByProjectID["a"], "b")
	c.ResolvedImporters["a"].DirectDependencies[0].IsLinked = true
	c.ResolvedImporters["a"].LinkedDependencies = append(c.ResolvedImporters["a"].LinkedDependencies, DependencyRecord{Alias: "b"})
	c.Graph["b@file:b"].Children["extra"] = "extra@1.0.0"
	c.Projects[0].DirectNodeIDsByAlias["new"] = "99"
	*c.Settings.DedupeInjectedDeps = true

	assert.Contains(t, s.DependenciesByProjectID["a"], "b")
	assert.False(t, s.ResolvedImporters["a"].DirectDependencies[0].IsLinked)
	assert.Empty(t, s.ResolvedImporters["a"].LinkedDependencies)
	assert.NotContains(t, s.Graph["b@file:b"].Children, "extra")
	assert.NotContains(t, s.Projects[0].DirectNodeIDsByAlias, "new")
	assert.False(t, *s.Settings.DedupeInjectedDeps)

	var nilState *State
	assert.Nil(t, nilState.Clone())
}

func TestMarshalStateRoundTrip(t *testing.T) {
	s, err := LoadState(fixturePath)
	require.NoError(t, err)

	data, err := MarshalState(s)
	require.NoError(t, err)

	again, err := ParseState(data, "roundtrip.yaml")
	require.NoError(t, err)
	assert.Equal(t, s, again)
}
