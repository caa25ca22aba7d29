package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/wsdedupe/depgraph"
)

func twoProjects(inject bool) *Workspace {
	return NewWorkspace("/repo", inject,
		&Manifest{ID: "a", Name: "a", Version: "1.0.0", Dependencies: map[string]string{"b": "workspace:*"}},
		&Manifest{
			ID: "b", Name: "b", Version: "2.0.0",
			Dependencies:    map[string]string{"is-positive": "1.0.0"},
			DevDependencies: map[string]string{"typescript": "5.0.0"},
		},
	)
}

func TestWorkspaceResolveInjected(t *testing.T) {
	state := twoProjects(true).Resolve()
	require.NoError(t, state.Validate())

	assert.Equal(t, depgraph.DepPath("b@file:b"), state.DependenciesByProjectID["a"]["b"])
	node := state.Graph["b@file:b"]
	require.NotNil(t, node)
	assert.Equal(t, depgraph.PkgIdentifier("file:b"), node.ID)
	assert.Equal(t, map[string]depgraph.DepPath{"is-positive": "is-positive@1.0.0"}, node.Children)
	assert.Equal(t, depgraph.Resolution{Type: "directory", Directory: "b"}, node.Resolution)

	rec := state.ResolvedImporters["b"].DirectDependencies
	require.Len(t, rec, 2)
	assert.True(t, rec[1].Dev)
	assert.Equal(t, "typescript", rec[1].Alias)
}

func TestWorkspaceResolveLinked(t *testing.T) {
	state := twoProjects(false).Resolve()

	assert.NotContains(t, state.Graph, depgraph.DepPath("b@file:b"))
	importer := state.ResolvedImporters["a"]
	require.Len(t, importer.LinkedDependencies, 1)
	assert.Equal(t, "link:../b", importer.LinkedDependencies[0].PkgID)
	assert.Equal(t, "/repo/b", importer.LinkedDependencies[0].Resolution.Directory)
}

func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, twoProjects(true).Resolve())
	state, err := depgraph.LoadState(path)
	require.NoError(t, err)
	assert.Len(t, state.Projects, 2)
}
