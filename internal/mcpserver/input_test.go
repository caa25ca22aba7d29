package mcpserver

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/testutil"
)

const fixturePath = "../../testdata/workspace-state.yaml"

func fixtureContent(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	return string(data)
}

// copyFixture writes the fixture state into a temp dir so its mtime can change.
func copyFixture(t *testing.T) string {
	t.Helper()
	state, err := depgraph.LoadState(fixturePath)
	require.NoError(t, err)
	return testutil.WriteTempYAML(t, state)
}

func TestStateInput_ResolveFile(t *testing.T) {
	withConfig(t, nil)

	state, err := stateInput{File: fixturePath}.resolve()
	require.NoError(t, err)
	assert.Len(t, state.Projects, 3)
}

func TestStateInput_ResolveContent(t *testing.T) {
	withConfig(t, nil)

	state, err := stateInput{Content: fixtureContent(t)}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "/repo", state.LockfileDir)
}

func TestStateInput_ResolveErrors(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxInlineSize = 16 })

	tests := []struct {
		name  string
		input stateInput
		want  string
	}{
		{"none", stateInput{}, "exactly one of file or content"},
		{"both", stateInput{File: fixturePath, Content: "x"}, "exactly one of file or content"},
		{"missing file", stateInput{File: "does-not-exist.yaml"}, "reading state"},
		{"too large", stateInput{Content: strings.Repeat("x", 17)}, "exceeds maximum 16 bytes"},
		{"invalid", stateInput{Content: "projects: ["}, "invalid resolution state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStateCache_ReturnsPrivateCopies(t *testing.T) {
	withConfig(t, nil)
	input := stateInput{Content: fixtureContent(t)}

	first, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, stateCache.Len())

	delete(first.DependenciesByProjectID, "a")
	first.Projects = nil

	second, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Projects, 3)
	assert.Contains(t, second.DependenciesByProjectID, depgraph.ProjectID("a"))
	assert.Equal(t, 1, stateCache.Len())
}

func TestStateCache_MissOnModifiedFile(t *testing.T) {
	withConfig(t, nil)
	path := copyFixture(t)

	_, err := stateInput{File: path}.resolve()
	require.NoError(t, err)
	key := makeCacheKey(stateInput{File: path})
	require.NotEmpty(t, key)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.NotEqual(t, key, makeCacheKey(stateInput{File: path}))

	_, err = stateInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, 2, stateCache.Len())
}

func TestStateCache_LRUEviction(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.CacheMaxSize = 1 })
	content := fixtureContent(t)

	_, err := stateInput{Content: content}.resolve()
	require.NoError(t, err)
	_, err = stateInput{Content: content + "\n# changed\n"}.resolve()
	require.NoError(t, err)

	assert.Equal(t, 1, stateCache.Len())
	_, ok := stateCache.Get(makeCacheKey(stateInput{Content: content}))
	assert.False(t, ok)
}

func TestStateCache_Disabled(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })

	_, err := stateInput{Content: fixtureContent(t)}.resolve()
	require.NoError(t, err)
	assert.Zero(t, stateCache.Len())
}

func TestMakeCacheKey(t *testing.T) {
	assert.Empty(t, makeCacheKey(stateInput{}))
	assert.Empty(t, makeCacheKey(stateInput{File: "does-not-exist.yaml"}))
	assert.True(t, strings.HasPrefix(makeCacheKey(stateInput{Content: "x"}), "content:"))
	assert.True(t, strings.HasPrefix(makeCacheKey(stateInput{File: fixturePath}), "file:"))
}
