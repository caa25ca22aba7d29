package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/wsdedupe/depgraph"
)

func TestHandleDedupe(t *testing.T) {
	withConfig(t, nil)

	result, output, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, dedupeInput{
		State: stateInput{File: fixturePath},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.False(t, output.Disabled)
	assert.Equal(t, 3, output.ProjectsScanned)
	assert.Equal(t, 2, output.Injected)
	assert.Equal(t, 1, output.DedupedCount)
	require.Len(t, output.Deduped, 1)
	assert.Equal(t, dedupedEdge{
		Project: "a",
		Alias:   "b",
		Target:  "b",
		DepPath: "b@file:b",
		Link:    "link:../b",
	}, output.Deduped[0])

	require.Len(t, output.Skipped, 1)
	skipped := output.Skipped[0]
	assert.Equal(t, "c", skipped.Project)
	assert.Equal(t, "children-mismatch", skipped.Reason)
	assert.Equal(t, []childMismatch{
		{Alias: "is-positive", Copy: "is-positive@2.0.0", Canonical: "is-positive@1.0.0"},
	}, skipped.Mismatches)
	assert.Empty(t, output.State)
	assert.Empty(t, output.WrittenTo)
}

func TestHandleDedupe_PinInjected(t *testing.T) {
	withConfig(t, nil)
	pin := true

	_, output, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, dedupeInput{
		State:       stateInput{File: fixturePath},
		PinInjected: &pin,
	})
	require.NoError(t, err)
	assert.Zero(t, output.DedupedCount)
	assert.Empty(t, output.Deduped)
	require.Len(t, output.Skipped, 2)
	for _, s := range output.Skipped {
		assert.Equal(t, "pinned", s.Reason)
	}
}

func TestHandleDedupe_PinFromConfig(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.PinInjected = true })

	_, output, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, dedupeInput{
		State: stateInput{File: fixturePath},
	})
	require.NoError(t, err)
	assert.Zero(t, output.DedupedCount)

	unpin := false
	_, output, err = handleDedupe(context.Background(), &mcp.CallToolRequest{}, dedupeInput{
		State:       stateInput{File: fixturePath},
		PinInjected: &unpin,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.DedupedCount)
}

func TestHandleDedupe_ProjectSubset(t *testing.T) {
	withConfig(t, nil)

	_, output, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, dedupeInput{
		State:       stateInput{File: fixturePath},
		Projects:    []string{"c"},
		Concurrency: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.ProjectsScanned)
	assert.Equal(t, 1, output.Injected)
	assert.Zero(t, output.DedupedCount)
}

func TestHandleDedupe_IncludeStateAndOutput(t *testing.T) {
	withConfig(t, nil)
	path := filepath.Join(t.TempDir(), "deduped.yaml")

	_, output, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, dedupeInput{
		State:        stateInput{File: fixturePath},
		IncludeState: true,
		Output:       path,
	})
	require.NoError(t, err)
	assert.Equal(t, path, output.WrittenTo)
	require.NotEmpty(t, output.State)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, output.State, string(written))

	state, err := depgraph.ParseState(written, path)
	require.NoError(t, err)
	assert.NotContains(t, state.DependenciesByProjectID["a"], "b")
	assert.Contains(t, state.DependenciesByProjectID["c"], "b")
}

func TestHandleDedupe_DoesNotMutateCache(t *testing.T) {
	withConfig(t, nil)
	input := dedupeInput{State: stateInput{Content: fixtureContent(t)}}

	_, first, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	_, second, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.DedupedCount)
}

func TestHandleDedupe_Errors(t *testing.T) {
	withConfig(t, nil)

	tests := []struct {
		name  string
		input dedupeInput
		want  string
	}{
		{"no state", dedupeInput{}, "exactly one of file or content"},
		{"unknown project", dedupeInput{State: stateInput{File: fixturePath}, Projects: []string{"zzz"}}, "unknown project"},
		{"invalid content", dedupeInput{State: stateInput{Content: "projects: ["}}, "invalid resolution state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleDedupe(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.want)
		})
	}
}
