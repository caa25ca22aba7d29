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
	"github.com/erraggy/wsdedupe/lockfile"
)

func TestHandleLockfile(t *testing.T) {
	withConfig(t, nil)

	result, output, err := handleLockfile(context.Background(), &mcp.CallToolRequest{}, lockfileInput{
		State: stateInput{File: fixturePath},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 3, output.Importers)
	assert.Equal(t, 6, output.Packages)
	assert.Zero(t, output.Deduped)
	require.NotEmpty(t, output.Lockfile)

	lf, err := lockfile.Parse([]byte(output.Lockfile), "lockfile")
	require.NoError(t, err)
	assert.Equal(t, "file:b", lf.Importers["a"].Dependencies["b"].Version)
}

func TestHandleLockfile_Dedupe(t *testing.T) {
	withConfig(t, nil)

	_, output, err := handleLockfile(context.Background(), &mcp.CallToolRequest{}, lockfileInput{
		State:  stateInput{File: fixturePath},
		Dedupe: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Deduped)
	assert.Equal(t, 5, output.Packages)

	lf, err := lockfile.Parse([]byte(output.Lockfile), "lockfile")
	require.NoError(t, err)
	assert.Equal(t, "link:../b", lf.Importers["a"].Dependencies["b"].Version)
	assert.Contains(t, lf.Packages, depgraph.DepPath("b@file:b(is-positive@2.0.0)"))
}

func TestHandleLockfile_DedupePinned(t *testing.T) {
	withConfig(t, nil)
	pin := true

	_, output, err := handleLockfile(context.Background(), &mcp.CallToolRequest{}, lockfileInput{
		State:       stateInput{File: fixturePath},
		Dedupe:      true,
		PinInjected: &pin,
	})
	require.NoError(t, err)
	assert.Zero(t, output.Deduped)
	assert.Equal(t, 6, output.Packages)
}

func TestHandleLockfile_Output(t *testing.T) {
	withConfig(t, nil)
	path := filepath.Join(t.TempDir(), "lock.yaml")

	_, output, err := handleLockfile(context.Background(), &mcp.CallToolRequest{}, lockfileInput{
		State:  stateInput{File: fixturePath},
		Dedupe: true,
		Output: path,
	})
	require.NoError(t, err)
	assert.Equal(t, path, output.WrittenTo)
	assert.Empty(t, output.Lockfile)

	lf, err := lockfile.Load(path)
	require.NoError(t, err)
	assert.Len(t, lf.Packages, 5)
}

func TestHandleLockfile_Errors(t *testing.T) {
	withConfig(t, nil)

	result, _, err := handleLockfile(context.Background(), &mcp.CallToolRequest{}, lockfileInput{
		State: stateInput{File: "missing.yaml"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
