package mcpserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "wsdedupe-test", Version: "test"}, nil)
	assert.NotPanics(t, func() { registerAllTools(server) })
}

func TestPaginate(t *testing.T) {
	withConfig(t, func(c *serverConfig) {
		c.ListLimit = 3
		c.MaxLimit = 5
	})
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []int
	}{
		{"default limit", 0, 0, []int{0, 1, 2}},
		{"explicit limit", 2, 2, []int{2, 3}},
		{"clamped to max", 0, 100, []int{0, 1, 2, 3, 4}},
		{"tail", 8, 5, []int{8, 9}},
		{"offset past end", 10, 5, nil},
		{"negative offset", -1, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](4)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 4, cap(s))
}

func TestProjectIDs(t *testing.T) {
	assert.Nil(t, projectIDs(nil))
	ids := projectIDs([]string{"packages/a", "b"})
	require.Len(t, ids, 2)
	assert.Equal(t, "packages/a", string(ids[0]))
	assert.Equal(t, "b", string(ids[1]))
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))
	assert.Equal(t,
		"depgraph: reading state: open <path>: no such file or directory",
		sanitizeError(errors.New("depgraph: reading state: open /home/dev/repo/state.yaml: no such file or directory")))
	assert.Equal(t, "exactly one of file or content must be provided",
		sanitizeError(errors.New("exactly one of file or content must be provided")))
}

func TestErrResult(t *testing.T) {
	result := errResult(errors.New("cannot read /tmp/secret/state.yaml"))
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "cannot read <path>", text.Text)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	written, err := writeOutput(path, []byte("data\n"))
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteOutput_RejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.yaml")
	require.NoError(t, os.WriteFile(target, nil, 0600))
	link := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.Symlink(target, link))

	_, err := writeOutput(link, []byte("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}
