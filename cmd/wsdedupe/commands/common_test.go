package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../../testdata/workspace-state.yaml"

// captureStdout runs fn while capturing os.Stdout and returns the output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() {
		_ = w.Close()
		os.Stdout = old
	}()

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

// captureStderr runs fn while capturing os.Stderr and returns the output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = old
	}()

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

// withStdin replaces os.Stdin with a file holding data for the duration of fn.
func withStdin(t *testing.T, data []byte, fn func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, data, 0600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	old := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = old }()
	fn()
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateOutputFormat(f))
	}
	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format 'xml'")
}

func TestOutputStructured(t *testing.T) {
	data := map[string]int{"deduped": 1}

	out := captureStdout(t, func() {
		require.NoError(t, OutputStructured(data, FormatJSON))
	})
	assert.JSONEq(t, `{"deduped": 1}`, out)

	out = captureStdout(t, func() {
		require.NoError(t, OutputStructured(data, FormatYAML))
	})
	assert.Equal(t, "deduped: 1\n", out)

	assert.Error(t, OutputStructured(data, FormatText))
}

func TestFormatStatePath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatStatePath(StdinFilePath))
	assert.Equal(t, "state.yaml", FormatStatePath("state.yaml"))
}

func TestLoadStateStdin(t *testing.T) {
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	withStdin(t, data, func() {
		state, err := LoadState(StdinFilePath)
		require.NoError(t, err)
		assert.Len(t, state.Projects, 3)
	})

	withStdin(t, []byte("projects: ["), func() {
		_, err := LoadState(StdinFilePath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "<stdin>")
	})
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteOutput(path, []byte("x: 1\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x: 1\n", string(got))

	link := filepath.Join(t.TempDir(), "link.yaml")
	require.NoError(t, os.Symlink(path, link))
	err = WriteOutput(link, []byte("y: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

func TestProjectList(t *testing.T) {
	var p ProjectList
	require.NoError(t, p.Set("packages/a, packages/b"))
	require.NoError(t, p.Set("c"))
	assert.Equal(t, ProjectList{"packages/a", "packages/b", "c"}, p)
	assert.Equal(t, "packages/a,packages/b,c", p.String())

	assert.Error(t, p.Set("/abs"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Children Mismatch", Label("children-mismatch"))
	assert.Equal(t, "Pinned", Label("pinned"))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"A", "BB"}, [][]string{{"xxx", "y"}})
	assert.Equal(t, "  A    BB\n  xxx  y\n", buf.String())
}
