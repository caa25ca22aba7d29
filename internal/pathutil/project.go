package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizeProjectID cleans a slash-separated project directory that is
// relative to the lockfile directory. The root project is ".".
// It reports false for values that cannot name a workspace project:
// empty strings and absolute paths.
func NormalizeProjectID(id string) (string, bool) {
	id = strings.TrimSpace(filepath.ToSlash(id))
	if id == "" || path.IsAbs(id) || filepath.IsAbs(id) {
		return "", false
	}
	return path.Clean(id), true
}

// RelativeLink returns the slash-separated path from project from to project to,
// both relative to the lockfile directory. "a" -> "b" yields "../b" and
// "packages/a" -> "." yields "../..".
func RelativeLink(from, to string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(to))
	if err != nil {
		return path.Clean(filepath.ToSlash(to))
	}
	return path.Clean(filepath.ToSlash(rel))
}

// ProjectDir returns the absolute location of project id under lockfileDir.
func ProjectDir(lockfileDir, id string) string {
	return filepath.Join(lockfileDir, filepath.FromSlash(id))
}
