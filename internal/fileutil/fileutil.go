// Package fileutil holds file modes shared by the commands that write state
// and lockfile output.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for rewritten states and
// rendered lockfiles, which can reveal private registry URLs and workspace
// layout (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600
