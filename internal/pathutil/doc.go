// Package pathutil handles workspace project ids and the filesystem paths
// derived from them.
//
// Project ids are slash-separated paths relative to the lockfile directory
// ("." is the workspace root). [NormalizeProjectID] brings user input into
// that form, [RelativeLink] computes the target of a "link:" reference
// between two projects, and [ProjectDir] resolves a project's absolute
// directory. [SanitizeOutputPath] guards every file the CLI or MCP server
// writes.
package pathutil
