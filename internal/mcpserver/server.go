// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes wsdedupe capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/wsdedupe"
	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/fileutil"
	"github.com/erraggy/wsdedupe/internal/pathutil"
)

const serverInstructions = `wsdedupe MCP server: finds workspace dependencies that were injected as materialized "file:" copies and replaces redundant copies with "link:" references.

Every tool takes a resolution state via state.file or state.content (YAML or JSON), never both.

Configuration: All defaults are configurable via WSDEDUPE_* environment variables set in your MCP client config, or in a .env file passed with 'wsdedupe mcp -env-file'.

Key settings:
- WSDEDUPE_CACHE_ENABLED (default: true) - cache parsed states
- WSDEDUPE_CACHE_MAX_SIZE (default: 10) - maximum cached states
- WSDEDUPE_CACHE_TTL (default: 15m) - cache entry lifetime
- WSDEDUPE_LIST_LIMIT (default: 100) - default result limit for locate
- WSDEDUPE_CONCURRENCY (default: 1) - projects evaluated in parallel
- WSDEDUPE_PIN_INJECTED (default: false) - keep injected dependencies materialized by default

Caching: File entries use path+mtime as key (auto-invalidated on change). Tools always work on a private copy of a cached state.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled. Configuration is reloaded from the environment.
func Run(ctx context.Context) error {
	configure(loadConfig())

	server := mcp.NewServer(
		&mcp.Implementation{Name: "wsdedupe", Version: wsdedupe.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dedupe",
		Description: "Run the injected-dependency dedupe stage on a resolution state. Returns which injected workspace dependencies were replaced by links and which were kept materialized (pinned, or children mismatch with per-alias details). Use projects to restrict the consuming projects scanned; targets are always recognized across the whole workspace. Use output to write the rewritten state to a file, or include_state to return it inline. Pinning default is configurable via WSDEDUPE_PIN_INJECTED.",
	}, handleDedupe)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "locate",
		Description: "List direct dependencies that resolve to a materialized copy of another workspace project, with whether each copy could be replaced by a link. Does not modify anything. Use offset/limit to paginate.",
	}, handleLocate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lockfile",
		Description: "Render the importers and packages sections of a lockfile from a resolution state, optionally after running the dedupe stage. Deduplicated dependencies appear as link: versions and their materialized packages are pruned.",
	}, handleLockfile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dep_path_to_ref",
		Description: "Convert a dependency path such as b@file:packages/b into the version reference a lockfile stores for it. The name prefix is dropped only when the alias equals the package name.",
	}, handleDepPathToRef)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// projectIDs converts tool input project ids.
func projectIDs(ids []string) []depgraph.ProjectID {
	out := makeSlice[depgraph.ProjectID](len(ids))
	for _, id := range ids {
		out = append(out, depgraph.ProjectID(id))
	}
	return out
}

// writeOutput writes data to a sanitized output path and returns the path written.
func writeOutput(path string, data []byte) (string, error) {
	cleaned, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return cleaned, nil
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
