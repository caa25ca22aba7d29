// Package wsdedupe removes redundant injected workspace dependencies from a
// workspace package manager's resolution state.
//
// # Overview
//
// In a monorepo, a project that depends on a sibling project can receive the
// sibling either as a symlink ("link:") or as an injected, materialized copy
// ("file:"). Injected copies are resolved again in the consumer's context.
// When a copy ends up with the same dependencies the sibling already has, the
// copy only costs disk space and install time. The dedupe stage finds those
// copies and replaces them with links before the lockfile is written.
//
// The module consists of these packages:
//
//   - depgraph: Resolution state types, YAML/JSON codecs and DepPathToRef
//   - dedupe: Locate injected dependencies, evaluate them and rewrite the graph
//   - lockfile: Render a resolution state as lockfile importers and packages
//   - wserrors: Structured consistency, parse and configuration errors
//
// # Installation
//
//	go get github.com/erraggy/wsdedupe
//
// # Quick Start
//
// Deduplicate a state file and render the lockfile:
//
//	result, err := dedupe.DedupeWithOptions(dedupe.WithStateFile("state.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	lf, err := lockfile.FromState(result.State)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := lockfile.Write("lock.yaml", lf); err != nil {
//		log.Fatal(err)
//	}
//
// Inspect which injected dependencies exist without modifying anything:
//
//	state, _ := depgraph.LoadState("state.yaml")
//	injected, _ := dedupe.LocateInjected(state, state.Projects)
//	dedupeMap, skipped := dedupe.BuildDedupeMap(state, injected, dedupe.AllowAll)
//
// # Error Handling
//
//   - Inconsistent states (an edge pointing at a missing node, a deduplicated
//     alias with no dependency record) return *wserrors.ConsistencyError, and
//     the state is left unmodified.
//   - Malformed state and lockfile documents return *wserrors.ParseError.
//   - Invalid options return *wserrors.ConfigError.
//
// All three support errors.Is against the sentinels in package wserrors.
//
// # Security Considerations
//
//   - Output files are created with owner-only permissions (0600).
//   - Output paths that are symlinks are refused.
//   - The MCP server strips absolute paths from error messages.
//
// # Command-Line Interface
//
// The wsdedupe command wraps the library:
//
//	wsdedupe dedupe -o deduped.yaml state.yaml
//	wsdedupe locate -p packages/app state.yaml
//	wsdedupe lockfile -dedupe -o lock.yaml state.yaml
//	wsdedupe ref -alias b b@file:packages/b
//	wsdedupe mcp
package wsdedupe
