// Package dedupe replaces redundant injected workspace dependencies with links.
//
// When a workspace project depends on a sibling project, the resolver may
// "inject" the sibling: it materializes a private copy whose identifier starts
// with "file:" and resolves the copy's dependencies again, in the context of the
// consumer. If the copy ends up with exactly the dependencies the sibling
// already resolves for itself, the copy is redundant and the edge can point at
// the sibling's directory through a "link:" reference instead.
//
// The stage runs between peer resolution and lockfile generation and works in
// three phases:
//
//   - LocateInjected finds direct edges whose node is a materialized copy of a
//     workspace project.
//   - BuildDedupeMap keeps the edges whose copy agrees with the target project
//     on every child alias and that the DowngradePolicy permits.
//   - ApplyDedupeMap rewrites each kept edge into a linked dependency record.
//
// # Quick Start
//
// Run the whole stage on a state file using functional options:
//
//	result, err := dedupe.DedupeWithOptions(
//		dedupe.WithStateFile("state.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Deduplicated %d of %d injected dependencies\n",
//		result.Stats.Deduped, result.Stats.Injected)
//
// Or use a reusable Deduper instance on an in-memory state:
//
//	d := dedupe.New(dedupe.DefaultConfig())
//	result, err := d.Dedupe(state, "packages/app")
//
// # Project Scope
//
// A run may be restricted to the projects a command mutates. Targets are still
// recognized against every importer in the state, so restricting the scope
// never changes whether an individual edge is deduplicated.
//
// # Pinned Edges
//
// With InjectWorkspacePackages set in Config, in the state settings, or on the
// consuming project, injected edges are pinned and stay materialized across
// repeated installs. A custom DowngradePolicy replaces this default.
//
// # Related Packages
//
//   - [github.com/erraggy/wsdedupe/depgraph] - Resolution state types and DepPathToRef
//   - [github.com/erraggy/wsdedupe/lockfile] - Render the rewritten state as a lockfile
//   - [github.com/erraggy/wsdedupe/wserrors] - Consistency and configuration errors
package dedupe
