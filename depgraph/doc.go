// Package depgraph defines the resolution-pass data that the dedupe stage reads
// and mutates: the dependency graph, the workspace projects and their direct
// edges, the canonical per-project dependency index and the resolved importers
// table.
//
// All of it is produced fresh by the tree and peer resolution stages for one
// resolution pass. [State] bundles the structures so a pass can be serialized
// to YAML or JSON, handed to the dedupe stage, and rendered into a lockfile
// afterwards.
//
// # Identity
//
// [DepPath] is a content-addressed string key for one resolved package instance,
// peer context included. Two independently decoded graphs therefore agree on
// node identity by value. Materialized copies of workspace projects use the
// "<name>@file:<relPath>" form, and their [PackageNode] carries the identifier
// "file:<relPath>":
//
//	node := g["b@file:packages/b"]
//	if node.ID.Kind() == depgraph.KindMaterialized {
//	    target, _ := node.ID.Target() // "packages/b"
//	}
//
// # Reference Formatting
//
// [DepPathToRef] renders a dependency path as the version reference persisted in
// a lockfile, dropping the package name when the alias already implies it:
//
//	depgraph.DepPathToRef("foo@1.0.0", "foo", "foo") // "1.0.0"
//	depgraph.DepPathToRef("foo@1.0.0", "bar", "foo") // "foo@1.0.0"
package depgraph
