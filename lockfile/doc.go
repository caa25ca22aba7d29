// Package lockfile renders a resolution state as the importers and packages
// sections of a workspace lockfile.
//
// It runs after the dedupe stage and shows what that stage decided: a
// deduplicated edge appears as a "link:" version in its importer, while an
// edge that stayed materialized references a "file:" package entry.
//
//	state, _ := depgraph.LoadState("state.yaml")
//	lf, err := lockfile.FromState(state)
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, _ := lockfile.Marshal(lf)
//
// Packages that are no longer reachable from any importer are left out, so
// materialized copies dropped by the dedupe stage disappear here.
package lockfile
