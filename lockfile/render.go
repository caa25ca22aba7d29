package lockfile

import (
	"maps"
	"slices"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/wserrors"
)

// FromState renders every importer in state and the packages reachable from
// their non-linked direct dependencies. A nil importer renders as empty.
//
// Importer versions are DepPathToRef(depPath, alias, name) for resolved
// records and the record's "link:" identifier for linked ones. A reachable
// DepPath without a graph node is a *wserrors.ConsistencyError.
func FromState(state *depgraph.State) (*Lockfile, error) {
	lf := &Lockfile{
		LockfileVersion: Version,
		Importers:       make(map[depgraph.ProjectID]*Importer, len(state.ResolvedImporters)),
		Packages:        make(map[depgraph.DepPath]*Package),
	}

	var queue []depgraph.DepPath
	for _, id := range state.ResolvedImporters.ProjectIDs() {
		importer := &Importer{}
		lf.Importers[id] = importer
		ri := state.ResolvedImporters[id]
		if ri == nil {
			continue
		}
		for _, rec := range ri.DirectDependencies {
			dep := Dependency{Specifier: rec.Specifier}
			if rec.IsLinked {
				dep.Version = rec.PkgID
			} else {
				dep.Version = depgraph.DepPathToRef(string(rec.DepPath), rec.Alias, recordName(state, rec))
				queue = append(queue, rec.DepPath)
			}
			importer.add(rec, dep)
		}
	}

	for len(queue) > 0 {
		depPath := queue[0]
		queue = queue[1:]
		if _, done := lf.Packages[depPath]; done {
			continue
		}
		node := state.Graph[depPath]
		if node == nil {
			return nil, &wserrors.ConsistencyError{
				Kind:    wserrors.KindMissingNode,
				DepPath: string(depPath),
				Message: "referenced package is not in the graph",
			}
		}

		pkg := &Package{Resolution: node.Resolution}
		for _, alias := range slices.Sorted(maps.Keys(node.Children)) {
			child := node.Children[alias]
			name := alias
			if c := state.Graph[child]; c != nil && c.Name != "" {
				name = c.Name
			}
			if pkg.Dependencies == nil {
				pkg.Dependencies = make(map[string]string, len(node.Children))
			}
			pkg.Dependencies[alias] = depgraph.DepPathToRef(string(child), alias, name)
			queue = append(queue, child)
		}
		lf.Packages[depPath] = pkg
	}
	return lf, nil
}

func (i *Importer) add(rec depgraph.DependencyRecord, dep Dependency) {
	group := &i.Dependencies
	switch {
	case rec.Dev:
		group = &i.DevDependencies
	case rec.Optional:
		group = &i.OptionalDependencies
	}
	if *group == nil {
		*group = make(map[string]Dependency)
	}
	(*group)[rec.Alias] = dep
}

func recordName(state *depgraph.State, rec depgraph.DependencyRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	if node := state.Graph[rec.DepPath]; node != nil && node.Name != "" {
		return node.Name
	}
	return rec.Alias
}
