package dedupe

import (
	"maps"
	"slices"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/pathutil"
	"github.com/erraggy/wsdedupe/wserrors"
)

// DedupedEdge is an injected edge that was rewritten into a link.
type DedupedEdge struct {
	Project depgraph.ProjectID `json:"project" yaml:"project"`
	Alias   string             `json:"alias"   yaml:"alias"`
	Target  depgraph.ProjectID `json:"target"  yaml:"target"`
	// DepPath is the materialized node the project no longer references.
	DepPath depgraph.DepPath `json:"depPath" yaml:"depPath"`
	// PkgID is the new "link:" reference.
	PkgID string `json:"pkgId" yaml:"pkgId"`
}

// ApplyDedupeMap rewrites every edge in dedupeMap into a linked dependency.
//
// For each (project, alias, target) the alias is removed from the project's
// canonical dependencies, and the project's direct dependency record is
// replaced in place by a linked record that is also appended to its linked
// dependencies. The linked record keeps the original metadata, points at
// target through a "link:" reference relative to project, and resolves to
// the target's absolute directory under state.LockfileDir.
//
// Every record is checked before anything is mutated: a missing record is a
// *wserrors.ConsistencyError and leaves the state untouched. Graph nodes are
// never modified or pruned.
func ApplyDedupeMap(state *depgraph.State, dedupeMap DedupeMap) ([]DedupedEdge, error) {
	type edit struct {
		project depgraph.ProjectID
		alias   string
		target  depgraph.ProjectID
		index   int
	}

	var plan []edit
	for _, id := range slices.Sorted(maps.Keys(dedupeMap)) {
		importer := state.ResolvedImporters[id]
		for _, alias := range slices.Sorted(maps.Keys(dedupeMap[id])) {
			index := -1
			if importer != nil {
				index = importer.DirectIndex(alias)
			}
			if index < 0 {
				return nil, &wserrors.ConsistencyError{
					Kind:    wserrors.KindMissingRecord,
					Project: string(id),
					Alias:   alias,
					Message: "deduplicated alias has no direct dependency record",
				}
			}
			plan = append(plan, edit{project: id, alias: alias, target: dedupeMap[id][alias], index: index})
		}
	}

	deduped := make([]DedupedEdge, 0, len(plan))
	for _, e := range plan {
		delete(state.DependenciesByProjectID[e.project], e.alias)

		importer := state.ResolvedImporters[e.project]
		prev := importer.DirectDependencies[e.index]
		linked := linkedRecord(prev, e.project, e.target, state.LockfileDir)

		importer.DirectDependencies[e.index] = linked
		importer.LinkedDependencies = append(importer.LinkedDependencies, linked)

		deduped = append(deduped, DedupedEdge{
			Project: e.project,
			Alias:   e.alias,
			Target:  e.target,
			DepPath: prev.DepPath,
			PkgID:   linked.PkgID,
		})
	}
	return deduped, nil
}

func linkedRecord(prev depgraph.DependencyRecord, project, target depgraph.ProjectID, lockfileDir string) depgraph.DependencyRecord {
	linked := prev
	linked.IsLinked = true
	linked.PkgID = depgraph.LinkedPrefix + pathutil.RelativeLink(string(project), string(target))
	linked.Resolution = depgraph.Resolution{
		Type:      depgraph.ResolutionTypeDirectory,
		Directory: pathutil.ProjectDir(lockfileDir, string(target)),
	}
	return linked
}
