package dedupe

import (
	"maps"
	"slices"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/pathutil"
	"github.com/erraggy/wsdedupe/wserrors"
	"golang.org/x/sync/errgroup"
)

// InjectedDep is a direct edge that resolves to a materialized copy of another
// workspace project.
type InjectedDep struct {
	DepPath depgraph.DepPath   `json:"depPath" yaml:"depPath"`
	Target  depgraph.ProjectID `json:"target"  yaml:"target"`
}

// InjectedDepsByProject maps each consuming project to its injected edges by alias.
type InjectedDepsByProject map[depgraph.ProjectID]map[string]InjectedDep

// Count returns the total number of injected edges.
func (m InjectedDepsByProject) Count() int {
	n := 0
	for _, deps := range m {
		n += len(deps)
	}
	return n
}

// ProjectIDs returns the consuming project ids in sorted order.
func (m InjectedDepsByProject) ProjectIDs() []depgraph.ProjectID {
	return slices.Sorted(maps.Keys(m))
}

// LocateInjected scans the direct edges of projects and collects those whose
// node is a materialized ("file:") copy of a workspace project.
//
// projects may be any subset of state.Projects, typically the ones the current
// command mutates. Whether a target is a workspace project is always decided
// against the complete state.ResolvedImporters table, so the outcome does not
// depend on which projects a command happens to touch.
//
// Edges whose alias is already represented by a linked record are skipped,
// which makes a second run over rewritten output a no-op. A direct edge without
// a dependency path or graph node is reported as a *wserrors.ConsistencyError.
func LocateInjected(state *depgraph.State, projects []*depgraph.Project) (InjectedDepsByProject, error) {
	located, _, err := locate(state, projects, 1, NopLogger{})
	return located, err
}

// locate runs the locator over projects with at most limit projects in
// flight. It returns the located edges and the number of edges scanned.
// Errors are reported for the first failing project in input order.
func locate(state *depgraph.State, projects []*depgraph.Project, limit int, logger Logger) (InjectedDepsByProject, int, error) {
	slots := make([]map[string]InjectedDep, len(projects))
	scanned := make([]int, len(projects))
	errs := make([]error, len(projects))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, p := range projects {
		g.Go(func() error {
			slots[i], scanned[i], errs[i] = locateProject(state, p, logger)
			return nil
		})
	}
	_ = g.Wait()

	located := make(InjectedDepsByProject)
	total := 0
	for i, p := range projects {
		if errs[i] != nil {
			return nil, 0, errs[i]
		}
		total += scanned[i]
		if len(slots[i]) > 0 {
			located[p.ID] = slots[i]
		}
	}
	return located, total, nil
}

func locateProject(state *depgraph.State, p *depgraph.Project, logger Logger) (map[string]InjectedDep, int, error) {
	var found map[string]InjectedDep
	importer := state.ResolvedImporters[p.ID]
	aliases := p.Aliases()
	logger = logger.With("project", p.ID)

	for _, alias := range aliases {
		nodeID := p.DirectNodeIDsByAlias[alias]
		depPath, ok := state.NodePaths[nodeID]
		if !ok {
			return nil, 0, &wserrors.ConsistencyError{
				Kind:    wserrors.KindMissingDepPath,
				Project: string(p.ID),
				Alias:   alias,
				NodeID:  string(nodeID),
				Message: "direct edge has no dependency path",
			}
		}
		node := state.Graph[depPath]
		if node == nil {
			return nil, 0, &wserrors.ConsistencyError{
				Kind:    wserrors.KindMissingNode,
				Project: string(p.ID),
				Alias:   alias,
				NodeID:  string(nodeID),
				DepPath: string(depPath),
				Message: "dependency path is not in the graph",
			}
		}
		if node.ID.Kind() != depgraph.KindMaterialized {
			continue
		}

		target, ok := workspaceTarget(node.ID, state.ResolvedImporters)
		if !ok {
			logger.Debug("materialized dependency is not a workspace project",
				"alias", alias, "id", node.ID)
			continue
		}
		if importer != nil && alreadyLinked(importer, alias) {
			logger.Debug("injected dependency already linked",
				"alias", alias, "target", target)
			continue
		}

		logger.Debug("injected dependency located",
			"alias", alias, "depPath", depPath, "target", target)
		if found == nil {
			found = make(map[string]InjectedDep)
		}
		found[alias] = InjectedDep{DepPath: depPath, Target: target}
	}
	return found, len(aliases), nil
}

// workspaceTarget resolves a materialized identifier to a project id that is
// present in the complete importer table. Malformed identifiers and
// directories outside the workspace are not workspace references.
func workspaceTarget(id depgraph.PkgIdentifier, importers depgraph.ResolvedImporters) (depgraph.ProjectID, bool) {
	rel, ok := id.Target()
	if !ok {
		return "", false
	}
	norm, ok := pathutil.NormalizeProjectID(rel)
	if !ok {
		return "", false
	}
	target := depgraph.ProjectID(norm)
	return target, importers.Has(target)
}

func alreadyLinked(importer *depgraph.ResolvedImporter, alias string) bool {
	if i := importer.DirectIndex(alias); i >= 0 && importer.DirectDependencies[i].IsLinked {
		return true
	}
	return importer.LinkedIndex(alias) >= 0
}
