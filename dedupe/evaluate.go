package dedupe

import (
	"maps"
	"slices"

	"github.com/erraggy/wsdedupe/depgraph"
	"golang.org/x/sync/errgroup"
)

// DedupeMap lists, per consuming project, the aliases whose materialized edge
// can be replaced by a link to the target project.
type DedupeMap map[depgraph.ProjectID]map[string]depgraph.ProjectID

// Count returns the total number of edges to rewrite.
func (m DedupeMap) Count() int {
	n := 0
	for _, aliases := range m {
		n += len(aliases)
	}
	return n
}

// SkipReason explains why an injected edge stays materialized.
type SkipReason string

const (
	// SkipPinned means the downgrade policy keeps the edge materialized.
	SkipPinned SkipReason = "pinned"
	// SkipChildrenMismatch means the copy resolved some child differently
	// from the target project.
	SkipChildrenMismatch SkipReason = "children-mismatch"
)

// ChildMismatch is a child alias on which a materialized copy and its target
// project disagree. Canonical is empty when the target does not depend on Alias.
type ChildMismatch struct {
	Alias     string           `json:"alias"               yaml:"alias"`
	Copy      depgraph.DepPath `json:"copy"                yaml:"copy"`
	Canonical depgraph.DepPath `json:"canonical,omitempty" yaml:"canonical,omitempty"`
}

// SkippedEdge is an injected edge that was not deduplicated.
type SkippedEdge struct {
	Project    depgraph.ProjectID `json:"project"              yaml:"project"`
	Alias      string             `json:"alias"                yaml:"alias"`
	Target     depgraph.ProjectID `json:"target"               yaml:"target"`
	DepPath    depgraph.DepPath   `json:"depPath"              yaml:"depPath"`
	Reason     SkipReason         `json:"reason"               yaml:"reason"`
	Mismatches []ChildMismatch    `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// ChildMismatches compares a materialized copy's children against the
// target project's canonical dependencies. Every child alias must exist in
// canonical with the identical DepPath; canonical may hold extra aliases,
// such as development-only dependencies the copy never needed. The result
// is sorted by alias and empty when the copy is interchangeable.
func ChildMismatches(children, canonical map[string]depgraph.DepPath) []ChildMismatch {
	var out []ChildMismatch
	for _, alias := range slices.Sorted(maps.Keys(children)) {
		want, ok := canonical[alias]
		if ok && want == children[alias] {
			continue
		}
		out = append(out, ChildMismatch{Alias: alias, Copy: children[alias], Canonical: want})
	}
	return out
}

// BuildDedupeMap decides which located edges are eligible for deduplication.
// An edge is eligible when policy permits the downgrade and its materialized
// children form a subset of the target project's canonical dependencies that
// agrees on every alias. A nil policy permits everything. The state is not
// modified.
func BuildDedupeMap(state *depgraph.State, injected InjectedDepsByProject, policy DowngradePolicy) (DedupeMap, []SkippedEdge) {
	return evaluate(state, injected, policy, 1, NopLogger{})
}

type projectEvaluation struct {
	eligible map[string]depgraph.ProjectID
	skipped  []SkippedEdge
}

func evaluate(state *depgraph.State, injected InjectedDepsByProject, policy DowngradePolicy, limit int, logger Logger) (DedupeMap, []SkippedEdge) {
	if policy == nil {
		policy = AllowAll
	}
	projects := make(map[depgraph.ProjectID]*depgraph.Project, len(state.Projects))
	for _, p := range state.Projects {
		projects[p.ID] = p
	}

	ids := injected.ProjectIDs()
	slots := make([]projectEvaluation, len(ids))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, id := range ids {
		g.Go(func() error {
			slots[i] = evaluateProject(state, projects[id], id, injected[id], policy, logger)
			return nil
		})
	}
	_ = g.Wait()

	dedupeMap := make(DedupeMap)
	var skipped []SkippedEdge
	for i, id := range ids {
		if len(slots[i].eligible) > 0 {
			dedupeMap[id] = slots[i].eligible
		}
		skipped = append(skipped, slots[i].skipped...)
	}
	return dedupeMap, skipped
}

func evaluateProject(
	state *depgraph.State,
	project *depgraph.Project,
	id depgraph.ProjectID,
	deps map[string]InjectedDep,
	policy DowngradePolicy,
	logger Logger,
) projectEvaluation {
	var ev projectEvaluation
	logger = logger.With("project", id)
	for _, alias := range slices.Sorted(maps.Keys(deps)) {
		dep := deps[alias]
		skip := SkippedEdge{Project: id, Alias: alias, Target: dep.Target, DepPath: dep.DepPath}

		if !policy(project, alias, dep.Target) {
			logger.Debug("injected dependency pinned", "alias", alias, "target", dep.Target)
			skip.Reason = SkipPinned
			ev.skipped = append(ev.skipped, skip)
			continue
		}

		var children map[string]depgraph.DepPath
		if node := state.Graph[dep.DepPath]; node != nil {
			children = node.Children
		}
		mismatches := ChildMismatches(children, state.DependenciesByProjectID[dep.Target])
		logger.Debug("injected dependency evaluated",
			"alias", alias, "depPath", dep.DepPath,
			"children", len(children), "mismatches", len(mismatches))
		if len(mismatches) > 0 {
			logger.Warn("injected dependency kept materialized",
				"alias", alias, "target", dep.Target, "child", mismatches[0].Alias,
				"copy", mismatches[0].Copy, "canonical", mismatches[0].Canonical)
			skip.Reason = SkipChildrenMismatch
			skip.Mismatches = mismatches
			ev.skipped = append(ev.skipped, skip)
			continue
		}

		if ev.eligible == nil {
			ev.eligible = make(map[string]depgraph.ProjectID)
		}
		ev.eligible[alias] = dep.Target
	}
	return ev
}
