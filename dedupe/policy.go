package dedupe

import "github.com/erraggy/wsdedupe/depgraph"

// DowngradePolicy reports whether the materialized edge from project to the
// workspace project target, under alias, may be replaced by a link.
// It is consulted before the structural eligibility test.
type DowngradePolicy func(project *depgraph.Project, alias string, target depgraph.ProjectID) bool

// AllowAll permits every downgrade; eligibility is then purely structural.
func AllowAll(*depgraph.Project, string, depgraph.ProjectID) bool { return true }

// PinInjected returns the default policy. Edges are pinned, and therefore
// never downgraded, when pinAll is set or when the consuming project is
// configured to keep its workspace dependencies materialized.
func PinInjected(pinAll bool) DowngradePolicy {
	return func(project *depgraph.Project, _ string, _ depgraph.ProjectID) bool {
		if pinAll {
			return false
		}
		return project == nil || !project.InjectWorkspacePackages
	}
}
