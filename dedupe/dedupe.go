package dedupe

import (
	"fmt"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/pathutil"
	"github.com/erraggy/wsdedupe/wserrors"
)

// Config configures a Deduper.
type Config struct {
	// DedupeInjectedDeps enables the stage. When false, Dedupe returns an
	// empty result without touching the state. The state's own
	// settings.dedupeInjectedDeps can also disable it.
	DedupeInjectedDeps bool
	// InjectWorkspacePackages pins every injected edge so it stays
	// materialized. Ignored when Policy is set.
	InjectWorkspacePackages bool
	// Concurrency bounds how many projects are located and evaluated at
	// once. Values below 2 run sequentially. Rewriting is always sequential.
	Concurrency int
	// Policy overrides the default downgrade policy (see PinInjected).
	Policy DowngradePolicy
	// Logger receives debug and info logs. Nil means NopLogger.
	Logger Logger
}

// DefaultConfig returns a Config with deduplication enabled, no pinning and
// sequential evaluation.
func DefaultConfig() Config {
	return Config{
		DedupeInjectedDeps: true,
		Concurrency:        1,
	}
}

// Deduper runs the injected-dependency dedupe stage.
type Deduper struct {
	config Config
	logger Logger
}

// New creates a Deduper.
func New(config Config) *Deduper {
	logger := config.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return &Deduper{config: config, logger: logger}
}

// Stats summarizes one run.
type Stats struct {
	ProjectsScanned int `json:"projectsScanned" yaml:"projectsScanned"`
	EdgesScanned    int `json:"edgesScanned"    yaml:"edgesScanned"`
	Injected        int `json:"injected"        yaml:"injected"`
	Deduped         int `json:"deduped"         yaml:"deduped"`
	Pinned          int `json:"pinned"          yaml:"pinned"`
	Mismatched      int `json:"mismatched"      yaml:"mismatched"`
}

// Result is the outcome of a dedupe run.
type Result struct {
	// State is the resolution state, mutated in place.
	State *depgraph.State `json:"-" yaml:"-"`
	// Disabled is true when the stage was switched off by configuration.
	Disabled bool                  `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Injected InjectedDepsByProject `json:"injected,omitempty" yaml:"injected,omitempty"`
	// DedupeMap is the plan that was applied.
	DedupeMap DedupeMap     `json:"dedupeMap,omitempty" yaml:"dedupeMap,omitempty"`
	Deduped   []DedupedEdge `json:"deduped,omitempty"   yaml:"deduped,omitempty"`
	Skipped   []SkippedEdge `json:"skipped,omitempty"   yaml:"skipped,omitempty"`
	Stats     Stats         `json:"stats"               yaml:"stats"`
}

// Dedupe replaces redundant injected workspace dependencies in state with
// links. projects restricts which consuming projects are scanned; when empty,
// every project in state.Projects is scanned. Target projects are always
// recognized through the complete importer table.
//
// The plan is computed in full before the state is mutated, so a consistency
// error in any phase leaves the state unchanged.
func (d *Deduper) Dedupe(state *depgraph.State, projects ...depgraph.ProjectID) (*Result, error) {
	if state == nil {
		return nil, &wserrors.ConfigError{Option: "state", Message: "resolution state is required"}
	}
	if d.config.Concurrency < 0 {
		return nil, &wserrors.ConfigError{Option: "concurrency", Value: d.config.Concurrency, Message: "must not be negative"}
	}

	scope, err := SelectProjects(state, projects)
	if err != nil {
		return nil, err
	}

	result := &Result{State: state}
	if !d.config.DedupeInjectedDeps || !state.Settings.DedupeEnabled() {
		d.logger.Debug("injected dependency dedupe disabled")
		result.Disabled = true
		return result, nil
	}

	injected, scanned, err := locate(state, scope, d.config.Concurrency, d.logger)
	if err != nil {
		return nil, fmt.Errorf("dedupe: locating injected dependencies: %w", err)
	}

	dedupeMap, skipped := evaluate(state, injected, d.policy(state), d.config.Concurrency, d.logger)

	deduped, err := ApplyDedupeMap(state, dedupeMap)
	if err != nil {
		return nil, fmt.Errorf("dedupe: applying dedupe map: %w", err)
	}

	result.Injected = injected
	result.DedupeMap = dedupeMap
	result.Deduped = deduped
	result.Skipped = skipped
	result.Stats = Stats{
		ProjectsScanned: len(scope),
		EdgesScanned:    scanned,
		Injected:        injected.Count(),
		Deduped:         len(deduped),
	}
	for _, s := range skipped {
		switch s.Reason {
		case SkipPinned:
			result.Stats.Pinned++
		case SkipChildrenMismatch:
			result.Stats.Mismatched++
		}
	}

	d.logger.Info("injected dependencies deduplicated",
		"projects", result.Stats.ProjectsScanned,
		"injected", result.Stats.Injected,
		"deduped", result.Stats.Deduped,
		"pinned", result.Stats.Pinned,
		"mismatched", result.Stats.Mismatched)
	return result, nil
}

func (d *Deduper) policy(state *depgraph.State) DowngradePolicy {
	if d.config.Policy != nil {
		return d.config.Policy
	}
	return PinInjected(d.config.InjectWorkspacePackages || state.Settings.InjectWorkspacePackages)
}

// SelectProjects resolves a project subset of state. Ids are normalized the
// way project ids in a state file are; an empty list selects every project.
// An unknown id is a *wserrors.ConfigError rather than a silent skip.
func SelectProjects(state *depgraph.State, ids []depgraph.ProjectID) ([]*depgraph.Project, error) {
	if len(ids) == 0 {
		return state.Projects, nil
	}
	scope := make([]*depgraph.Project, 0, len(ids))
	seen := make(map[depgraph.ProjectID]bool, len(ids))
	for _, raw := range ids {
		norm, ok := pathutil.NormalizeProjectID(string(raw))
		if !ok {
			return nil, &wserrors.ConfigError{Option: "projects", Value: string(raw), Message: "invalid project id"}
		}
		id := depgraph.ProjectID(norm)
		if seen[id] {
			continue
		}
		seen[id] = true
		p := state.Project(id)
		if p == nil {
			return nil, &wserrors.ConfigError{Option: "projects", Value: string(id), Message: "unknown project"}
		}
		scope = append(scope, p)
	}
	return scope, nil
}
