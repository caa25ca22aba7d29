package depgraph

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/erraggy/wsdedupe/internal/pathutil"
	"github.com/erraggy/wsdedupe/wserrors"
	"go.yaml.in/yaml/v4"
)

// Settings carries the upstream policy that applies to the whole pass.
type Settings struct {
	// DedupeInjectedDeps enables the dedupe stage. Nil means enabled.
	DedupeInjectedDeps *bool `yaml:"dedupeInjectedDeps,omitempty" json:"dedupeInjectedDeps,omitempty"`
	// InjectWorkspacePackages keeps every project's workspace dependencies
	// materialized.
	InjectWorkspacePackages bool `yaml:"injectWorkspacePackages,omitempty" json:"injectWorkspacePackages,omitempty"`
}

// DedupeEnabled reports whether the dedupe stage should run.
func (s Settings) DedupeEnabled() bool {
	return s.DedupeInjectedDeps == nil || *s.DedupeInjectedDeps
}

// State is the complete output of the tree and peer resolution stages for
// one resolution pass.
type State struct {
	// LockfileDir is the absolute directory project ids are relative to.
	LockfileDir string   `yaml:"lockfileDir"        json:"lockfileDir"`
	Settings    Settings `yaml:"settings,omitempty" json:"settings,omitzero"`
	// Projects are the workspace projects resolved in this pass.
	Projects                []*Project              `yaml:"projects"                json:"projects"`
	NodePaths               NodePaths               `yaml:"nodePaths"               json:"nodePaths"`
	Graph                   Graph                   `yaml:"graph"                   json:"graph"`
	DependenciesByProjectID DependenciesByProjectID `yaml:"dependenciesByProjectId" json:"dependenciesByProjectId"`
	// ResolvedImporters covers every known workspace project.
	ResolvedImporters ResolvedImporters `yaml:"resolvedImporters" json:"resolvedImporters"`
}

// ParseState decodes a YAML or JSON resolution state. source names the input
// in error messages. Project ids are normalized and nil tables initialized.
func ParseState(data []byte, source string) (*State, error) {
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &wserrors.ParseError{Path: source, Message: "invalid resolution state", Cause: err}
	}
	if err := s.normalize(); err != nil {
		return nil, &wserrors.ParseError{Path: source, Message: err.Error()}
	}
	return &s, nil
}

// LoadState reads and decodes a resolution state file.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user-provided by design
	if err != nil {
		return nil, fmt.Errorf("depgraph: reading state: %w", err)
	}
	return ParseState(data, path)
}

// MarshalState encodes s as YAML.
func MarshalState(s *State) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("depgraph: marshaling state: %w", err)
	}
	return data, nil
}

func (s *State) normalize() error {
	if s.NodePaths == nil {
		s.NodePaths = NodePaths{}
	}
	if s.Graph == nil {
		s.Graph = Graph{}
	}
	if s.DependenciesByProjectID == nil {
		s.DependenciesByProjectID = DependenciesByProjectID{}
	}
	if s.ResolvedImporters == nil {
		s.ResolvedImporters = ResolvedImporters{}
	}

	seen := make(map[ProjectID]bool, len(s.Projects))
	for i, p := range s.Projects {
		if p == nil {
			return fmt.Errorf("project %d is empty", i)
		}
		id, ok := pathutil.NormalizeProjectID(string(p.ID))
		if !ok {
			return fmt.Errorf("project %d has invalid id %q", i, p.ID)
		}
		p.ID = ProjectID(id)
		if seen[p.ID] {
			return fmt.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}

	importers := make(ResolvedImporters, len(s.ResolvedImporters))
	for id, ri := range s.ResolvedImporters {
		norm, ok := pathutil.NormalizeProjectID(string(id))
		if !ok {
			return fmt.Errorf("importer has invalid id %q", id)
		}
		if _, dup := importers[ProjectID(norm)]; dup {
			return fmt.Errorf("duplicate importer id %q", norm)
		}
		if ri == nil {
			ri = &ResolvedImporter{}
		}
		importers[ProjectID(norm)] = ri
	}
	s.ResolvedImporters = importers

	deps := make(DependenciesByProjectID, len(s.DependenciesByProjectID))
	for id, m := range s.DependenciesByProjectID {
		norm, ok := pathutil.NormalizeProjectID(string(id))
		if !ok {
			return fmt.Errorf("dependency index has invalid project id %q", id)
		}
		if _, dup := deps[ProjectID(norm)]; dup {
			return fmt.Errorf("duplicate dependency index id %q", norm)
		}
		if m == nil {
			m = map[string]DepPath{}
		}
		deps[ProjectID(norm)] = m
	}
	s.DependenciesByProjectID = deps
	return nil
}

// Validate checks that every direct edge of every project resolves to a
// DepPath present in the graph, and that every child edge of a graph node
// does too. A violation is a defect upstream and is reported as a
// *wserrors.ConsistencyError.
func (s *State) Validate() error {
	for _, p := range s.Projects {
		for _, alias := range p.Aliases() {
			nodeID := p.DirectNodeIDsByAlias[alias]
			depPath, ok := s.NodePaths[nodeID]
			if !ok {
				return &wserrors.ConsistencyError{
					Kind:    wserrors.KindMissingDepPath,
					Project: string(p.ID),
					Alias:   alias,
					NodeID:  string(nodeID),
				}
			}
			if s.Graph[depPath] == nil {
				return &wserrors.ConsistencyError{
					Kind:    wserrors.KindMissingNode,
					Project: string(p.ID),
					Alias:   alias,
					NodeID:  string(nodeID),
					DepPath: string(depPath),
				}
			}
		}
	}
	for _, depPath := range slices.Sorted(maps.Keys(s.Graph)) {
		node := s.Graph[depPath]
		if node == nil {
			continue
		}
		for _, alias := range slices.Sorted(maps.Keys(node.Children)) {
			if s.Graph[node.Children[alias]] == nil {
				return &wserrors.ConsistencyError{
					Kind:    wserrors.KindMissingNode,
					Alias:   alias,
					DepPath: string(node.Children[alias]),
					Message: "child of " + string(depPath) + " is not in the graph",
				}
			}
		}
	}
	return nil
}

// Project returns the project with the given id, or nil.
func (s *State) Project(id ProjectID) *Project {
	for _, p := range s.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of s. Callers that cache a decoded state clone it
// before handing it to the dedupe stage, which mutates in place.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{
		LockfileDir:             s.LockfileDir,
		Settings:                s.Settings,
		Projects:                make([]*Project, len(s.Projects)),
		NodePaths:               maps.Clone(s.NodePaths),
		Graph:                   make(Graph, len(s.Graph)),
		DependenciesByProjectID: make(DependenciesByProjectID, len(s.DependenciesByProjectID)),
		ResolvedImporters:       make(ResolvedImporters, len(s.ResolvedImporters)),
	}
	if s.Settings.DedupeInjectedDeps != nil {
		v := *s.Settings.DedupeInjectedDeps
		out.Settings.DedupeInjectedDeps = &v
	}
	for i, p := range s.Projects {
		cp := *p
		cp.DirectNodeIDsByAlias = maps.Clone(p.DirectNodeIDsByAlias)
		out.Projects[i] = &cp
	}
	for k, n := range s.Graph {
		if n == nil {
			out.Graph[k] = nil
			continue
		}
		cn := *n
		cn.Children = maps.Clone(n.Children)
		out.Graph[k] = &cn
	}
	for k, m := range s.DependenciesByProjectID {
		out.DependenciesByProjectID[k] = maps.Clone(m)
	}
	for k, ri := range s.ResolvedImporters {
		if ri == nil {
			out.ResolvedImporters[k] = &ResolvedImporter{}
			continue
		}
		out.ResolvedImporters[k] = &ResolvedImporter{
			DirectDependencies: slices.Clone(ri.DirectDependencies),
			LinkedDependencies: slices.Clone(ri.LinkedDependencies),
		}
	}
	return out
}
