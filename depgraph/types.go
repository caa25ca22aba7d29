package depgraph

import (
	"maps"
	"slices"
	"strings"
)

// DepPath uniquely identifies one resolved package instance, including its
// peer context, within a single resolution pass.
type DepPath string

// NodeID identifies a direct-dependency edge before its final DepPath is known.
type NodeID string

// ProjectID is a workspace project's directory relative to the lockfile
// directory, slash-separated. The root project is ".".
type ProjectID string

// Package identifier prefixes.
const (
	// MaterializedPrefix marks a full on-disk copy of a local directory.
	MaterializedPrefix = "file:"
	// LinkedPrefix marks a symbolic reference to a local directory.
	LinkedPrefix = "link:"
)

// Kind is the resolution kind encoded in a PkgIdentifier.
type Kind int

const (
	// KindOther covers registry-resolved and any other non-local packages.
	KindOther Kind = iota
	// KindMaterialized is a "file:" copy.
	KindMaterialized
	// KindLinked is a "link:" reference.
	KindLinked
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindMaterialized:
		return "materialized"
	case KindLinked:
		return "linked"
	default:
		return "other"
	}
}

// PkgIdentifier is the resolution id carried by a graph node, e.g.
// "file:packages/b", "link:../b" or an opaque registry id.
type PkgIdentifier string

// Kind reports the resolution kind of id.
func (id PkgIdentifier) Kind() Kind {
	switch {
	case strings.HasPrefix(string(id), MaterializedPrefix):
		return KindMaterialized
	case strings.HasPrefix(string(id), LinkedPrefix):
		return KindLinked
	default:
		return KindOther
	}
}

// Target returns the relative path embedded in a materialized or linked
// identifier. It reports false for other kinds and for an empty path.
func (id PkgIdentifier) Target() (string, bool) {
	var rest string
	switch id.Kind() {
	case KindMaterialized:
		rest = string(id)[len(MaterializedPrefix):]
	case KindLinked:
		rest = string(id)[len(LinkedPrefix):]
	default:
		return "", false
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// PackageNode is one resolved package instance in the dependency graph.
type PackageNode struct {
	ID         PkgIdentifier      `yaml:"id"                   json:"id"`
	Name       string             `yaml:"name,omitempty"       json:"name,omitempty"`
	Version    string             `yaml:"version,omitempty"    json:"version,omitempty"`
	Resolution Resolution         `yaml:"resolution,omitempty" json:"resolution,omitzero"`
	Children   map[string]DepPath `yaml:"children,omitempty"   json:"children,omitempty"`
}

// Graph maps each DepPath to its node.
type Graph map[DepPath]*PackageNode

// Project is a workspace project taking part in the resolution pass.
type Project struct {
	ID ProjectID `yaml:"id" json:"id"`
	// DirectNodeIDsByAlias maps each direct dependency alias to its edge.
	DirectNodeIDsByAlias map[string]NodeID `yaml:"directDependencies,omitempty" json:"directDependencies,omitempty"`
	// InjectWorkspacePackages records that upstream policy keeps this project's
	// workspace dependencies materialized.
	InjectWorkspacePackages bool `yaml:"injectWorkspacePackages,omitempty" json:"injectWorkspacePackages,omitempty"`
}

// Aliases returns the project's direct dependency aliases in sorted order.
func (p *Project) Aliases() []string {
	return slices.Sorted(maps.Keys(p.DirectNodeIDsByAlias))
}

// NodePaths resolves direct edges to their final dependency paths.
type NodePaths map[NodeID]DepPath

// DependenciesByProjectID is the canonical dependency index: for each project,
// its complete alias -> DepPath mapping.
type DependenciesByProjectID map[ProjectID]map[string]DepPath
