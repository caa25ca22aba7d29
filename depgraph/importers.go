package depgraph

import (
	"maps"
	"slices"
)

// Resolution type for local directories.
const ResolutionTypeDirectory = "directory"

// Resolution describes where a package's contents come from.
type Resolution struct {
	Type      string `yaml:"type,omitempty"      json:"type,omitempty"`
	Directory string `yaml:"directory,omitempty" json:"directory,omitempty"`
	Integrity string `yaml:"integrity,omitempty" json:"integrity,omitempty"`
	Tarball   string `yaml:"tarball,omitempty"   json:"tarball,omitempty"`
}

// IsZero reports whether r carries no resolution data.
func (r Resolution) IsZero() bool {
	return r == Resolution{}
}

// DependencyRecord is one direct dependency of a project as handed to the
// materialization and lockfile-writing stages.
type DependencyRecord struct {
	Alias      string     `yaml:"alias"                json:"alias"`
	Name       string     `yaml:"name,omitempty"       json:"name,omitempty"`
	Version    string     `yaml:"version,omitempty"    json:"version,omitempty"`
	Specifier  string     `yaml:"specifier,omitempty"  json:"specifier,omitempty"`
	DepPath    DepPath    `yaml:"depPath,omitempty"    json:"depPath,omitempty"`
	PkgID      string     `yaml:"pkgId,omitempty"      json:"pkgId,omitempty"`
	Dev        bool       `yaml:"dev,omitempty"        json:"dev,omitempty"`
	Optional   bool       `yaml:"optional,omitempty"   json:"optional,omitempty"`
	IsLinked   bool       `yaml:"isLinked,omitempty"   json:"isLinked,omitempty"`
	Resolution Resolution `yaml:"resolution,omitempty" json:"resolution,omitzero"`
}

// ResolvedImporter holds one project's direct and linked dependency records.
type ResolvedImporter struct {
	DirectDependencies []DependencyRecord `yaml:"directDependencies,omitempty" json:"directDependencies,omitempty"`
	LinkedDependencies []DependencyRecord `yaml:"linkedDependencies,omitempty" json:"linkedDependencies,omitempty"`
}

// DirectIndex returns the position of alias in DirectDependencies, or -1.
func (ri *ResolvedImporter) DirectIndex(alias string) int {
	return slices.IndexFunc(ri.DirectDependencies, func(d DependencyRecord) bool {
		return d.Alias == alias
	})
}

// LinkedIndex returns the position of alias in LinkedDependencies, or -1.
func (ri *ResolvedImporter) LinkedIndex(alias string) int {
	return slices.IndexFunc(ri.LinkedDependencies, func(d DependencyRecord) bool {
		return d.Alias == alias
	})
}

// ResolvedImporters is the resolved importers table. It covers every
// workspace project known to the resolution pass, not only the projects a
// command mutates.
type ResolvedImporters map[ProjectID]*ResolvedImporter

// Has reports whether id is a known workspace project.
func (r ResolvedImporters) Has(id ProjectID) bool {
	_, ok := r[id]
	return ok
}

// ProjectIDs returns the table's project ids in sorted order.
func (r ResolvedImporters) ProjectIDs() []ProjectID {
	return slices.Sorted(maps.Keys(r))
}
