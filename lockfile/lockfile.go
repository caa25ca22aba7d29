package lockfile

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/fileutil"
	"github.com/erraggy/wsdedupe/wserrors"
)

// Version is the lockfile format version written by Marshal.
const Version = "9.0"

// Dependency is one importer dependency entry.
type Dependency struct {
	Specifier string `yaml:"specifier,omitempty" json:"specifier,omitempty"`
	Version   string `yaml:"version"             json:"version"`
}

// Importer lists a project's direct dependencies by group.
type Importer struct {
	Dependencies         map[string]Dependency `yaml:"dependencies,omitempty"         json:"dependencies,omitempty"`
	DevDependencies      map[string]Dependency `yaml:"devDependencies,omitempty"      json:"devDependencies,omitempty"`
	OptionalDependencies map[string]Dependency `yaml:"optionalDependencies,omitempty" json:"optionalDependencies,omitempty"`
}

// Lookup returns the entry for alias from whichever group holds it.
func (i *Importer) Lookup(alias string) (Dependency, bool) {
	for _, group := range []map[string]Dependency{i.Dependencies, i.DevDependencies, i.OptionalDependencies} {
		if d, ok := group[alias]; ok {
			return d, true
		}
	}
	return Dependency{}, false
}

// Package is a packages-section entry.
type Package struct {
	Resolution   depgraph.Resolution `yaml:"resolution,omitempty"   json:"resolution,omitzero"`
	Dependencies map[string]string   `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Lockfile is the rendered importers and packages sections.
type Lockfile struct {
	LockfileVersion string                           `yaml:"lockfileVersion"    json:"lockfileVersion"`
	Importers       map[depgraph.ProjectID]*Importer `yaml:"importers"          json:"importers"`
	Packages        map[depgraph.DepPath]*Package    `yaml:"packages,omitempty" json:"packages,omitempty"`
}

// Marshal encodes lf as YAML.
func Marshal(lf *Lockfile) ([]byte, error) {
	data, err := yaml.Marshal(lf)
	if err != nil {
		return nil, fmt.Errorf("lockfile: marshaling: %w", err)
	}
	return data, nil
}

// Parse decodes a YAML lockfile. source names the input in error messages.
func Parse(data []byte, source string) (*Lockfile, error) {
	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, &wserrors.ParseError{Path: source, Message: "invalid lockfile", Cause: err}
	}
	if lf.LockfileVersion == "" {
		return nil, &wserrors.ParseError{Path: source, Message: "missing lockfileVersion"}
	}
	if lf.Importers == nil {
		lf.Importers = map[depgraph.ProjectID]*Importer{}
	}
	if lf.Packages == nil {
		lf.Packages = map[depgraph.DepPath]*Package{}
	}
	return &lf, nil
}

// Load reads and decodes a lockfile.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user-provided by design
	if err != nil {
		return nil, fmt.Errorf("lockfile: reading: %w", err)
	}
	return Parse(data, path)
}

// Write encodes lf and writes it to path.
func Write(path string, lf *Lockfile) error {
	data, err := Marshal(lf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("lockfile: writing %s: %w", path, err)
	}
	return nil
}
