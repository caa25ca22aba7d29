package testutil

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/pathutil"
)

// WorkspaceProtocol is the specifier prefix that refers to a sibling project.
const WorkspaceProtocol = "workspace:"

// Manifest is the subset of a project manifest the fake resolver understands.
// Dependency specifiers are either an exact registry version ("1.0.0") or
// "workspace:*".
type Manifest struct {
	ID                      string
	Name                    string
	Version                 string
	Dependencies            map[string]string
	DevDependencies         map[string]string
	InjectWorkspacePackages bool
}

// Workspace produces resolution states the way the tree and peer resolution
// stages would, so dedupe behavior can be exercised across repeated installs.
type Workspace struct {
	LockfileDir string
	// Inject resolves every workspace dependency as a materialized copy.
	Inject   bool
	Projects []*Manifest
}

// NewWorkspace creates a workspace rooted at lockfileDir.
func NewWorkspace(lockfileDir string, inject bool, projects ...*Manifest) *Workspace {
	return &Workspace{LockfileDir: lockfileDir, Inject: inject, Projects: projects}
}

// Manifest returns the manifest with the given project id, or nil.
func (w *Workspace) Manifest(id string) *Manifest {
	for _, m := range w.Projects {
		if m.ID == id {
			return m
		}
	}
	return nil
}

type resolver struct {
	w      *Workspace
	state  *depgraph.State
	nextID int
}

// Resolve returns a fresh resolution state for the workspace.
func (w *Workspace) Resolve() *depgraph.State {
	r := &resolver{
		w: w,
		state: &depgraph.State{
			LockfileDir:             w.LockfileDir,
			NodePaths:               depgraph.NodePaths{},
			Graph:                   depgraph.Graph{},
			DependenciesByProjectID: depgraph.DependenciesByProjectID{},
			ResolvedImporters:       depgraph.ResolvedImporters{},
		},
	}
	for _, m := range w.Projects {
		r.resolveProject(m)
	}
	return r.state
}

func (r *resolver) resolveProject(m *Manifest) {
	id := depgraph.ProjectID(m.ID)
	project := &depgraph.Project{
		ID:                      id,
		DirectNodeIDsByAlias:    map[string]depgraph.NodeID{},
		InjectWorkspacePackages: m.InjectWorkspacePackages,
	}
	canonical := map[string]depgraph.DepPath{}
	importer := &depgraph.ResolvedImporter{}

	add := func(alias, spec string, dev bool) {
		rec := depgraph.DependencyRecord{Alias: alias, Specifier: spec, Dev: dev}
		if strings.HasPrefix(spec, WorkspaceProtocol) {
			target := r.byName(alias)
			rec.Name, rec.Version = target.Name, target.Version
			if !r.w.Inject {
				rec.IsLinked = true
				rec.PkgID = depgraph.LinkedPrefix + pathutil.RelativeLink(m.ID, target.ID)
				rec.Resolution = depgraph.Resolution{
					Type:      depgraph.ResolutionTypeDirectory,
					Directory: pathutil.ProjectDir(r.w.LockfileDir, target.ID),
				}
				importer.DirectDependencies = append(importer.DirectDependencies, rec)
				importer.LinkedDependencies = append(importer.LinkedDependencies, rec)
				return
			}
			rec.DepPath = r.injectedNode(target)
			rec.PkgID = depgraph.MaterializedPrefix + target.ID
			rec.Resolution = r.state.Graph[rec.DepPath].Resolution
		} else {
			rec.Name, rec.Version = alias, spec
			rec.DepPath = r.registryNode(alias, spec)
			rec.PkgID = string(rec.DepPath)
		}
		project.DirectNodeIDsByAlias[alias] = r.edge(rec.DepPath)
		canonical[alias] = rec.DepPath
		importer.DirectDependencies = append(importer.DirectDependencies, rec)
	}

	for _, alias := range slices.Sorted(maps.Keys(m.Dependencies)) {
		add(alias, m.Dependencies[alias], false)
	}
	for _, alias := range slices.Sorted(maps.Keys(m.DevDependencies)) {
		add(alias, m.DevDependencies[alias], true)
	}

	r.state.Projects = append(r.state.Projects, project)
	r.state.DependenciesByProjectID[id] = canonical
	r.state.ResolvedImporters[id] = importer
}

func (r *resolver) edge(depPath depgraph.DepPath) depgraph.NodeID {
	r.nextID++
	id := depgraph.NodeID(strconv.Itoa(r.nextID))
	r.state.NodePaths[id] = depPath
	return id
}

func (r *resolver) registryNode(name, version string) depgraph.DepPath {
	depPath := depgraph.DepPath(name + "@" + version)
	if _, ok := r.state.Graph[depPath]; !ok {
		r.state.Graph[depPath] = &depgraph.PackageNode{
			ID:         depgraph.PkgIdentifier(depPath),
			Name:       name,
			Version:    version,
			Resolution: depgraph.Resolution{Integrity: "sha512-" + name + "-" + version},
		}
	}
	return depPath
}

// injectedNode resolves a materialized copy of target with its production
// dependencies only.
func (r *resolver) injectedNode(target *Manifest) depgraph.DepPath {
	depPath := depgraph.DepPath(target.Name + "@" + depgraph.MaterializedPrefix + target.ID)
	if _, ok := r.state.Graph[depPath]; ok {
		return depPath
	}
	node := &depgraph.PackageNode{
		ID:         depgraph.PkgIdentifier(depgraph.MaterializedPrefix + target.ID),
		Name:       target.Name,
		Version:    target.Version,
		Resolution: depgraph.Resolution{Type: depgraph.ResolutionTypeDirectory, Directory: target.ID},
	}
	r.state.Graph[depPath] = node
	for _, alias := range slices.Sorted(maps.Keys(target.Dependencies)) {
		spec := target.Dependencies[alias]
		if node.Children == nil {
			node.Children = map[string]depgraph.DepPath{}
		}
		if strings.HasPrefix(spec, WorkspaceProtocol) {
			node.Children[alias] = r.injectedNode(r.byName(alias))
			continue
		}
		node.Children[alias] = r.registryNode(alias, spec)
	}
	return depPath
}

func (r *resolver) byName(name string) *Manifest {
	for _, m := range r.w.Projects {
		if m.Name == name {
			return m
		}
	}
	panic("testutil: no workspace project named " + name)
}
