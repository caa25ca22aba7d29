package mcpserver

import (
	"context"
	"maps"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/wsdedupe/dedupe"
)

type locateInput struct {
	State    stateInput `json:"state"              jsonschema:"The resolution state to inspect"`
	Projects []string   `json:"projects,omitempty" jsonschema:"Consuming project ids to scan (default: all projects)"`
	Offset   int        `json:"offset,omitempty"   jsonschema:"Skip the first N results (for pagination)"`
	Limit    int        `json:"limit,omitempty"    jsonschema:"Maximum number of results to return (default 100)"`
}

type injectedEdge struct {
	Project    string          `json:"project"`
	Alias      string          `json:"alias"`
	Target     string          `json:"target"`
	DepPath    string          `json:"dep_path"`
	Eligible   bool            `json:"eligible"`
	Mismatches []childMismatch `json:"mismatches,omitempty"`
}

type locateOutput struct {
	Total    int            `json:"total"`
	Returned int            `json:"returned"`
	Injected []injectedEdge `json:"injected,omitempty"`
}

func handleLocate(_ context.Context, _ *mcp.CallToolRequest, input locateInput) (*mcp.CallToolResult, locateOutput, error) {
	state, err := input.State.resolve()
	if err != nil {
		return errResult(err), locateOutput{}, nil
	}
	projects, err := dedupe.SelectProjects(state, projectIDs(input.Projects))
	if err != nil {
		return errResult(err), locateOutput{}, nil
	}

	located, err := dedupe.LocateInjected(state, projects)
	if err != nil {
		return errResult(err), locateOutput{}, nil
	}
	dedupeMap, skipped := dedupe.BuildDedupeMap(state, located, dedupe.AllowAll)

	mismatches := make(map[string][]childMismatch, len(skipped))
	for _, s := range skipped {
		mismatches[string(s.Project)+"\x00"+s.Alias] = toSkippedEdge(s).Mismatches
	}

	edges := makeSlice[injectedEdge](located.Count())
	for _, id := range located.ProjectIDs() {
		for _, alias := range slices.Sorted(maps.Keys(located[id])) {
			dep := located[id][alias]
			_, eligible := dedupeMap[id][alias]
			edges = append(edges, injectedEdge{
				Project:    string(id),
				Alias:      alias,
				Target:     string(dep.Target),
				DepPath:    string(dep.DepPath),
				Eligible:   eligible,
				Mismatches: mismatches[string(id)+"\x00"+alias],
			})
		}
	}

	page := paginate(edges, input.Offset, input.Limit)
	return nil, locateOutput{Total: len(edges), Returned: len(page), Injected: page}, nil
}
