package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/wsdedupe/dedupe"
	"github.com/erraggy/wsdedupe/depgraph"
)

type dedupeInput struct {
	State        stateInput `json:"state"                   jsonschema:"The resolution state to deduplicate"`
	Projects     []string   `json:"projects,omitempty"      jsonschema:"Consuming project ids to scan (default: all projects)"`
	PinInjected  *bool      `json:"pin_injected,omitempty"  jsonschema:"Keep every injected workspace dependency materialized (default from WSDEDUPE_PIN_INJECTED)"`
	Concurrency  int        `json:"concurrency,omitempty"   jsonschema:"Projects evaluated in parallel (default from WSDEDUPE_CONCURRENCY)"`
	IncludeState bool       `json:"include_state,omitempty" jsonschema:"Include the rewritten state (YAML) in output"`
	Output       string     `json:"output,omitempty"        jsonschema:"File path to write the rewritten state to"`
}

type dedupedEdge struct {
	Project string `json:"project"`
	Alias   string `json:"alias"`
	Target  string `json:"target"`
	DepPath string `json:"dep_path"`
	Link    string `json:"link"`
}

type childMismatch struct {
	Alias     string `json:"alias"`
	Copy      string `json:"copy"`
	Canonical string `json:"canonical,omitempty"`
}

type skippedEdge struct {
	Project    string          `json:"project"`
	Alias      string          `json:"alias"`
	Target     string          `json:"target"`
	DepPath    string          `json:"dep_path"`
	Reason     string          `json:"reason"`
	Mismatches []childMismatch `json:"mismatches,omitempty"`
}

type dedupeOutput struct {
	Disabled        bool          `json:"disabled,omitempty"`
	ProjectsScanned int           `json:"projects_scanned"`
	Injected        int           `json:"injected"`
	DedupedCount    int           `json:"deduped_count"`
	Deduped         []dedupedEdge `json:"deduped,omitempty"`
	Skipped         []skippedEdge `json:"skipped,omitempty"`
	WrittenTo       string        `json:"written_to,omitempty"`
	State           string        `json:"state,omitempty"`
}

func handleDedupe(_ context.Context, _ *mcp.CallToolRequest, input dedupeInput) (*mcp.CallToolResult, dedupeOutput, error) {
	state, err := input.State.resolve()
	if err != nil {
		return errResult(err), dedupeOutput{}, nil
	}

	pin := cfg.PinInjected
	if input.PinInjected != nil {
		pin = *input.PinInjected
	}
	concurrency := cfg.Concurrency
	if input.Concurrency > 0 {
		concurrency = input.Concurrency
	}

	result, err := dedupe.DedupeWithOptions(
		dedupe.WithState(state),
		dedupe.WithProjects(projectIDs(input.Projects)...),
		dedupe.WithInjectWorkspacePackages(pin),
		dedupe.WithConcurrency(concurrency),
	)
	if err != nil {
		return errResult(err), dedupeOutput{}, nil
	}

	output := dedupeOutput{
		Disabled:        result.Disabled,
		ProjectsScanned: result.Stats.ProjectsScanned,
		Injected:        result.Stats.Injected,
		DedupedCount:    result.Stats.Deduped,
		Deduped:         makeSlice[dedupedEdge](len(result.Deduped)),
		Skipped:         makeSlice[skippedEdge](len(result.Skipped)),
	}
	for _, e := range result.Deduped {
		output.Deduped = append(output.Deduped, dedupedEdge{
			Project: string(e.Project),
			Alias:   e.Alias,
			Target:  string(e.Target),
			DepPath: string(e.DepPath),
			Link:    e.PkgID,
		})
	}
	for _, s := range result.Skipped {
		output.Skipped = append(output.Skipped, toSkippedEdge(s))
	}

	if input.Output != "" || input.IncludeState {
		data, err := depgraph.MarshalState(result.State)
		if err != nil {
			return errResult(err), dedupeOutput{}, nil
		}
		if input.Output != "" {
			written, err := writeOutput(input.Output, data)
			if err != nil {
				return errResult(err), dedupeOutput{}, nil
			}
			output.WrittenTo = written
		}
		if input.IncludeState {
			output.State = string(data)
		}
	}

	return nil, output, nil
}

func toSkippedEdge(s dedupe.SkippedEdge) skippedEdge {
	out := skippedEdge{
		Project:    string(s.Project),
		Alias:      s.Alias,
		Target:     string(s.Target),
		DepPath:    string(s.DepPath),
		Reason:     string(s.Reason),
		Mismatches: makeSlice[childMismatch](len(s.Mismatches)),
	}
	for _, m := range s.Mismatches {
		out.Mismatches = append(out.Mismatches, childMismatch{
			Alias:     m.Alias,
			Copy:      string(m.Copy),
			Canonical: string(m.Canonical),
		})
	}
	return out
}
