package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/wsdedupe/dedupe"
	"github.com/erraggy/wsdedupe/lockfile"
)

type lockfileInput struct {
	State       stateInput `json:"state"                  jsonschema:"The resolution state to render"`
	Dedupe      bool       `json:"dedupe,omitempty"       jsonschema:"Run the dedupe stage before rendering"`
	PinInjected *bool      `json:"pin_injected,omitempty" jsonschema:"With dedupe, keep every injected workspace dependency materialized (default from WSDEDUPE_PIN_INJECTED)"`
	Output      string     `json:"output,omitempty"       jsonschema:"File path to write the lockfile to. If omitted the lockfile is returned inline."`
}

type lockfileOutput struct {
	Importers int    `json:"importers"`
	Packages  int    `json:"packages"`
	Deduped   int    `json:"deduped,omitempty"`
	WrittenTo string `json:"written_to,omitempty"`
	Lockfile  string `json:"lockfile,omitempty"`
}

func handleLockfile(_ context.Context, _ *mcp.CallToolRequest, input lockfileInput) (*mcp.CallToolResult, lockfileOutput, error) {
	state, err := input.State.resolve()
	if err != nil {
		return errResult(err), lockfileOutput{}, nil
	}

	var output lockfileOutput
	if input.Dedupe {
		pin := cfg.PinInjected
		if input.PinInjected != nil {
			pin = *input.PinInjected
		}
		result, err := dedupe.DedupeWithOptions(
			dedupe.WithState(state),
			dedupe.WithInjectWorkspacePackages(pin),
			dedupe.WithConcurrency(cfg.Concurrency),
		)
		if err != nil {
			return errResult(err), lockfileOutput{}, nil
		}
		output.Deduped = result.Stats.Deduped
	}

	lf, err := lockfile.FromState(state)
	if err != nil {
		return errResult(err), lockfileOutput{}, nil
	}
	data, err := lockfile.Marshal(lf)
	if err != nil {
		return errResult(err), lockfileOutput{}, nil
	}

	output.Importers = len(lf.Importers)
	output.Packages = len(lf.Packages)
	if input.Output != "" {
		written, err := writeOutput(input.Output, data)
		if err != nil {
			return errResult(err), lockfileOutput{}, nil
		}
		output.WrittenTo = written
	} else {
		output.Lockfile = string(data)
	}
	return nil, output, nil
}
