package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/wsdedupe/depgraph"
)

type refInput struct {
	DepPath string `json:"dep_path"        jsonschema:"Dependency path, e.g. b@file:packages/b or @scope/pkg@1.0.0"`
	Alias   string `json:"alias,omitempty" jsonschema:"Dependency alias (default: the package name)"`
	Name    string `json:"name,omitempty"  jsonschema:"Real package name (default: derived from dep_path)"`
}

type refOutput struct {
	Ref   string `json:"ref"`
	Name  string `json:"name,omitempty"`
	Alias string `json:"alias,omitempty"`
}

func handleDepPathToRef(_ context.Context, _ *mcp.CallToolRequest, input refInput) (*mcp.CallToolResult, refOutput, error) {
	if input.DepPath == "" {
		return errResult(fmt.Errorf("dep_path is required")), refOutput{}, nil
	}
	name := input.Name
	if name == "" {
		name = depgraph.NameFromDepPath(input.DepPath)
	}
	if name == "" {
		return nil, refOutput{Ref: input.DepPath}, nil
	}
	alias := input.Alias
	if alias == "" {
		alias = name
	}
	return nil, refOutput{
		Ref:   depgraph.DepPathToRef(input.DepPath, alias, name),
		Name:  name,
		Alias: alias,
	}, nil
}
