package tools

import (
	"context"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/condameta/conda-meta-mcp/internal/forge"
	"github.com/condameta/conda-meta-mcp/internal/memo"
	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

type importMappingInput struct {
	ImportName string `json:"import_name" jsonschema:"Python import name, possibly dotted, e.g. sklearn or yaml.safe_load's module yaml"`
	Fields     string `json:"fields,omitempty" jsonschema:"Comma-separated result fields to include (empty means all)"`
}

func (s *Service) registerImportMapping(srv *mcp.Server) error {
	schema, err := jsonschema.For[importMappingInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "import_mapping",
		Description: "Map a Python import name to the conda package most likely to provide it, " +
			"with the full candidate set and the heuristic used to pick the winner.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in importMappingInput) (*mcp.CallToolResult, any, error) {
		out, err := s.importMapping(ctx, in)
		if err != nil {
			return errorResult("import_mapping", err), nil, nil
		}
		return nil, out, nil
	})

	return nil
}

func (s *Service) importMapping(ctx context.Context, in importMappingInput) (any, error) {
	name := strings.TrimSpace(in.ImportName)
	if name == "" {
		return nil, toolerr.Validationf("import_name must be a non-empty string")
	}

	fields := memo.ParseFields(in.Fields)

	mapping, err := s.importCache.GetOrFill(ctx, memo.Key(name), func(ctx context.Context) (forge.ImportMapping, error) {
		return s.forge.ImportMapping(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return mapping, nil
	}

	records, err := memo.AsRecords([]forge.ImportMapping{mapping})
	if err != nil {
		return nil, err
	}

	return memo.Project(records[0], fields), nil
}
