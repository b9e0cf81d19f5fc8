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

type pypiToCondaInput struct {
	PypiName string `json:"pypi_name" jsonschema:"PyPI distribution name, e.g. scikit-learn"`
}

func (s *Service) registerPypiToConda(srv *mcp.Server) error {
	schema, err := jsonschema.For[pypiToCondaInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "pypi_to_conda",
		Description: "Translate a PyPI distribution name to its conda package name via the " +
			"grayskull mapping, falling back to the lowercase PyPI name when unmapped.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in pypiToCondaInput) (*mcp.CallToolResult, any, error) {
		out, err := s.pypiToConda(ctx, in)
		if err != nil {
			return errorResult("pypi_to_conda", err), nil, nil
		}
		return nil, out, nil
	})

	return nil
}

func (s *Service) pypiToConda(ctx context.Context, in pypiToCondaInput) (any, error) {
	name := strings.TrimSpace(in.PypiName)
	if name == "" {
		return nil, toolerr.Validationf("pypi_name must be a non-empty string")
	}

	mapping, err := s.pypiCache.GetOrFill(ctx, memo.Key(name), func(ctx context.Context) (forge.PypiMapping, error) {
		return s.forge.PypiToConda(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	return mapping, nil
}
