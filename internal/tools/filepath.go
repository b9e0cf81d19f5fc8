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

type filePathSearchInput struct {
	Path   string `json:"path" jsonschema:"File path to look up, e.g. bin/python or lib/libssl.so"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of artifacts per page (0 means all)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Number of artifacts to skip before the page"`
}

type filePathSearchEnvelope struct {
	QueryPath string     `json:"query_path"`
	Artifacts []string   `json:"artifacts"`
	Count     int        `json:"count"`
	Total     int        `json:"total"`
	Limit     memo.Limit `json:"limit"`
	Offset    int        `json:"offset"`
	Error     string     `json:"error,omitempty"`
}

func (s *Service) registerFilePathSearch(srv *mcp.Server) error {
	schema, err := jsonschema.For[filePathSearchInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "file_path_search",
		Description: "Find conda-forge artifacts that ship a given file path, via the " +
			"path-to-artifacts service.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in filePathSearchInput) (*mcp.CallToolResult, any, error) {
		out, err := s.filePathSearch(ctx, in)
		if err != nil {
			return errorResult("file_path_search", err), nil, nil
		}
		return nil, out, nil
	})

	return nil
}

func (s *Service) filePathSearch(ctx context.Context, in filePathSearchInput) (any, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return nil, toolerr.Validationf("path must be a non-empty string")
	}

	window, err := memo.NewWindow(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	raw, err := s.pathCache.GetOrFill(ctx, memo.Key(path), func(ctx context.Context) (forge.PathSearchResult, error) {
		return s.forge.PathSearch(ctx, path)
	})
	if err != nil {
		return nil, err
	}

	if !raw.OK {
		// A service-level failure is part of the answer, not a transport
		// error: report it in the envelope with an empty page.
		return filePathSearchEnvelope{
			QueryPath: path,
			Artifacts: []string{},
			Limit:     memo.Limit(window.Limit),
			Offset:    window.Offset,
			Error:     raw.Err,
		}, nil
	}

	page := memo.NewPage(raw.Artifacts, window)

	return filePathSearchEnvelope{
		QueryPath: path,
		Artifacts: page.Items,
		Count:     page.Count,
		Total:     page.Total,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}, nil
}
