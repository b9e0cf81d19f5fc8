package tools

import (
	"context"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/condameta/conda-meta-mcp/internal/memo"
	"github.com/condameta/conda-meta-mcp/internal/repodata"
	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

type packageSearchInput struct {
	Spec     string `json:"spec" jsonschema:"Package reference or match spec, e.g. numpy, numpy>=1.20, numpy=1.20.3=py38h550f1ac_0"`
	Channel  string `json:"channel" jsonschema:"Channel to search in, e.g. defaults, conda-forge, bioconda, nvidia"`
	Platform string `json:"platform" jsonschema:"Platform subdirectory, e.g. linux-64, linux-aarch64, osx-64, osx-arm64, win-64"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results per page (0 means all)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Number of results to skip before the page"`
	Fields   string `json:"fields,omitempty" jsonschema:"Comma-separated record fields to include (empty means all)"`
}

// searchRecord is the wire shape of one package search hit.
type searchRecord struct {
	Version     string   `json:"version"`
	BuildNumber int      `json:"build_number"`
	Build       string   `json:"build"`
	URL         string   `json:"url"`
	Depends     []string `json:"depends"`
}

func (s *Service) registerPackageSearch(srv *mcp.Server) error {
	schema, err := jsonschema.For[packageSearchInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "package_search",
		Description: "Search available conda packages matching a package reference or match spec " +
			"in one channel and platform. Results are deduplicated and sorted newest-first; " +
			"limit/offset paginate and fields projects each record.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in packageSearchInput) (*mcp.CallToolResult, any, error) {
		out, err := s.packageSearch(ctx, in)
		if err != nil {
			return errorResult("package_search", err), nil, nil
		}
		return nil, out, nil
	})

	return nil
}

func (s *Service) packageSearch(ctx context.Context, in packageSearchInput) (any, error) {
	spec := strings.TrimSpace(in.Spec)
	channel := strings.TrimSpace(in.Channel)
	platform := strings.TrimSpace(in.Platform)

	if spec == "" {
		return nil, toolerr.Validationf("spec must be a non-empty string")
	}
	if channel == "" {
		return nil, toolerr.Validationf("channel must be a non-empty string")
	}
	if platform == "" {
		return nil, toolerr.Validationf("platform must be a non-empty string")
	}

	window, err := memo.NewWindow(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	fields := memo.ParseFields(in.Fields)

	key := memo.Key(spec, channel, platform)
	full, err := s.searchCache.GetOrFill(ctx, key, func(ctx context.Context) ([]repodata.PackageRecord, error) {
		return s.repo.Search(ctx, spec, channel, platform)
	})
	if err != nil {
		return nil, err
	}

	records := make([]searchRecord, len(full))
	for i, r := range full {
		records[i] = searchRecord{
			Version:     r.Version,
			BuildNumber: r.BuildNumber,
			Build:       r.Build,
			URL:         r.URL,
			Depends:     r.Depends,
		}
	}

	page := memo.NewPage(records, window)
	if len(fields) == 0 {
		return page, nil
	}

	maps, err := memo.AsRecords(page.Items)
	if err != nil {
		return nil, err
	}

	return memo.Page[map[string]any]{
		Items:  memo.ProjectAll(maps, fields),
		Count:  page.Count,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}
