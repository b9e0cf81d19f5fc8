package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/condameta/conda-meta-mcp/internal/memo"
	"github.com/condameta/conda-meta-mcp/internal/repodata"
	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

const (
	defaultQueryLimit    = 30
	defaultQueryPlatform = "linux-64"
)

type repoqueryInput struct {
	Subcmd   string `json:"subcmd" jsonschema:"Query kind: depends lists the dependencies of a package, whoneeds lists the packages that depend on it"`
	Spec     string `json:"spec" jsonschema:"Package reference or match spec to query"`
	Channel  string `json:"channel,omitempty" jsonschema:"Channel to query (default conda-forge)"`
	Platform string `json:"platform,omitempty" jsonschema:"Platform subdirectory (default linux-64)"`
	Tree     bool   `json:"tree,omitempty" jsonschema:"Resolve the query transitively instead of one level deep"`
	Limit    *int   `json:"limit,omitempty" jsonschema:"Maximum number of packages per page (default 30, 0 means all)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Number of packages to skip before the page"`
	Fields   string `json:"fields,omitempty" jsonschema:"Comma-separated record fields to include (empty means all)"`
}

// repoqueryEnvelope echoes the effective query next to its paginated result.
type repoqueryEnvelope struct {
	Query  repoqueryEcho   `json:"query"`
	Result repoqueryResult `json:"result"`
}

type repoqueryEcho struct {
	Subcmd   string     `json:"subcmd"`
	Spec     string     `json:"spec"`
	Channel  string     `json:"channel"`
	Platform string     `json:"platform"`
	Tree     bool       `json:"tree"`
	Limit    memo.Limit `json:"limit"`
	Offset   int        `json:"offset"`
	Total    int        `json:"total"`
}

type repoqueryResult struct {
	// Pkgs holds []repodata.QueryRecord, or []map[string]any after field
	// projection.
	Pkgs   any        `json:"pkgs"`
	Count  int        `json:"count"`
	Total  int        `json:"total"`
	Limit  memo.Limit `json:"limit"`
	Offset int        `json:"offset"`
}

func (s *Service) registerRepoquery(srv *mcp.Server) error {
	schema, err := jsonschema.For[repoqueryInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "repoquery",
		Description: "Run a dependency query against one channel and platform: depends resolves " +
			"the dependencies of the newest package matching the spec, whoneeds finds the packages " +
			"that require it. tree follows the query transitively.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in repoqueryInput) (*mcp.CallToolResult, any, error) {
		out, err := s.repoquery(ctx, in)
		if err != nil {
			return errorResult("repoquery", err), nil, nil
		}
		return nil, out, nil
	})

	return nil
}

func (s *Service) repoquery(ctx context.Context, in repoqueryInput) (any, error) {
	subcmd := strings.ToLower(strings.TrimSpace(in.Subcmd))
	spec := strings.TrimSpace(in.Spec)
	channel := strings.TrimSpace(in.Channel)
	platform := strings.TrimSpace(in.Platform)

	if subcmd != "depends" && subcmd != "whoneeds" {
		return nil, toolerr.Validationf("subcmd must be depends or whoneeds, got %q", in.Subcmd)
	}
	if spec == "" {
		return nil, toolerr.Validationf("spec must be a non-empty string")
	}
	if channel == "" {
		channel = "conda-forge"
	}
	if platform == "" {
		platform = defaultQueryPlatform
	}

	limit := defaultQueryLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	window, err := memo.NewWindow(limit, in.Offset)
	if err != nil {
		return nil, err
	}
	fields := memo.ParseFields(in.Fields)

	key := memo.Key(subcmd, spec, channel, platform, strconv.FormatBool(in.Tree))
	full, err := s.queryCache.GetOrFill(ctx, key, func(ctx context.Context) ([]repodata.QueryRecord, error) {
		if subcmd == "depends" {
			return s.repo.Depends(ctx, spec, channel, platform, in.Tree)
		}
		return s.repo.Whoneeds(ctx, spec, channel, platform, in.Tree)
	})
	if err != nil {
		return nil, err
	}

	page := memo.NewPage(full, window)

	pkgs := any(page.Items)
	if len(fields) > 0 {
		records, err := memo.AsRecords(page.Items)
		if err != nil {
			return nil, err
		}
		pkgs = memo.ProjectAll(records, fields)
	}

	return repoqueryEnvelope{
		Query: repoqueryEcho{
			Subcmd:   subcmd,
			Spec:     spec,
			Channel:  channel,
			Platform: platform,
			Tree:     in.Tree,
			Limit:    page.Limit,
			Offset:   page.Offset,
			Total:    page.Total,
		},
		Result: repoqueryResult{
			Pkgs:   pkgs,
			Count:  page.Count,
			Total:  page.Total,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	}, nil
}
