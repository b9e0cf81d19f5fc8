package tools

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/condameta/conda-meta-mcp/internal/memo"
	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// Selection modes for the file argument beside an explicit member path.
const (
	fileModeSome = "some"
	fileModeAll  = "all"
	fileModeList = "list-without-content"
)

// someMembers is the default selection: the recipe plus the two metadata
// files that answer most questions about a package.
var someMembers = []string{
	"info/recipe/meta.yaml",
	"info/about.json",
	"info/run_exports.json",
}

type packageInsightsInput struct {
	URL    string `json:"url" jsonschema:"Full URL of a .conda or .tar.bz2 package artifact"`
	File   string `json:"file,omitempty" jsonschema:"Member selection: some (default), all, list-without-content, or an explicit member path"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of members per page (0 means all)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Number of members to skip before the page"`
	Fields string `json:"fields,omitempty" jsonschema:"Comma-separated keys to keep when exactly one JSON member is selected"`
}

// insightsEnvelope maps selected member paths to their content. With fields
// set a member's content is its parsed, projected JSON object instead of raw
// text.
type insightsEnvelope struct {
	URL     string         `json:"url"`
	Members map[string]any `json:"members"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Limit   memo.Limit     `json:"limit"`
	Offset  int            `json:"offset"`
}

// insightsListing is the list-without-content shape: per-member line counts
// over every member, unpaginated.
type insightsListing struct {
	URL        string         `json:"url"`
	LineCounts map[string]int `json:"line_counts"`
	Total      int            `json:"total"`
}

func (s *Service) registerPackageInsights(srv *mcp.Server) error {
	schema, err := jsonschema.For[packageInsightsInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "package_insights",
		Description: "Extract metadata members from a conda package archive without installing " +
			"it: the recipe, about and run_exports files by default, all members, a bare member " +
			"listing with line counts, or one explicit member path.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in packageInsightsInput) (*mcp.CallToolResult, any, error) {
		out, err := s.packageInsights(ctx, in)
		if err != nil {
			return errorResult("package_insights", err), nil, nil
		}
		return nil, out, nil
	})

	return nil
}

func (s *Service) packageInsights(ctx context.Context, in packageInsightsInput) (any, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, toolerr.Validationf("url must be a non-empty string")
	}

	file := strings.TrimSpace(in.File)
	if file == "" {
		file = fileModeSome
	}

	window, err := memo.NewWindow(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	fields := memo.ParseFields(in.Fields)

	members, err := s.infoCache.GetOrFill(ctx, memo.Key(url), func(ctx context.Context) (map[string]string, error) {
		return s.pkgs.Info(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	if file == fileModeList {
		counts := make(map[string]int, len(members))
		for path, content := range members {
			counts[path] = lineCount(content)
		}
		return insightsListing{URL: url, LineCounts: counts, Total: len(members)}, nil
	}

	var selected []string
	switch file {
	case fileModeSome:
		for _, path := range someMembers {
			if _, ok := members[path]; ok {
				selected = append(selected, path)
			}
		}
	case fileModeAll:
		for path := range members {
			selected = append(selected, path)
		}
	default:
		if _, ok := members[file]; !ok {
			return nil, toolerr.NotFoundf("archive has no member %q", file)
		}
		selected = []string{file}
	}
	sort.Strings(selected)

	page := memo.NewPage(selected, window)

	out := make(map[string]any, len(page.Items))
	for _, path := range page.Items {
		out[path] = members[path]
	}

	if len(fields) > 0 {
		if len(page.Items) != 1 {
			return nil, toolerr.Validationf("fields requires exactly one selected member, got %d", len(page.Items))
		}

		path := page.Items[0]
		var parsed map[string]any
		if err := json.Unmarshal([]byte(members[path]), &parsed); err != nil {
			return nil, toolerr.Validationf("member %q is not a JSON object, cannot project fields", path)
		}
		out[path] = memo.Project(parsed, fields)
	}

	return insightsEnvelope{
		URL:     url,
		Members: out,
		Count:   page.Count,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}, nil
}

// lineCount counts content lines the way text editors do: a trailing newline
// does not start an extra line.
func lineCount(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
