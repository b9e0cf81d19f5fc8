package tools

import (
	"context"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/condameta/conda-meta-mcp/internal/clihelp"
	"github.com/condameta/conda-meta-mcp/internal/memo"
)

type cliHelpInput struct {
	Tool   string `json:"tool,omitempty" jsonschema:"Command line tool to document (default conda)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of help lines per page (0 means all)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Number of help lines to skip before the page"`
	Grep   string `json:"grep,omitempty" jsonschema:"Case-insensitive regular expression filtering help lines before pagination"`
}

func (s *Service) registerCliHelp(srv *mcp.Server) error {
	schema, err := jsonschema.For[cliHelpInput](nil)
	if err != nil {
		return err
	}

	tool := &mcp.Tool{
		Name: "cli_help",
		Description: "Collect the full help text of a command line tool and all its " +
			"subcommands, with optional line filtering and pagination.",
		InputSchema: schema,
	}

	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, in cliHelpInput) (*mcp.CallToolResult, any, error) {
		text, err := s.cliHelp(ctx, in)
		if err != nil {
			return errorResult("cli_help", err), nil, nil
		}
		return textResult(text), nil, nil
	})

	return nil
}

func (s *Service) cliHelp(ctx context.Context, in cliHelpInput) (string, error) {
	name := strings.TrimSpace(in.Tool)
	if name == "" {
		name = "conda"
	}

	window, err := memo.NewWindow(in.Limit, in.Offset)
	if err != nil {
		return "", err
	}

	text, err := s.helpCache.GetOrFill(ctx, memo.Key(name), func(ctx context.Context) (string, error) {
		return s.help.Help(ctx, name)
	})
	if err != nil {
		return "", err
	}

	lines := strings.Split(text, "\n")
	lines, err = clihelp.Grep(lines, in.Grep)
	if err != nil {
		return "", err
	}

	return strings.Join(memo.Paginate(lines, window), "\n"), nil
}
