package clihelp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

const rootHelp = `usage: conda [-h] [-v] command ...

conda is a tool for managing and deploying applications.

positional arguments:
  {clean,info,install}
        clean        Remove unused packages and caches.
        info         Display information about current conda install.
        install      Install a list of packages.

options:
  -h, --help  Show this help message and exit.
`

// fakeRunner serves canned help output and records invocations.
type fakeRunner struct {
	calls [][]string
}

func (f *fakeRunner) Run(ctx context.Context, bin string, args ...string) (string, error) {
	f.calls = append(f.calls, args)

	if len(args) == 1 && args[0] == "--help" {
		return rootHelp, nil
	}
	if len(args) == 2 && args[1] == "--help" {
		if args[0] == "info" {
			return "", toolerr.Upstreamf("exit status 1")
		}
		return "usage: conda " + args[0] + " [-h]\n", nil
	}

	return "", toolerr.Upstreamf("unexpected invocation %v", args)
}

func TestHelp(t *testing.T) {
	ctx := context.Background()

	t.Run("collects root and subcommand help", func(t *testing.T) {
		runner := &fakeRunner{}
		c := NewCollector(WithRunner(runner), WithBinPath("/usr/bin/conda"))

		text, err := c.Help(ctx, "conda")
		require.NoError(t, err)

		require.Contains(t, text, "conda is a tool for managing")
		require.Contains(t, text, "conda clean\n-----------\n")
		require.Contains(t, text, "conda install\n-------------\n")
		require.Contains(t, text, "usage: conda clean [-h]")

		// Root help plus one call per discovered subcommand.
		require.Len(t, runner.calls, 4)
	})

	t.Run("a failing subcommand is skipped, not fatal", func(t *testing.T) {
		c := NewCollector(WithRunner(&fakeRunner{}), WithBinPath("/usr/bin/conda"))

		text, err := c.Help(ctx, "conda")
		require.NoError(t, err)
		require.NotContains(t, text, "conda info\n")
	})

	t.Run("unsupported tool is a validation error", func(t *testing.T) {
		c := NewCollector(WithRunner(&fakeRunner{}), WithBinPath("/usr/bin/conda"))

		_, err := c.Help(ctx, "mamba")
		require.Error(t, err)
		require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))
	})
}

func TestParseSubcommands(t *testing.T) {
	t.Run("argparse brace list", func(t *testing.T) {
		subs := parseSubcommands("usage: conda [-h] {clean,info,install} ...")
		require.Equal(t, []string{"clean", "info", "install"}, subs)
	})

	t.Run("indented command block", func(t *testing.T) {
		subs := parseSubcommands("commands:\n  build    Build a package\n  render   Render a recipe\n\nother text")
		require.Equal(t, []string{"build", "render"}, subs)
	})

	t.Run("no subcommands", func(t *testing.T) {
		require.Empty(t, parseSubcommands("usage: tool [-h]"))
	})
}

func TestGrep(t *testing.T) {
	lines := strings.Split("alpha\nBravo\ncharlie", "\n")

	t.Run("case insensitive match", func(t *testing.T) {
		out, err := Grep(lines, "bravo")
		require.NoError(t, err)
		require.Equal(t, []string{"Bravo"}, out)
	})

	t.Run("empty pattern keeps everything", func(t *testing.T) {
		out, err := Grep(lines, "")
		require.NoError(t, err)
		require.Equal(t, lines, out)
	})

	t.Run("invalid pattern is a validation error", func(t *testing.T) {
		_, err := Grep(lines, "(unclosed")
		require.Error(t, err)
		require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))
	})
}
