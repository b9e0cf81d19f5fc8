package clihelp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// helpTimeout bounds a single --help invocation.
const helpTimeout = 30 * time.Second

// Runner executes a binary and returns its combined output. The default
// implementation shells out; tests substitute a canned one.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, helpTimeout)
	defer cancel()

	// Help output sometimes lands on stderr; argparse-style tools are
	// inconsistent about it.
	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil && len(out) == 0 {
		return "", toolerr.Upstreamf("run %s %s: %v", bin, strings.Join(args, " "), err)
	}

	return string(out), nil
}

// Collector gathers help text for supported tools.
type Collector struct {
	log     *slog.Logger
	runner  Runner
	binPath string
}

// Option configures a Collector.
type Option func(*Collector)

// WithRunner overrides the command runner.
func WithRunner(r Runner) Option {
	return func(c *Collector) {
		c.runner = r
	}
}

// WithBinPath pins the binary path, skipping discovery.
func WithBinPath(path string) Option {
	return func(c *Collector) {
		c.binPath = path
	}
}

// WithLogger sets the collector logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Collector) {
		c.log = log.With("component", "clihelp")
	}
}

// NewCollector creates a help collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		runner: execRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Help returns the full help text for tool, including every subcommand.
// Only "conda" is supported.
func (c *Collector) Help(ctx context.Context, tool string) (string, error) {
	if tool != "conda" {
		return "", toolerr.Validationf("unknown/not yet implemented tool: %q", tool)
	}

	bin, err := c.findBinary(tool)
	if err != nil {
		return "", err
	}

	root, err := c.runner.Run(ctx, bin, "--help")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(root)

	for _, sub := range parseSubcommands(root) {
		help, err := c.runner.Run(ctx, bin, sub, "--help")
		if err != nil {
			c.log.Debug("Subcommand help failed", "subcommand", sub, "error", err)
			continue
		}

		sb.WriteString("\n\n")
		sb.WriteString(tool + " " + sub)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", len(tool)+len(sub)+1))
		sb.WriteString("\n")
		sb.WriteString(help)
	}

	return sb.String(), nil
}

// findBinary locates the tool binary: explicit pin, then the CONDA_EXE
// convention, then PATH, then common install locations.
func (c *Collector) findBinary(tool string) (string, error) {
	if c.binPath != "" {
		return c.binPath, nil
	}

	if exe := os.Getenv("CONDA_EXE"); exe != "" {
		if _, err := os.Stat(exe); err == nil {
			c.log.Debug("Using CONDA_EXE", "path", exe)
			return exe, nil
		}
	}

	if path, err := exec.LookPath(tool); err == nil {
		return path, nil
	}

	candidates := []string{
		"/opt/conda/bin/" + tool,
		"/usr/local/bin/" + tool,
		"/usr/bin/" + tool,
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(homeDir, "miniconda3", "bin", tool),
			filepath.Join(homeDir, "miniforge3", "bin", tool),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", toolerr.Upstreamf("%s binary not found in CONDA_EXE, PATH, or common locations", tool)
}

// subcommandBraces matches the argparse choice list form: {clean,compare,...}
var subcommandBraces = regexp.MustCompile(`\{([a-z0-9_,-]+)\}`)

// parseSubcommands extracts subcommand names from a root help text. Both the
// argparse brace list and an indented command block are recognized.
func parseSubcommands(root string) []string {
	seen := make(map[string]struct{}, 32)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" {
			seen[name] = struct{}{}
		}
	}

	if m := subcommandBraces.FindStringSubmatch(root); m != nil {
		for _, name := range strings.Split(m[1], ",") {
			add(name)
		}
	}

	inBlock := false
	for _, line := range strings.Split(root, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(lower, "commands") && strings.HasSuffix(lower, ":") {
			inBlock = true
			continue
		}
		if inBlock {
			if strings.TrimSpace(line) == "" || !strings.HasPrefix(line, " ") {
				inBlock = false
				continue
			}
			fields := strings.Fields(line)
			if len(fields) > 0 && !strings.HasPrefix(fields[0], "-") {
				add(fields[0])
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Grep filters lines by a case-insensitive regular expression. An empty
// pattern keeps every line; an invalid pattern is a validation error.
func Grep(lines []string, pattern string) ([]string, error) {
	if pattern == "" {
		return lines, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, toolerr.Validationf("invalid grep pattern %q: %v", pattern, err)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if re.MatchString(line) {
			out = append(out, line)
		}
	}

	return out, nil
}
