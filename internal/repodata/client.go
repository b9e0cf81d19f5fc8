package repodata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// DefaultBaseURL is the anaconda.org channel CDN.
const DefaultBaseURL = "https://conda.anaconda.org"

const defaultTimeout = 60 * time.Second

// PackageRecord is one package entry from channel repodata.
type PackageRecord struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	BuildNumber int      `json:"build_number"`
	Build       string   `json:"build"`
	Subdir      string   `json:"subdir"`
	Filename    string   `json:"fn"`
	URL         string   `json:"url"`
	Depends     []string `json:"depends"`
}

// Client fetches repodata for channel subdirectories.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the channel CDN base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
	}
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "repodata")
	}
}

// NewClient creates a repodata client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Platform fetches and parses the repodata index for one channel
// subdirectory. Records from the .conda package map shadow same-filename
// .tar.bz2 entries later during deduplication; both are returned here.
func (c *Client) Platform(ctx context.Context, channel, platform string) ([]PackageRecord, error) {
	url := fmt.Sprintf("%s/%s/%s/repodata.json", c.baseURL, channel, platform)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, toolerr.Upstreamf("build repodata request: %v", err)
	}

	c.log.Debug("Fetching repodata", "channel", channel, "platform", platform)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, toolerr.Upstreamf("fetch repodata for %s/%s: %v", channel, platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, toolerr.Upstreamf("fetch repodata for %s/%s: HTTP %d", channel, platform, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, toolerr.Upstreamf("read repodata for %s/%s: %v", channel, platform, err)
	}

	base := fmt.Sprintf("%s/%s/%s", c.baseURL, channel, platform)
	records := make([]PackageRecord, 0, 1024)
	for _, section := range []string{"packages", "packages.conda"} {
		gjson.GetBytes(body, section).ForEach(func(key, value gjson.Result) bool {
			records = append(records, parseRecord(key.String(), value, platform, base))
			return true
		})
	}

	c.log.Debug("Parsed repodata", "channel", channel, "platform", platform, "records", len(records))

	return records, nil
}

func parseRecord(filename string, value gjson.Result, platform, base string) PackageRecord {
	depends := value.Get("depends").Array()
	deps := make([]string, 0, len(depends))
	for _, d := range depends {
		deps = append(deps, d.String())
	}

	subdir := value.Get("subdir").String()
	if subdir == "" {
		subdir = platform
	}

	return PackageRecord{
		Name:        value.Get("name").String(),
		Version:     value.Get("version").String(),
		BuildNumber: int(value.Get("build_number").Int()),
		Build:       value.Get("build").String(),
		Subdir:      subdir,
		Filename:    filename,
		URL:         base + "/" + filename,
		Depends:     deps,
	}
}
