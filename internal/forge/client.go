package forge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// Default endpoints, matching the services the upstream tooling queries.
const (
	DefaultPathsBaseURL = "https://cforge.quansight.dev"
	DefaultMapsBaseURL  = "https://raw.githubusercontent.com/regro/libcfgraph/master"
	DefaultPypiMapURL   = "https://raw.githubusercontent.com/regro/cf-graph-countyfair/master/mappings/pypi/grayskull_pypi_mapping.json"
)

const defaultTimeout = 30 * time.Second

// Client queries conda-forge metadata services.
type Client struct {
	pathsBaseURL string
	mapsBaseURL  string
	pypiMapURL   string
	httpc        *http.Client
	log          *slog.Logger

	// Fetched mapping files are immutable upstream snapshots; they are held
	// until the maintenance registry asks for them to be released.
	mu      sync.Mutex
	shards  map[string][]byte
	pypiMap []byte
}

// Option configures a Client.
type Option func(*Client)

// WithPathsBaseURL overrides the path-to-artifacts service base URL.
func WithPathsBaseURL(u string) Option {
	return func(c *Client) {
		c.pathsBaseURL = strings.TrimRight(u, "/")
	}
}

// WithMapsBaseURL overrides the import map base URL.
func WithMapsBaseURL(u string) Option {
	return func(c *Client) {
		c.mapsBaseURL = strings.TrimRight(u, "/")
	}
}

// WithPypiMapURL overrides the PyPI mapping file URL.
func WithPypiMapURL(u string) Option {
	return func(c *Client) {
		c.pypiMapURL = u
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
		c.log = log.With("component", "forge")
	}
}

// NewClient creates a conda-forge metadata client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		pathsBaseURL: DefaultPathsBaseURL,
		mapsBaseURL:  DefaultMapsBaseURL,
		pypiMapURL:   DefaultPypiMapURL,
		httpc:        &http.Client{Timeout: defaultTimeout},
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		shards:       make(map[string][]byte, 8),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearCaches drops all fetched mapping files. Registered with the
// maintenance registry alongside the tool-level caches.
func (c *Client) ClearCaches() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shards = make(map[string][]byte, 8)
	c.pypiMap = nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, toolerr.Upstreamf("build request for %s: %v", url, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, toolerr.Upstreamf("fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, toolerr.NotFoundf("%s: HTTP 404", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, toolerr.Upstreamf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, toolerr.Upstreamf("read %s: %v", url, err)
	}

	return body, nil
}

func isNotFound(err error) bool {
	return toolerr.KindOf(err) == toolerr.KindNotFound
}
