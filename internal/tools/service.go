package tools

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/condameta/conda-meta-mcp/internal/clihelp"
	"github.com/condameta/conda-meta-mcp/internal/forge"
	"github.com/condameta/conda-meta-mcp/internal/memo"
	"github.com/condameta/conda-meta-mcp/internal/pkginfo"
	"github.com/condameta/conda-meta-mcp/internal/repodata"
)

// Per-tool cache bounds. Each cache holds full, unpaginated results; the
// bounds match the cardinality of realistic query key spaces per tool.
const (
	searchCacheSize   = 1000
	queryCacheSize    = 64
	insightsCacheSize = 1000
	pathCacheSize     = 1024
	importCacheSize   = 1024
	pypiCacheSize     = 4096
	helpCacheSize     = 4
)

// Service owns the upstream clients, the per-tool caches, and the clearer
// registry. One Service backs one MCP server instance.
type Service struct {
	log      *slog.Logger
	version  string
	clearers *memo.ClearerRegistry

	repo  *repodata.Client
	pkgs  *pkginfo.Client
	forge *forge.Client
	help  *clihelp.Collector

	searchCache *memo.Cache[[]repodata.PackageRecord]
	queryCache  *memo.Cache[[]repodata.QueryRecord]
	infoCache   *memo.Cache[map[string]string]
	pathCache   *memo.Cache[forge.PathSearchResult]
	importCache *memo.Cache[forge.ImportMapping]
	pypiCache   *memo.Cache[forge.PypiMapping]
	helpCache   *memo.Cache[string]

	infoOnce sync.Once
	infoData map[string]string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log.With("component", "tools")
	}
}

// WithVersion sets the server version reported by the info tool.
func WithVersion(v string) ServiceOption {
	return func(s *Service) {
		s.version = v
	}
}

// WithClearerRegistry substitutes the clearer registry.
func WithClearerRegistry(r *memo.ClearerRegistry) ServiceOption {
	return func(s *Service) {
		s.clearers = r
	}
}

// WithRepodata substitutes the repodata client.
func WithRepodata(c *repodata.Client) ServiceOption {
	return func(s *Service) {
		s.repo = c
	}
}

// WithPackages substitutes the package info client.
func WithPackages(c *pkginfo.Client) ServiceOption {
	return func(s *Service) {
		s.pkgs = c
	}
}

// WithForge substitutes the conda-forge metadata client.
func WithForge(c *forge.Client) ServiceOption {
	return func(s *Service) {
		s.forge = c
	}
}

// WithHelp substitutes the CLI help collector.
func WithHelp(c *clihelp.Collector) ServiceOption {
	return func(s *Service) {
		s.help = c
	}
}

// NewService builds the tool service: default clients, per-tool caches, and
// a populated clearer registry. Clearers are registered once here; the
// registry is never mutated afterwards.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		version:  "dev",
		clearers: memo.NewClearerRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		repoOpts := []repodata.Option{repodata.WithLogger(s.log)}
		if base := os.Getenv("CONDA_META_MCP_CHANNEL_BASE"); base != "" {
			repoOpts = append(repoOpts, repodata.WithBaseURL(base))
		}
		s.repo = repodata.NewClient(repoOpts...)
	}
	if s.pkgs == nil {
		s.pkgs = pkginfo.NewClient(pkginfo.WithLogger(s.log))
	}
	if s.forge == nil {
		forgeOpts := []forge.Option{forge.WithLogger(s.log)}
		if base := os.Getenv("CONDA_META_MCP_PATHS_BASE"); base != "" {
			forgeOpts = append(forgeOpts, forge.WithPathsBaseURL(base))
		}
		if base := os.Getenv("CONDA_META_MCP_MAPS_BASE"); base != "" {
			forgeOpts = append(forgeOpts, forge.WithMapsBaseURL(base))
		}
		if u := os.Getenv("CONDA_META_MCP_PYPI_MAP_URL"); u != "" {
			forgeOpts = append(forgeOpts, forge.WithPypiMapURL(u))
		}
		s.forge = forge.NewClient(forgeOpts...)
	}
	if s.help == nil {
		s.help = clihelp.NewCollector(clihelp.WithLogger(s.log))
	}

	s.searchCache = memo.NewCache[[]repodata.PackageRecord]("package_search", searchCacheSize)
	s.queryCache = memo.NewCache[[]repodata.QueryRecord]("repoquery", queryCacheSize)
	s.infoCache = memo.NewCache[map[string]string]("package_insights", insightsCacheSize)
	s.pathCache = memo.NewCache[forge.PathSearchResult]("file_path_search", pathCacheSize)
	s.importCache = memo.NewCache[forge.ImportMapping]("import_mapping", importCacheSize)
	s.pypiCache = memo.NewCache[forge.PypiMapping]("pypi_to_conda", pypiCacheSize)
	s.helpCache = memo.NewCache[string]("cli_help", helpCacheSize)

	s.clearers.Register(s.searchCache.Clearer())
	s.clearers.Register(s.queryCache.Clearer())
	s.clearers.Register(s.infoCache.Clearer())
	s.clearers.Register(s.pathCache.Clearer())
	s.clearers.Register(s.importCache.Clearer())
	s.clearers.Register(s.pypiCache.Clearer())
	s.clearers.Register(s.helpCache.Clearer())
	// The forge client holds mapping-file caches of its own; treat them the
	// same way as tool-level caches.
	s.clearers.Register(s.forge.ClearCaches)

	return s
}

// Clearers exposes the registry for the maintenance tool and tests.
func (s *Service) Clearers() *memo.ClearerRegistry {
	return s.clearers
}
