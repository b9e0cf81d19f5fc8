package forge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

func TestPathSearch(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/path_to_artifacts/find_artifacts.json", r.URL.Path)

		switch r.URL.Query().Get("path") {
		case "bin/python":
			_, _ = w.Write([]byte(`{"ok": true, "rows": [["python-3.12.0-h123_0"], ["python-3.11.0-h456_0"]]}`))
		case "too/broad":
			_, _ = w.Write([]byte(`{"ok": false, "error": "too many results"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithPathsBaseURL(srv.URL))

	t.Run("returns artifact names", func(t *testing.T) {
		res, err := c.PathSearch(ctx, "bin/python")
		require.NoError(t, err)
		require.True(t, res.OK)
		require.Equal(t, []string{"python-3.12.0-h123_0", "python-3.11.0-h456_0"}, res.Artifacts)
	})

	t.Run("service-level failure is part of the result", func(t *testing.T) {
		res, err := c.PathSearch(ctx, "too/broad")
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Equal(t, "too many results", res.Err)
		require.Empty(t, res.Artifacts)
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		_, err := c.PathSearch(ctx, "anything/else")
		require.Error(t, err)
		require.Equal(t, toolerr.KindUpstream, toolerr.KindOf(err))
	})
}

func newMapsServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}

		switch r.URL.Path {
		case "/import_to_pkg_maps/s.json":
			_, _ = w.Write([]byte(`{"sklearn": ["scikit-learn", "scikit-learn-intelex"]}`))
		case "/import_to_pkg_maps/z.json":
			_, _ = w.Write([]byte(`{"zlib": ["zlib"]}`))
		case "/ranked_hubs_authorities.json":
			_, _ = w.Write([]byte(`["scikit-learn", "zlib", "scikit-learn-intelex"]`))
		case "/pypi_mapping.json":
			_, _ = w.Write([]byte(`{"scikit-learn": {"conda_name": "scikit-learn"}, "pyyaml": {"conda_name": "yaml"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestImportMapping(t *testing.T) {
	ctx := context.Background()
	srv := newMapsServer(t, nil)
	c := NewClient(WithMapsBaseURL(srv.URL))

	t.Run("ranked selection among candidates", func(t *testing.T) {
		m, err := c.ImportMapping(ctx, "sklearn.linear_model")
		require.NoError(t, err)
		require.Equal(t, "sklearn.linear_model", m.QueryImport)
		require.Equal(t, "sklearn", m.NormalizedImport)
		require.Equal(t, "scikit-learn", m.BestPackage)
		require.Equal(t, []string{"scikit-learn", "scikit-learn-intelex"}, m.CandidatePackages)
		require.Equal(t, HeuristicRanked, m.Heuristic)
	})

	t.Run("identity when the import is its own best candidate", func(t *testing.T) {
		m, err := c.ImportMapping(ctx, "zlib")
		require.NoError(t, err)
		require.Equal(t, "zlib", m.BestPackage)
		require.Equal(t, HeuristicIdentityPresent, m.Heuristic)
	})

	t.Run("identity fallback when no candidates exist", func(t *testing.T) {
		m, err := c.ImportMapping(ctx, "Zydeco")
		require.NoError(t, err)
		require.Equal(t, "zydeco", m.NormalizedImport)
		require.Equal(t, "zydeco", m.BestPackage)
		require.Empty(t, m.CandidatePackages)
		require.Equal(t, HeuristicIdentity, m.Heuristic)
	})

	t.Run("missing shard means no mapping, not an error", func(t *testing.T) {
		m, err := c.ImportMapping(ctx, "qtpy")
		require.NoError(t, err)
		require.Equal(t, HeuristicIdentity, m.Heuristic)
	})
}

func TestPypiToConda(t *testing.T) {
	ctx := context.Background()
	srv := newMapsServer(t, nil)
	c := NewClient(WithPypiMapURL(srv.URL + "/pypi_mapping.json"))

	t.Run("mapped name", func(t *testing.T) {
		m, err := c.PypiToConda(ctx, "PyYAML")
		require.NoError(t, err)
		require.Equal(t, "PyYAML", m.PypiName)
		require.Equal(t, "yaml", m.CondaName)
		require.True(t, m.Changed)
	})

	t.Run("identity mapping reports unchanged", func(t *testing.T) {
		m, err := c.PypiToConda(ctx, "scikit-learn")
		require.NoError(t, err)
		require.Equal(t, "scikit-learn", m.CondaName)
		require.False(t, m.Changed)
	})

	t.Run("unmapped name falls back to lowercase", func(t *testing.T) {
		m, err := c.PypiToConda(ctx, "Requests")
		require.NoError(t, err)
		require.Equal(t, "requests", m.CondaName)
		require.False(t, m.Changed)
	})
}

func TestClearCaches(t *testing.T) {
	ctx := context.Background()

	var hits atomic.Int64
	srv := newMapsServer(t, &hits)
	c := NewClient(
		WithMapsBaseURL(srv.URL),
		WithPypiMapURL(srv.URL+"/pypi_mapping.json"),
	)

	_, err := c.ImportMapping(ctx, "zlib")
	require.NoError(t, err)
	after := hits.Load()

	// Shards are held; a repeat query fetches nothing.
	_, err = c.ImportMapping(ctx, "zlib")
	require.NoError(t, err)
	require.Equal(t, after, hits.Load())

	c.ClearCaches()

	_, err = c.ImportMapping(ctx, "zlib")
	require.NoError(t, err)
	require.Greater(t, hits.Load(), after)
}
