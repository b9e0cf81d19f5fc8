package pkginfo

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// buildCondaArchive assembles a minimal v2 package: a zip holding an
// info-*.tar.zst with the given members.
func buildCondaArchive(t *testing.T, members map[string][]byte) []byte {
	t.Helper()

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	for name, content := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	var zstBuf bytes.Buffer
	zw, err := zstd.NewWriter(&zstBuf)
	require.NoError(t, err)
	_, err = zw.Write(tarBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var zipBuf bytes.Buffer
	zipw := zip.NewWriter(&zipBuf)
	f, err := zipw.Create("info-test-1.0-0.tar.zst")
	require.NoError(t, err)
	_, err = f.Write(zstBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, zipw.Close())

	return zipBuf.Bytes()
}

func TestInfo(t *testing.T) {
	ctx := context.Background()

	archive := buildCondaArchive(t, map[string][]byte{
		"info/about.json":      []byte(`{"license": "MIT"}`),
		"info/recipe/meta.yaml": []byte("package:\n  name: test\n"),
		"info/binary.bin":      {0xff, 0xfe, 0x00},
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pkgs/test-1.0-0.conda" {
			_, _ = w.Write(archive)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient()

	t.Run("extracts info members from a .conda archive", func(t *testing.T) {
		members, err := c.Info(ctx, srv.URL+"/pkgs/test-1.0-0.conda")
		require.NoError(t, err)
		require.Len(t, members, 3)
		require.Equal(t, `{"license": "MIT"}`, members["info/about.json"])
		require.Equal(t, "package:\n  name: test\n", members["info/recipe/meta.yaml"])
	})

	t.Run("non UTF-8 content is replaced with an extraction note", func(t *testing.T) {
		members, err := c.Info(ctx, srv.URL+"/pkgs/test-1.0-0.conda")
		require.NoError(t, err)
		require.Equal(t, "error while extracting: content is not valid UTF-8", members["info/binary.bin"])
	})

	t.Run("empty url is a validation error", func(t *testing.T) {
		_, err := c.Info(ctx, "  ")
		require.Error(t, err)
		require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))
	})

	t.Run("unsupported archive suffix is a validation error", func(t *testing.T) {
		_, err := c.Info(ctx, srv.URL+"/pkgs/test-1.0-0.zip")
		require.Error(t, err)
		require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))
	})

	t.Run("missing package is an upstream error", func(t *testing.T) {
		_, err := c.Info(ctx, srv.URL+"/pkgs/absent-1.0-0.conda")
		require.Error(t, err)
		require.Equal(t, toolerr.KindUpstream, toolerr.KindOf(err))
	})
}

func TestReadInfoTar(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	entries := map[string]string{
		"./info/index.json": `{"name": "test"}`,
		"lib/libtest.so":    "not metadata",
	}
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	t.Run("info prefix filters payload members and strips leading ./", func(t *testing.T) {
		members, err := readInfoTar(tar.NewReader(bytes.NewReader(buf.Bytes())), "info/")
		require.NoError(t, err)
		require.Len(t, members, 1)
		require.Equal(t, `{"name": "test"}`, members["info/index.json"])
	})

	t.Run("empty prefix keeps everything", func(t *testing.T) {
		members, err := readInfoTar(tar.NewReader(bytes.NewReader(buf.Bytes())), "")
		require.NoError(t, err)
		require.Len(t, members, 2)
	})
}
