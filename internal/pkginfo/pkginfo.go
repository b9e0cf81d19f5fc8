package pkginfo

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

const (
	defaultTimeout = 120 * time.Second

	// maxArchiveBytes bounds the downloaded archive size. Info tarballs are
	// tiny; the limit only guards against a payload URL passed by mistake.
	maxArchiveBytes = 512 << 20
)

// Client downloads conda packages and extracts their info/ members.
type Client struct {
	httpc *http.Client
	log   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
	}
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "pkginfo")
	}
}

// NewClient creates a package info client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpc: &http.Client{Timeout: defaultTimeout},
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Info downloads the package at url and returns its info/ members as a map
// of member path to content. A member whose content is not valid UTF-8 is
// mapped to an extraction error note instead, mirroring what clients expect
// from recipe metadata (always text).
func (c *Client) Info(ctx context.Context, url string) (map[string]string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, toolerr.Validationf("url must be a non-empty string")
	}

	switch {
	case strings.HasSuffix(url, ".conda"):
		data, err := c.download(ctx, url)
		if err != nil {
			return nil, err
		}
		return readCondaInfo(data)
	case strings.HasSuffix(url, ".tar.bz2"):
		data, err := c.download(ctx, url)
		if err != nil {
			return nil, err
		}
		return readTarBz2Info(data)
	default:
		return nil, toolerr.Validationf("unsupported package archive %q: expected a .conda or .tar.bz2 URL", url)
	}
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, toolerr.Upstreamf("build package request: %v", err)
	}

	c.log.Debug("Downloading package", "url", url)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, toolerr.Upstreamf("download %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, toolerr.Upstreamf("download %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveBytes))
	if err != nil {
		return nil, toolerr.Upstreamf("read %s: %v", url, err)
	}

	return data, nil
}

// readCondaInfo opens the v2 format: a zip whose info-*.tar.zst member holds
// the metadata tree.
func readCondaInfo(data []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, toolerr.Upstreamf("open .conda archive: %v", err)
	}

	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "info-") || !strings.HasSuffix(f.Name, ".tar.zst") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, toolerr.Upstreamf("open %s: %v", f.Name, err)
		}
		defer rc.Close()

		zd, err := zstd.NewReader(rc)
		if err != nil {
			return nil, toolerr.Upstreamf("decompress %s: %v", f.Name, err)
		}
		defer zd.Close()

		return readInfoTar(tar.NewReader(zd), "")
	}

	return nil, toolerr.Upstreamf(".conda archive has no info-*.tar.zst member")
}

// readTarBz2Info reads the legacy format, keeping only the info/ tree.
func readTarBz2Info(data []byte) (map[string]string, error) {
	return readInfoTar(tar.NewReader(bzip2.NewReader(bytes.NewReader(data))), "info/")
}

func readInfoTar(tr *tar.Reader, prefix string) (map[string]string, error) {
	members := make(map[string]string, 16)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, toolerr.Upstreamf("read info tar: %v", err)
		}

		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := strings.TrimPrefix(hdr.Name, "./")
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			members[name] = fmt.Sprintf("error while extracting: %v", err)
			continue
		}
		if !utf8.Valid(content) {
			members[name] = "error while extracting: content is not valid UTF-8"
			continue
		}

		members[name] = string(content)
	}

	return members, nil
}
