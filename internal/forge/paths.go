package forge

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

// PathSearchResult is the raw, unpaginated answer of the path-to-artifacts
// service for one path. A service-reported failure is part of the result
// (and cacheable); transport failures are returned as errors and cached by
// nobody.
type PathSearchResult struct {
	OK        bool
	Artifacts []string
	Err       string
}

// PathSearch asks the conda-forge paths service which artifacts ship the
// given file path.
func (c *Client) PathSearch(ctx context.Context, path string) (PathSearchResult, error) {
	u := c.pathsBaseURL + "/path_to_artifacts/find_artifacts.json?path=" + url.QueryEscape(path)

	c.log.Debug("Searching path", "path", path)

	body, err := c.get(ctx, u)
	if err != nil {
		return PathSearchResult{}, err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.Get("ok").Bool() {
		msg := parsed.Get("error").String()
		if msg == "" {
			msg = "Unknown error"
		}
		return PathSearchResult{OK: false, Artifacts: []string{}, Err: msg}, nil
	}

	rows := parsed.Get("rows").Array()
	artifacts := make([]string, 0, len(rows))
	for _, row := range rows {
		arr := row.Array()
		if len(arr) > 0 {
			artifacts = append(artifacts, arr[0].String())
		}
	}

	return PathSearchResult{OK: true, Artifacts: artifacts}, nil
}
