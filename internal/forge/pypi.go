package forge

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
)

// PypiMapping is the conda name resolved for one PyPI distribution name.
type PypiMapping struct {
	PypiName  string `json:"pypi_name"`
	CondaName string `json:"conda_name"`
	Changed   bool   `json:"changed"`
}

// PypiToConda maps a (case-sensitive) PyPI distribution name to its conda
// package name using the grayskull mapping file, falling back to the
// lowercase PyPI name when no entry exists. Changed reports whether the
// resolved name differs from that simple lowercase fallback.
func (c *Client) PypiToConda(ctx context.Context, pypiName string) (PypiMapping, error) {
	original := strings.TrimSpace(pypiName)

	mapping, err := c.pypiMapping(ctx)
	if err != nil {
		return PypiMapping{}, err
	}

	lower := strings.ToLower(original)
	condaName := lower
	if mapping != nil {
		if entry := gjson.GetBytes(mapping, escapeKey(lower)+".conda_name"); entry.Exists() {
			condaName = entry.String()
		}
	}

	return PypiMapping{
		PypiName:  original,
		CondaName: condaName,
		Changed:   condaName != lower,
	}, nil
}

func (c *Client) pypiMapping(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	cached := c.pypiMap
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	body, err := c.get(ctx, c.pypiMapURL)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.pypiMap = body
	c.mu.Unlock()

	return body, nil
}
