package memo

import (
	"encoding/json"
	"strings"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// ParseFields splits a comma-separated field list into a normalized set,
// preserving first-seen order. Empty input means "all fields".
func ParseFields(fields string) []string {
	if strings.TrimSpace(fields) == "" {
		return nil
	}

	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, f := range strings.Split(fields, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}

	return out
}

// Project filters record down to the requested field names. The result keys
// are the intersection of requested and present fields; a nil or empty
// request returns the record unchanged. Projection is a pure filter and is
// never cached.
func Project(record map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return record
	}

	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := record[f]; ok {
			out[f] = v
		}
	}

	return out
}

// ProjectAll applies Project to each record of an already-sliced page.
func ProjectAll(records []map[string]any, fields []string) []map[string]any {
	if len(fields) == 0 {
		return records
	}

	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = Project(r, fields)
	}

	return out
}

// AsRecords converts a slice of typed records into generic field maps via
// their JSON form, so projection can operate on the same names the client
// sees on the wire.
func AsRecords[T any](items []T) ([]map[string]any, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, toolerr.Upstreamf("encode records: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, toolerr.Upstreamf("decode records: %v", err)
	}

	return out, nil
}
