package repodata

import (
	"context"
	"sort"
	"strings"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// QueryRecord is a package record in a dependency query result. Depth is the
// distance from the query root when a transitive (tree) query was requested;
// direct results carry depth 1.
type QueryRecord struct {
	PackageRecord
	Depth int `json:"depth,omitempty"`
}

// Search returns all records matching spec in the given channel subdirectory,
// deduplicated by (version, build) with .conda entries preferred over their
// .tar.bz2 twins, sorted newest-first (version descending, then build number
// descending).
func (c *Client) Search(ctx context.Context, spec, channel, platform string) ([]PackageRecord, error) {
	m, err := ParseMatchSpec(spec)
	if err != nil {
		return nil, err
	}

	records, err := c.Platform(ctx, channel, platform)
	if err != nil {
		return nil, err
	}

	type dedupKey struct {
		version string
		build   string
	}
	seen := make(map[dedupKey]int, 64)
	matches := make([]PackageRecord, 0, 64)

	for _, r := range records {
		if !m.Matches(r) {
			continue
		}
		key := dedupKey{version: r.Version, build: r.Build}
		if i, ok := seen[key]; ok {
			if strings.HasSuffix(r.Filename, ".conda") {
				matches[i] = r
			}
			continue
		}
		seen[key] = len(matches)
		matches = append(matches, r)
	}

	sortNewestFirst(matches)

	return matches, nil
}

// Depends lists the dependencies of the newest record matching spec. With
// tree set, transitive dependencies are resolved breadth-first, cycle-safe,
// each record annotated with its depth from the root.
func (c *Client) Depends(ctx context.Context, spec, channel, platform string, tree bool) ([]QueryRecord, error) {
	m, err := ParseMatchSpec(spec)
	if err != nil {
		return nil, err
	}

	index, err := c.Platform(ctx, channel, platform)
	if err != nil {
		return nil, err
	}

	var root PackageRecord
	found := false
	for _, r := range index {
		if m.Matches(r) && (!found || newer(r, root)) {
			root = r
			found = true
		}
	}
	if !found {
		return nil, toolerr.NotFoundf("no package matching %q in %s/%s", spec, channel, platform)
	}

	maxDepth := 1
	if tree {
		maxDepth = 0 // unbounded
	}

	return resolveDepends(root, index, maxDepth), nil
}

// Whoneeds lists packages in the channel subdirectory that depend on the
// named package. With tree set, reverse dependencies are followed
// transitively, each record annotated with its depth from the root.
func (c *Client) Whoneeds(ctx context.Context, spec, channel, platform string, tree bool) ([]QueryRecord, error) {
	m, err := ParseMatchSpec(spec)
	if err != nil {
		return nil, err
	}

	index, err := c.Platform(ctx, channel, platform)
	if err != nil {
		return nil, err
	}

	maxDepth := 1
	if tree {
		maxDepth = 0
	}

	return resolveWhoneeds(m.Name, index, maxDepth), nil
}

// resolveDepends walks the dependency specs of root breadth-first, resolving
// each to the newest matching record. maxDepth zero means unbounded.
func resolveDepends(root PackageRecord, index []PackageRecord, maxDepth int) []QueryRecord {
	newest := newestByName(index)

	visited := map[string]bool{strings.ToLower(root.Name): true}
	out := make([]QueryRecord, 0, len(root.Depends))

	type frontier struct {
		record PackageRecord
		depth  int
	}
	queue := []frontier{{record: root, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		for _, depSpec := range cur.record.Depends {
			name := depSpecName(depSpec)
			if name == "" || visited[name] {
				continue
			}
			visited[name] = true

			rec, ok := newest[name]
			if !ok {
				continue
			}
			out = append(out, QueryRecord{PackageRecord: rec, Depth: cur.depth + 1})
			queue = append(queue, frontier{record: rec, depth: cur.depth + 1})
		}
	}

	sortQueryRecords(out)

	return out
}

// resolveWhoneeds finds records whose dependency specs name the target,
// following reverse edges transitively when maxDepth is zero.
func resolveWhoneeds(target string, index []PackageRecord, maxDepth int) []QueryRecord {
	newest := newestByName(index)

	// Reverse adjacency over newest-per-name records only, matching the
	// "one record per dependent package" shape of the upstream query.
	dependents := make(map[string][]string, len(newest))
	for name, rec := range newest {
		for _, depSpec := range rec.Depends {
			dep := depSpecName(depSpec)
			if dep != "" {
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	visited := map[string]bool{strings.ToLower(target): true}
	out := make([]QueryRecord, 0, 32)

	type frontier struct {
		name  string
		depth int
	}
	queue := []frontier{{name: strings.ToLower(target), depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		names := dependents[cur.name]
		sort.Strings(names)
		for _, name := range names {
			if visited[name] {
				continue
			}
			visited[name] = true

			out = append(out, QueryRecord{PackageRecord: newest[name], Depth: cur.depth + 1})
			queue = append(queue, frontier{name: name, depth: cur.depth + 1})
		}
	}

	sortQueryRecords(out)

	return out
}

// newestByName reduces an index to the newest record per package name.
func newestByName(index []PackageRecord) map[string]PackageRecord {
	newest := make(map[string]PackageRecord, len(index))
	for _, r := range index {
		name := strings.ToLower(r.Name)
		cur, ok := newest[name]
		if !ok || newer(r, cur) {
			newest[name] = r
		}
	}
	return newest
}

func newer(a, b PackageRecord) bool {
	if cmp := CompareVersions(a.Version, b.Version); cmp != 0 {
		return cmp > 0
	}
	return a.BuildNumber > b.BuildNumber
}

func sortNewestFirst(records []PackageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return newer(records[i], records[j])
	})
}

func sortQueryRecords(records []QueryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Depth != records[j].Depth {
			return records[i].Depth < records[j].Depth
		}
		return records[i].Name < records[j].Name
	})
}

// depSpecName extracts the package name from a dependency spec string such
// as "libzlib >=1.2.13,<2.0a0" or "python_abi 3.11.* *_cp311".
func depSpecName(depSpec string) string {
	fields := strings.Fields(depSpec)
	if len(fields) == 0 {
		return ""
	}
	name := fields[0]
	if i := strings.IndexAny(name, "=<>!"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}
