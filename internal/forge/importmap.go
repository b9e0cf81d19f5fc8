package forge

import (
	"context"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Heuristic labels for ImportMapping results.
const (
	// HeuristicIdentity means no candidates are known; the normalized import
	// name is returned as-is.
	HeuristicIdentity = "identity"
	// HeuristicIdentityPresent means candidates exist and the normalized
	// import name is among them and won.
	HeuristicIdentityPresent = "identity_present"
	// HeuristicRanked means the best package was chosen via the ranked hubs
	// authorities ordering.
	HeuristicRanked = "ranked_selection"
	// HeuristicFallback means the chosen package is not in the candidate set
	// (an unexpected edge case, kept for parity with the upstream mapping).
	HeuristicFallback = "fallback"
)

// ImportMapping is the best-guess package for one language import.
type ImportMapping struct {
	QueryImport       string   `json:"query_import"`
	NormalizedImport  string   `json:"normalized_import"`
	BestPackage       string   `json:"best_package"`
	CandidatePackages []string `json:"candidate_packages"`
	Heuristic         string   `json:"heuristic"`
}

// ImportMapping maps a (possibly dotted) import name to the most likely
// conda package: the import is truncated to its top-level module, the
// candidate set is read from the import map shard for its first letter, and
// the ranked hubs authorities list picks the winner.
func (c *Client) ImportMapping(ctx context.Context, importName string) (ImportMapping, error) {
	query := strings.TrimSpace(importName)
	normalized := strings.ToLower(strings.SplitN(query, ".", 2)[0])

	candidates, err := c.importCandidates(ctx, normalized)
	if err != nil {
		return ImportMapping{}, err
	}

	if len(candidates) == 0 {
		return ImportMapping{
			QueryImport:       query,
			NormalizedImport:  normalized,
			BestPackage:       normalized,
			CandidatePackages: []string{},
			Heuristic:         HeuristicIdentity,
		}, nil
	}

	ranking, err := c.ranking(ctx)
	if err != nil {
		return ImportMapping{}, err
	}

	best := rankedBest(candidates, ranking)
	if best == "" {
		best = normalized
	}

	heuristic := HeuristicFallback
	switch {
	case best == normalized && contains(candidates, best):
		heuristic = HeuristicIdentityPresent
	case contains(candidates, best):
		heuristic = HeuristicRanked
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	return ImportMapping{
		QueryImport:       query,
		NormalizedImport:  normalized,
		BestPackage:       best,
		CandidatePackages: sorted,
		Heuristic:         heuristic,
	}, nil
}

// importCandidates reads the shard for the import's first letter. A missing
// shard means no mapping is known, not an error.
func (c *Client) importCandidates(ctx context.Context, normalized string) ([]string, error) {
	if normalized == "" {
		return nil, nil
	}

	shard, err := c.importShard(ctx, normalized[:1])
	if err != nil {
		return nil, err
	}
	if shard == nil {
		return nil, nil
	}

	entries := gjson.GetBytes(shard, escapeKey(normalized)).Array()
	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, e.String())
	}

	return candidates, nil
}

func (c *Client) importShard(ctx context.Context, letter string) ([]byte, error) {
	key := "import_to_pkg_maps/" + letter + ".json"

	c.mu.Lock()
	shard, ok := c.shards[key]
	c.mu.Unlock()
	if ok {
		return shard, nil
	}

	body, err := c.get(ctx, c.mapsBaseURL+"/"+key)
	if err != nil {
		if isNotFound(err) {
			body = nil
		} else {
			return nil, err
		}
	}

	c.mu.Lock()
	c.shards[key] = body
	c.mu.Unlock()

	return body, nil
}

func (c *Client) ranking(ctx context.Context) ([]string, error) {
	const key = "ranked_hubs_authorities.json"

	c.mu.Lock()
	cached, ok := c.shards[key]
	c.mu.Unlock()

	body := cached
	if !ok {
		var err error
		body, err = c.get(ctx, c.mapsBaseURL+"/"+key)
		if err != nil {
			if !isNotFound(err) {
				return nil, err
			}
			body = nil
		}

		c.mu.Lock()
		c.shards[key] = body
		c.mu.Unlock()
	}

	if body == nil {
		return nil, nil
	}

	entries := gjson.ParseBytes(body).Array()
	ranked := make([]string, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, e.String())
	}

	return ranked, nil
}

// rankedBest returns the candidate with the best (lowest) rank, or empty
// when no candidate is ranked. Ties cannot occur since ranks are positions.
func rankedBest(candidates, ranking []string) string {
	rank := make(map[string]int, len(ranking))
	for i, name := range ranking {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	best := ""
	bestRank := len(ranking)
	for _, cand := range candidates {
		if r, ok := rank[cand]; ok && (best == "" || r < bestRank) {
			best = cand
			bestRank = r
		}
	}

	return best
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

// escapeKey escapes gjson path syntax in a literal map key.
func escapeKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}
