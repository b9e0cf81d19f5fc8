// Package repodata queries conda channel repodata.
//
// A Client fetches and parses the repodata.json index of one channel
// subdirectory and answers the three query shapes the server exposes:
// match-spec search, forward dependency listing (depends), and reverse
// dependency listing (whoneeds). The channel index is treated as an opaque
// remote collaborator; the client holds no cache of its own, callers memoize
// full query results per normalized key.
package repodata
