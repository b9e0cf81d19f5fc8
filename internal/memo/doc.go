// Package memo implements the per-tool caching core: a bounded LRU memo
// cache keyed by normalized argument strings, a process-wide best-effort
// cache-clearer registry, and the pagination / field-projection helpers that
// every tool applies to its cached full result.
//
// Invariant: a cache only ever stores the full, unpaginated, unprojected
// answer for a key. Slicing and projection are applied fresh on every call,
// so a single entry serves all pagination and projection variants of the
// same underlying query. Failed lookups are never cached.
package memo
