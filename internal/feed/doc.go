// Package feed fetches remote JSON documents (template catalogs, GitHub
// contents listings) with a time-bounded cache.
//
// Entries are keyed solely by URL and hold the fetched payload plus an
// absolute refresh time. A lookup past the refresh time re-fetches and
// replaces the entry in place; entries are never evicted otherwise.
// Failed fetches are not memoized, so the next call retries the network.
//
// The cache is an explicit object rather than package state: callers
// inject the [Store], the HTTP client and the clock. [MemoryStore] is
// shared for the lifetime of a process; the cache package provides a
// file-backed store so short-lived CLI invocations share results too.
//
//	c := feed.New(feed.WithTTL(10 * time.Minute))
//	var entries []github.ContentEntry
//	err := c.GetJSON(ctx, "https://api.github.com/repos/o/r/contents/samples", &entries)
package feed
