// Package cache persists feed payloads between funcwiz invocations.
//
// A CLI process lives for one wizard run, so the in-memory store of
// [feed.Cache] would refetch every template and sample listing on each
// command. [FileStore] implements [feed.Store] on top of a single JSON file
// in ~/.funcwiz:
//
//	{
//	  "entries": {
//	    "https://example.test/templates.json": {
//	      "payload": [ ... ],
//	      "next_refresh": "2026-01-02T03:14:05Z"
//	    }
//	  }
//	}
//
// # Concurrency
//
// Every read-modify-write goes through [LoadWithLock], which holds an
// exclusive flock on feeds.lock next to the data file. Two terminals running
// wizards at the same time never interleave partial writes.
//
// A corrupt or unreadable file is treated as empty; the next fetch rewrites it.
//
// # Related Commands
//
// "funcwiz cache show" lists entries with their refresh times and
// "funcwiz cache clear" removes the file.
package cache
