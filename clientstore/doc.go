// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package clientstore provides the per-device key-value storage behind a
participant session.

	store, err := clientstore.Open(ctx, "promptbattle-client.db")
	if err != nil {
		// fall back to clientstore.NewMemoryStore()
	}
	defer store.Close()
	session := contest.OpenSession(ctx, store, logger)

SQLiteStore keeps one row per key in a local SQLite file (modernc.org/sqlite,
no cgo), so the lock and cached results survive restarts. MemoryStore is
used when no file can be opened and in tests.

Storage failures are returned wrapped in ErrUnavailable; the session logs
them and carries on with in-memory state.
*/
package clientstore
