// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool underneath
// the workshop store.
//
// It wraps zombiezen.com/go/sqlite with the defaults the tracker
// needs: WAL journal mode, NORMAL synchronous for process-crash
// durability without fsync-per-commit overhead, enforced foreign keys,
// and a busy timeout so concurrent writers wait instead of failing.
//
// The pool is built on zombiezen's sqlitex.Pool, which manages a
// fixed-size set of connections. Callers [Pool.Take] a connection,
// perform work, and [Pool.Put] it back. Connections are NOT safe for
// concurrent use — each goroutine must hold its own connection for the
// duration of its work.
//
// # Pragmas
//
// Every connection in the pool is initialized with these pragmas:
//
//   - journal_mode=WAL: concurrent readers and a single writer. Reads
//     never block writes; writes never block reads.
//   - synchronous=NORMAL: transactions survive process crashes.
//   - busy_timeout=5000: wait up to 5 seconds for a write lock instead
//     of returning SQLITE_BUSY immediately.
//   - foreign_keys=ON: items reference stages, links reference items
//     and materials, photos reference items. The store leans on SQLite
//     to reject rows that would dangle.
//   - temp_store=MEMORY: temporary tables and indexes in memory.
//
// # Design
//
// This package is intentionally thin: it applies standard pragmas and
// exposes the underlying zombiezen types directly. The store writes
// SQL, uses sqlitex.Execute for cached statements, and manages
// transactions with sqlitex.ImmediateTransaction. There is no query
// builder and no ORM — an abstraction layer over SQLite fights its
// strengths.
package sqlitepool
