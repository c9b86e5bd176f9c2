// Package kv provides the persisted key-value store the collection engine
// reads and writes through.
//
// The store is a passive serialization target: one JSON blob per key, read
// once when a user is loaded and rewritten after every change.
//
// # Implementations
//
//   - SQLite: durable, file-backed (mattn/go-sqlite3, WAL mode)
//   - Memory: process-local map for tests and the scenario harness
//   - Unavailable: every call fails; models storage being disabled
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package kv
