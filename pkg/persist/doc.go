// Package persist mirrors form values into a durable key-value store so
// partially completed forms survive reloads. Persistence is best effort: the
// Bridge never returns store or codec failures to its caller, it logs them
// and carries on, and unreadable snapshots load as an empty form.
//
// Store backends provided here: MemoryStore, FileStore, BoltStore (bbolt)
// and SQLiteStore (mattn/go-sqlite3). Snapshots are encoded with a Codec,
// JSON by default.
package persist
