// Package history keeps an append-only SQLite log of committed schema
// snapshots together with the size of the diff each one introduced.
//
// The store uses the pure-Go modernc.org/sqlite driver, so no cgo toolchain
// is needed. The most recent entry can stand in as the diff baseline when
// the snapshot file in the output directory is missing.
package history
