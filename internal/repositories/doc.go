// Package repositories implements SQLite persistence for the locker client's local state.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SongRepository] : Remote song caching with service-specific lookups
//   - [SyncRunRepository] : Upload/download run history with status tracking
//   - [SongCacheAdapter] : Dedup-on-write caching used by song listings
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
