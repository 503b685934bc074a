// Package tasks implements sync operations between the local library and the music locker.
//
// The core abstraction is [SyncEngine], which orchestrates uploads, downloads,
// and library comparisons. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
//
// # Concurrency
//
// Up and Down run a bounded worker pool over the song list, throttled by a
// shared rate limiter so bulk transfers respect the locker's API limits.
// Progress sends never block: updates are dropped when the receiver lags.
//
// # History
//
// When a [RunRecorder] is attached, every Up and Down run persists a sync
// run record with its final per-song outcome counts.
package tasks
