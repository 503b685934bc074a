// Package models defines domain entities and persistence interfaces for the mlx locker client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing song and playlist data
//   - [Song] : Song metadata from the locker service or from local file tags
//   - [Playlist] : Playlist metadata with ordered song references
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedSong] : Cached remote songs keyed by service and server song ID
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
