// Package services defines the [Service] interface for music locker clients and implements it for the manager and mobile scopes.
//
// # Service Interface
//
// Both locker scopes implement a common abstraction, so authentication and
// song listing work uniformly regardless of which scope a command needs.
//
// # Manager Implementation
//
// [ManagerService] holds the upload and download scope. It uses [oauth2] for
// authentication with automatic token refresh and persists its token to disk
// so later runs skip the browser flow.
//
// # Mobile Implementation
//
// [MobileService] holds the listening scope used for playlist operations.
// It authenticates with a username and registered device ID and keeps a
// bearer token in memory for the life of the process.
//
// # Raw API Access
//
// [LockerAPI] makes raw HTTP requests against the locker server. Both scope
// services build on it, and it is exposed directly for debugging commands.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Login() not called
//   - [shared.ErrMissingCredentials] : required credential absent
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : playlist name or ID not found
//   - [shared.ErrUploadRejected] : server refused an uploaded file
//
// # API Mappings
//
// Both services convert locker JSON responses to [models.Song] and
// [models.Playlist] values shared by the rest of the program.
package services
