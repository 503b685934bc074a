// package services defines interface Service for interacting with the music locker HTTP API
//
// Manager (upload/download scope), Mobile (listening scope)
package services

import (
	"context"

	"github.com/mlocker/mlx/internal/models"
)

// Service defines the interface for music locker scopes that can
// authenticate and list the songs in the user's library.
type Service interface {
	// Login authenticates with the locker using the given credentials.
	// Returns an error if authentication fails.
	Login(ctx context.Context, credentials map[string]string) error

	// Logout discards the service's session and any persisted token.
	Logout(ctx context.Context) error

	// IsAuthenticated reports whether the service holds a usable session.
	IsAuthenticated() bool

	// Songs retrieves all songs in the authenticated user's library.
	Songs(ctx context.Context) ([]models.Song, error)

	// Name returns the name of the scope (e.g., "Manager", "Mobile")
	Name() string
}

// Uploader extends Service with the upload and download operations of the
// manager scope.
type Uploader interface {
	Service

	// LibrarySongs retrieves library songs, selecting uploaded and/or
	// purchased songs. At least one selector must be true.
	LibrarySongs(ctx context.Context, uploaded, purchased bool) ([]models.Song, error)

	// Upload sends one audio file to the locker and reports the outcome.
	Upload(ctx context.Context, path string, opts UploadOptions) (*UploadResult, error)

	// Download fetches a song's audio by ID, returning the server-suggested
	// filename alongside the bytes.
	Download(ctx context.Context, songID string) (string, []byte, error)
}

// PlaylistReader extends Service with the playlist operations of the mobile
// scope.
type PlaylistReader interface {
	Service

	// Playlists retrieves all playlists for the authenticated user.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// Playlist retrieves a playlist by name or ID, returning the first match.
	Playlist(ctx context.Context, nameOrID string) (*models.Playlist, error)

	// PlaylistSongs retrieves the songs of a playlist by name or ID.
	PlaylistSongs(ctx context.Context, nameOrID string) ([]models.Song, error)
}

// UploadStatus classifies the outcome of an upload attempt.
type UploadStatus string

const (
	// StatusUploaded means the server accepted and stored the file.
	StatusUploaded UploadStatus = "uploaded"
	// StatusMatched means the server matched the file against its catalog
	// instead of storing the bytes.
	StatusMatched UploadStatus = "matched"
	// StatusAlreadyExists means the library already holds this song.
	StatusAlreadyExists UploadStatus = "already_exists"
	// StatusNotUploaded means the server rejected the file.
	StatusNotUploaded UploadStatus = "not_uploaded"
	// StatusFailed means the attempt errored before the server decided.
	StatusFailed UploadStatus = "failed"
)

// UploadOptions control how the manager scope uploads a file.
type UploadOptions struct {
	// EnableMatching lets the server match the file against its catalog
	// instead of storing the audio.
	EnableMatching bool

	// TranscodeQuality is the bitrate hint for server-side transcoding,
	// e.g. "320k".
	TranscodeQuality string
}

// UploadResult reports the outcome of uploading one file.
type UploadResult struct {
	Path   string       `json:"path"`
	Status UploadStatus `json:"status"`

	// SongID identifies the stored or matched song. For already-present
	// songs it is recovered from the server's rejection reason.
	SongID string `json:"song_id,omitempty"`

	// Reason carries the server's explanation for rejected uploads.
	Reason string `json:"reason,omitempty"`
}

// Success reports whether the song is in the library after the attempt,
// counting songs the server already held.
func (r *UploadResult) Success() bool {
	switch r.Status {
	case StatusUploaded, StatusMatched, StatusAlreadyExists:
		return true
	default:
		return false
	}
}
