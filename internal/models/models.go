package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the locker client.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Song represents a song record from either the locker service or a local file's tags.
//
// Remote songs carry a server-assigned ID and no Path; local songs carry a
// filesystem Path and no ID. Tag fields that can hold multiple values keep
// only the first value.
type Song struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	AlbumArtist string `json:"album_artist,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Date        string `json:"date,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	DiscNumber  int    `json:"disc_number,omitempty"`
	Path        string `json:"path,omitempty"`
}

// Remote reports whether the song originates from the locker service.
func (s Song) Remote() bool { return s.ID != "" }

// Field returns the value of a named metadata field.
//
// Recognized names are the filterable fields: "title", "artist", "album",
// and "albumartist" (also accepted as "album_artist"). The second return
// value is false for unrecognized names.
func (s Song) Field(name string) (string, bool) {
	switch name {
	case "title":
		return s.Title, true
	case "artist":
		return s.Artist, true
	case "album":
		return s.Album, true
	case "albumartist", "album_artist":
		return s.AlbumArtist, true
	default:
		return "", false
	}
}

// Playlist represents a named ordered collection of song references.
//
// Remote playlists reference songs by server ID via Entries. Local playlists
// are M3U files; Path holds the playlist filepath.
type Playlist struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Public      bool            `json:"public,omitempty"`
	Entries     []PlaylistEntry `json:"entries,omitempty"`
	Path        string          `json:"path,omitempty"`
}

// PlaylistEntry is a single song reference within a playlist.
type PlaylistEntry struct {
	SongID string `json:"song_id"`
}

// PersistedSong is a database-backed cache record for a remote song.
//
// Songs are deduplicated by (service, service_id). Soft deletes are handled
// via deletedAt; deleted records are excluded from repository queries.
type PersistedSong struct {
	id        string
	sequence  int
	service   string
	serviceID string
	song      Song
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedSong creates a PersistedSong for the given service and server song ID.
func NewPersistedSong(sequence int, service, serviceID string, song Song) *PersistedSong {
	now := time.Now()
	return &PersistedSong{
		sequence:  sequence,
		service:   service,
		serviceID: serviceID,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

// RestorePersistedSong reconstructs a PersistedSong from database columns.
func RestorePersistedSong(id string, sequence int, service, serviceID string, song Song, createdAt, updatedAt time.Time, deletedAt *time.Time) *PersistedSong {
	return &PersistedSong{
		id:        id,
		sequence:  sequence,
		service:   service,
		serviceID: serviceID,
		song:      song,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (p *PersistedSong) ID() string            { return p.id }
func (p *PersistedSong) SetID(id string)       { p.id = id }
func (p *PersistedSong) Sequence() int         { return p.sequence }
func (p *PersistedSong) Service() string       { return p.service }
func (p *PersistedSong) ServiceID() string     { return p.serviceID }
func (p *PersistedSong) Song() Song            { return p.song }
func (p *PersistedSong) CreatedAt() time.Time  { return p.createdAt }
func (p *PersistedSong) UpdatedAt() time.Time  { return p.updatedAt }
func (p *PersistedSong) DeletedAt() *time.Time { return p.deletedAt }

func (p *PersistedSong) SetSong(song Song)            { p.song = song }
func (p *PersistedSong) SetUpdatedAt(t time.Time)     { p.updatedAt = t }
func (p *PersistedSong) SetDeletedAt(t *time.Time)    { p.deletedAt = t }
func (p *PersistedSong) SetSequence(sequence int)     { p.sequence = sequence }
func (p *PersistedSong) SetServiceID(serviceID string) { p.serviceID = serviceID }

// Validate checks that required cache fields are present.
func (p *PersistedSong) Validate() error {
	if p.id == "" {
		return fmt.Errorf("persisted song missing id")
	}
	if p.service == "" {
		return fmt.Errorf("persisted song missing service")
	}
	if p.serviceID == "" {
		return fmt.Errorf("persisted song missing service id")
	}
	if p.song.Title == "" && p.song.Artist == "" && p.song.Album == "" {
		return fmt.Errorf("persisted song missing metadata")
	}
	return nil
}

// SyncStatus tracks the lifecycle of a sync run.
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncRun records one upload or download run against the locker.
//
// Runs persist their per-song outcome counts so the history survives
// restarts and the cache commands can report past activity.
type SyncRun struct {
	id        string
	sequence  int
	direction string
	status    SyncStatus
	uploaded  int
	matched   int
	existing  int
	failed    int
	total     int
	errorMsg  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSyncRun creates a running SyncRun for the given direction ("up" or
// "down") over total songs.
func NewSyncRun(sequence int, direction string, total int) *SyncRun {
	now := time.Now()
	return &SyncRun{
		sequence:  sequence,
		direction: direction,
		status:    SyncStatusRunning,
		total:     total,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreSyncRun reconstructs a SyncRun from database columns.
func RestoreSyncRun(id string, sequence int, direction string, status SyncStatus, uploaded, matched, existing, failed, total int, errorMsg string, createdAt, updatedAt time.Time, deletedAt *time.Time) *SyncRun {
	return &SyncRun{
		id:        id,
		sequence:  sequence,
		direction: direction,
		status:    status,
		uploaded:  uploaded,
		matched:   matched,
		existing:  existing,
		failed:    failed,
		total:     total,
		errorMsg:  errorMsg,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (s *SyncRun) ID() string            { return s.id }
func (s *SyncRun) SetID(id string)       { s.id = id }
func (s *SyncRun) Sequence() int         { return s.sequence }
func (s *SyncRun) Direction() string     { return s.direction }
func (s *SyncRun) Status() SyncStatus    { return s.status }
func (s *SyncRun) Uploaded() int         { return s.uploaded }
func (s *SyncRun) Matched() int          { return s.matched }
func (s *SyncRun) Existing() int         { return s.existing }
func (s *SyncRun) Failed() int           { return s.failed }
func (s *SyncRun) Total() int            { return s.total }
func (s *SyncRun) ErrorMsg() string      { return s.errorMsg }
func (s *SyncRun) CreatedAt() time.Time  { return s.createdAt }
func (s *SyncRun) UpdatedAt() time.Time  { return s.updatedAt }
func (s *SyncRun) DeletedAt() *time.Time { return s.deletedAt }

func (s *SyncRun) SetSequence(sequence int)  { s.sequence = sequence }
func (s *SyncRun) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *SyncRun) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Complete marks the run finished with its final counts.
func (s *SyncRun) Complete(uploaded, matched, existing, failed int) {
	s.status = SyncStatusCompleted
	s.uploaded = uploaded
	s.matched = matched
	s.existing = existing
	s.failed = failed
	s.updatedAt = time.Now()
}

// Fail marks the run failed with the terminal error message.
func (s *SyncRun) Fail(errorMsg string) {
	s.status = SyncStatusFailed
	s.errorMsg = errorMsg
	s.updatedAt = time.Now()
}

// Validate checks that required sync run fields are present.
func (s *SyncRun) Validate() error {
	if s.id == "" {
		return fmt.Errorf("sync run missing id")
	}
	if s.direction != "up" && s.direction != "down" {
		return fmt.Errorf("sync run has invalid direction %q", s.direction)
	}
	switch s.status {
	case SyncStatusRunning, SyncStatusCompleted, SyncStatusFailed:
	default:
		return fmt.Errorf("sync run has invalid status %q", s.status)
	}
	return nil
}
