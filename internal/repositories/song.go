package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

const songColumns = "id, sequence, service, service_id, title, artist, album, album_artist, genre, date, track_number, disc_number, created_at, updated_at, deleted_at"

// SongRepository implements models.Repository[*models.PersistedSong] for song caching.
//
// Handles automatic song caching with soft delete support and service-specific lookups.
// Remote songs are cached on every fetch so listings work offline and sync
// comparisons can skip a server round trip.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.PersistedSong] into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.PersistedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	song.SetSequence(sequence)

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, service, service_id, title, artist, album, album_artist, genre, date, track_number, disc_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	dto := song.Song()
	_, err = r.db.Exec(query,
		id,
		sequence,
		song.Service(),
		song.ServiceID(),
		dto.Title,
		dto.Artist,
		dto.Album,
		dto.AlbumArtist,
		dto.Genre,
		dto.Date,
		dto.TrackNumber,
		dto.DiscNumber,
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE id = ? AND deleted_at IS NULL", songColumns)

	return scanSong(r.db.QueryRow(query, id))
}

// GetByServiceID retrieves a song by service and service_id
func (r *SongRepository) GetByServiceID(service, serviceID string) (*models.PersistedSong, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE service = ? AND service_id = ? AND deleted_at IS NULL", songColumns)

	return scanSong(r.db.QueryRow(query, service, serviceID))
}

// Update modifies an existing song's metadata in the database
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, album_artist = ?, genre = ?, date = ?, track_number = ?, disc_number = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	dto := song.Song()
	result, err := r.db.Exec(query,
		dto.Title,
		dto.Artist,
		dto.Album,
		dto.AlbumArtist,
		dto.Genre,
		dto.Date,
		dto.TrackNumber,
		dto.DiscNumber,
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", song.ID())
	}

	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", id)
	}

	return nil
}

// DeleteAll soft-deletes every cached song and returns the affected count.
func (r *SongRepository) DeleteAll() (int, error) {
	result, err := r.db.Exec("UPDATE songs SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear songs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// List retrieves all songs matching the given criteria, excluding soft-deleted songs
func (r *SongRepository) List(criteria map[string]any) ([]*models.PersistedSong, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE deleted_at IS NULL", songColumns)

	args := []any{}

	if service, ok := criteria["service"].(string); ok && service != "" {
		query += " AND service = ?"
		args = append(args, service)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.PersistedSong
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// rowScanner covers [sql.Row] and [sql.Rows]
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSong scans a database row into a [models.PersistedSong]
func scanSong(row rowScanner) (*models.PersistedSong, error) {
	var (
		id          string
		sequence    int
		service     string
		serviceID   string
		title       string
		artist      string
		album       string
		albumArtist string
		genre       string
		date        string
		trackNumber int
		discNumber  int
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &service, &serviceID, &title, &artist, &album, &albumArtist, &genre, &date, &trackNumber, &discNumber, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not cached", shared.ErrSongNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	dto := models.Song{
		ID:          serviceID,
		Title:       title,
		Artist:      artist,
		Album:       album,
		AlbumArtist: albumArtist,
		Genre:       genre,
		Date:        date,
		TrackNumber: trackNumber,
		DiscNumber:  discNumber,
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestorePersistedSong(id, sequence, service, serviceID, dto, createdAt, updatedAt, deleted), nil
}
