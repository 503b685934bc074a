package repositories

import (
	"fmt"
	"strings"

	"github.com/mlocker/mlx/internal/models"
)

// SongCacheAdapter caches remote songs through a SongRepository.
//
// Provides automatic song caching with deduplication via the
// (service, service_id) constraint. Duplicate songs are silently ignored.
type SongCacheAdapter struct {
	repo *SongRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repository
func NewSongCacheAdapter(repo *SongRepository) *SongCacheAdapter {
	return &SongCacheAdapter{repo: repo}
}

// CacheSong caches a song fetched from a locker scope.
// Returns nil if the song is already cached (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *SongCacheAdapter) CacheSong(service, serviceID string, song models.Song) error {
	existing, err := a.repo.GetByServiceID(service, serviceID)
	if err == nil && existing != nil {
		return nil
	}

	persisted := models.NewPersistedSong(0, service, serviceID, song)

	err = a.repo.Create(persisted)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}

// CacheSongs caches every song in the list, returning the count cached
// without error.
func (a *SongCacheAdapter) CacheSongs(service string, songs []models.Song) int {
	cached := 0
	for _, song := range songs {
		if song.ID == "" {
			continue
		}
		if err := a.CacheSong(service, song.ID, song); err == nil {
			cached++
		}
	}

	return cached
}
