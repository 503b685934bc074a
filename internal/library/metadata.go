package library

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

// ReadTags reads tag metadata from an audio file into a Song. Files the tag
// parser cannot read return [shared.ErrInvalidSongFile].
func ReadTags(path string) (models.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Song{}, fmt.Errorf("%w: %v", shared.ErrInvalidSongFile, err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return models.Song{}, fmt.Errorf("%w: %s: %v", shared.ErrInvalidSongFile, path, err)
	}

	track, _ := meta.Track()
	disc, _ := meta.Disc()

	var date string
	if year := meta.Year(); year > 0 {
		date = strconv.Itoa(year)
	}

	return models.Song{
		Title:       meta.Title(),
		Artist:      meta.Artist(),
		Album:       meta.Album(),
		AlbumArtist: meta.AlbumArtist(),
		Genre:       meta.Genre(),
		Date:        date,
		TrackNumber: track,
		DiscNumber:  disc,
		Path:        path,
	}, nil
}
