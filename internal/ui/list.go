package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/mlocker/mlx/internal/models"
)

// songItem wraps [models.Song] to implement list.Item.
type songItem struct {
	song models.Song
}

var _ list.Item = songItem{}
var _ list.DefaultItem = songItem{}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return desc
}

// newSongList builds the browsable list over the scanned songs.
func newSongList(songs []models.Song, width, height int) list.Model {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Local Songs"
	l.SetSize(width-4, height-8)
	return l
}
