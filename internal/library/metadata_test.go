package library

import (
	"testing"

	"github.com/mlocker/mlx/internal/models"
	tu "github.com/mlocker/mlx/internal/testing"
)

func TestReadTags(t *testing.T) {
	t.Run("Full Tags", func(t *testing.T) {
		want := models.Song{
			Title:       "Apocalypse Please",
			Artist:      "Muse",
			Album:       "Absolution",
			AlbumArtist: "Muse",
			Genre:       "Rock",
			Date:        "2003",
			TrackNumber: 1,
			DiscNumber:  1,
		}
		path := tu.WriteTaggedMP3(t, t.TempDir(), "song.mp3", want)

		got, err := ReadTags(path)
		if err != nil {
			t.Fatalf("ReadTags() error = %v", err)
		}

		want.Path = path
		if got != want {
			t.Errorf("ReadTags() = %+v, want %+v", got, want)
		}
	})

	t.Run("Sparse Tags", func(t *testing.T) {
		path := tu.WriteTaggedMP3(t, t.TempDir(), "sparse.mp3", models.Song{Title: "Untitled"})

		got, err := ReadTags(path)
		if err != nil {
			t.Fatalf("ReadTags() error = %v", err)
		}

		if got.Title != "Untitled" || got.Artist != "" || got.TrackNumber != 0 {
			t.Errorf("unexpected song %+v", got)
		}
	})

	t.Run("Invalid File", func(t *testing.T) {
		paths := writeFiles(t, t.TempDir(), "garbage.mp3")

		if _, err := ReadTags(paths[0]); err == nil {
			t.Error("expected error for untagged file")
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := ReadTags("/nonexistent/song.mp3"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestLoadSongsWithTags(t *testing.T) {
	root := t.TempDir()
	tu.WriteTaggedMP3(t, root, "one.mp3", models.Song{Title: "Hysteria", Artist: "Muse", Album: "Absolution"})
	tu.WriteTaggedMP3(t, root, "two.mp3", models.Song{Title: "Come Together", Artist: "The Beatles", Album: "Abbey Road"})

	rules, err := ParseRules([]string{"artist=Muse"})
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}

	result, err := LoadSongs(nil, []string{root}, ScanOptions{
		MaxDepth: -1,
		Filter:   Filter{Include: rules},
	})
	if err != nil {
		t.Fatalf("LoadSongs() error = %v", err)
	}

	if len(result.Matched) != 1 || result.Matched[0].Title != "Hysteria" {
		t.Errorf("unexpected matched songs %v", result.Matched)
	}

	if len(result.Filtered) != 1 || result.Filtered[0].Artist != "The Beatles" {
		t.Errorf("unexpected filtered songs %v", result.Filtered)
	}
}
