package library

import (
	"testing"

	"github.com/mlocker/mlx/internal/models"
)

func TestNormalizeMetadata(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"lowercases", "Normalize Me", "normalize me"},
		{"strips total tracks", "5/12", "5"},
		{"strips leading zeros", "05", "5"},
		{"strips list numbering", "5. Some Song", "some song"},
		{"strips punctuation", "Song: With, Punctuation!", "song with punctuation"},
		{"collapses whitespace", "Too   Much    Space", "too much space"},
		{"strips leading the", "The National", "national"},
		{"trims", "  padded  ", "padded"},
		{"plain zero unchanged", "0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeMetadata(tc.value); got != tc.want {
				t.Errorf("normalizeMetadata(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestSongKey(t *testing.T) {
	cases := []struct {
		name string
		song models.Song
		want string
	}{
		{
			"all fields",
			models.Song{Artist: "Muse", Album: "Absolution", Title: "Apocalypse Please", TrackNumber: 1},
			"muse|absolution|apocalypse please|1",
		},
		{
			"missing album",
			models.Song{Artist: "Muse", Title: "Apocalypse Please", TrackNumber: 1},
			"muse|apocalypse please|1",
		},
		{
			"missing track defaults to zero",
			models.Song{Artist: "Muse", Album: "Absolution", Title: "Apocalypse Please"},
			"muse|absolution|apocalypse please|0",
		},
		{
			"normalized fields",
			models.Song{Artist: "The Beatles", Album: "Abbey Road", Title: "Come Together", TrackNumber: 1},
			"beatles|abbey road|come together|1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SongKey(tc.song); got != tc.want {
				t.Errorf("SongKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	src := []models.Song{
		{Artist: "Muse", Album: "Absolution", Title: "Apocalypse Please", TrackNumber: 1},
		{Artist: "Muse", Album: "Absolution", Title: "Time Is Running Out", TrackNumber: 3},
		{Artist: "The Beatles", Album: "Abbey Road", Title: "Come Together", TrackNumber: 1},
	}
	dest := []models.Song{
		// Matches by normalized key despite decorated tags.
		{Artist: "muse", Album: "Absolution", Title: "Apocalypse, Please", TrackNumber: 1},
		{Artist: "Beatles", Album: "Abbey Road", Title: "Come Together", TrackNumber: 1},
	}

	missing := Compare(src, dest)
	if len(missing) != 1 {
		t.Fatalf("Compare() returned %d songs, want 1: %v", len(missing), missing)
	}

	if missing[0].Title != "Time Is Running Out" {
		t.Errorf("Compare() returned %q, want %q", missing[0].Title, "Time Is Running Out")
	}
}

func TestCompareDeduplicates(t *testing.T) {
	src := []models.Song{
		{Artist: "Muse", Title: "Hysteria", TrackNumber: 8},
		{Artist: "Muse", Title: "Hysteria!", TrackNumber: 8},
	}

	missing := Compare(src, nil)
	if len(missing) != 1 {
		t.Fatalf("Compare() returned %d songs, want 1", len(missing))
	}
}

func TestCompareEmptySource(t *testing.T) {
	dest := []models.Song{{Artist: "Muse", Title: "Hysteria", TrackNumber: 8}}

	if missing := Compare(nil, dest); len(missing) != 0 {
		t.Errorf("Compare() returned %d songs, want 0", len(missing))
	}
}
