package library

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mlocker/mlx/internal/models"
)

var (
	totalTracksRe  = regexp.MustCompile(`/\s*\d+`)
	leadingZerosRe = regexp.MustCompile(`^0+([0-9]+)`)
	numberedListRe = regexp.MustCompile(`^\d+\.+`)
	nonWordRe      = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	leadingTheRe   = regexp.MustCompile(`^the\s+`)
)

// normalizeMetadata canonicalizes a metadata value for comparison: lowercase,
// no "/total" track suffixes, no leading zeros, no list numbering, no
// punctuation, collapsed whitespace, and no leading "the".
func normalizeMetadata(value string) string {
	value = strings.ToLower(value)
	value = totalTracksRe.ReplaceAllString(value, "")
	value = leadingZerosRe.ReplaceAllString(value, "$1")
	value = numberedListRe.ReplaceAllString(value, "")
	value = nonWordRe.ReplaceAllString(value, "")
	value = whitespaceRe.ReplaceAllString(value, " ")
	value = strings.TrimSpace(value)
	value = leadingTheRe.ReplaceAllString(value, "")

	return value
}

// SongKey builds a normalized identity key from a song's artist, album,
// title, and track number. Empty fields are skipped; a missing track number
// contributes "0" so sparse tags still produce a stable key.
func SongKey(song models.Song) string {
	parts := make([]string, 0, 4)
	for _, value := range []string{song.Artist, song.Album, song.Title} {
		if value == "" {
			continue
		}

		if normalized := normalizeMetadata(value); normalized != "" {
			parts = append(parts, normalized)
		}
	}

	parts = append(parts, normalizeMetadata(strconv.Itoa(song.TrackNumber)))

	return strings.Join(parts, "|")
}

// Compare returns the songs in src whose keys do not appear in dest,
// deduplicated by key in source order.
func Compare(src, dest []models.Song) []models.Song {
	destKeys := make(map[string]struct{}, len(dest))
	for _, song := range dest {
		destKeys[SongKey(song)] = struct{}{}
	}

	var missing []models.Song
	seen := make(map[string]struct{}, len(src))
	for _, song := range src {
		key := SongKey(song)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := destKeys[key]; !ok {
			missing = append(missing, song)
		}
	}

	return missing
}
