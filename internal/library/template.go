package library

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlocker/mlx/internal/models"
)

// downloadExtension is appended to every rendered template path.
const downloadExtension = ".mp3"

// characterReplacer rewrites filesystem-hostile characters in metadata values.
var characterReplacer = strings.NewReplacer(
	`\`, "-",
	"/", ",",
	":", "-",
	"*", "x",
	"<", "[",
	">", "]",
	"|", "!",
	"?", "",
	`"`, "''",
)

// RenderTemplate expands metadata patterns in template into a download
// filepath ending in .mp3. Recognized patterns are %artist%, %title%,
// %track%, %track2% (zero-padded to two digits), %album%, %date%, %genre%,
// %albumartist%, %disc%, and %suggested% (the server-suggested filename).
// A template that renders to an empty filename falls back to suggested.
func RenderTemplate(template string, song models.Song, suggested string) string {
	suggested = strings.TrimSuffix(suggested, downloadExtension)

	if template == "" {
		return suggested + downloadExtension
	}

	replacements := []struct {
		pattern string
		value   string
	}{
		{"%artist%", song.Artist},
		{"%title%", song.Title},
		{"%track%", strconv.Itoa(song.TrackNumber)},
		{"%track2%", fmt.Sprintf("%02d", song.TrackNumber)},
		{"%album%", song.Album},
		{"%date%", song.Date},
		{"%genre%", song.Genre},
		{"%albumartist%", song.AlbumArtist},
		{"%disc%", strconv.Itoa(song.DiscNumber)},
		{"%suggested%", suggested},
	}

	parts := strings.Split(filepath.ToSlash(template), "/")
	for i, part := range parts {
		for _, r := range replacements {
			part = strings.ReplaceAll(part, r.pattern, r.value)
		}

		// Every part is sanitized, token or not.
		parts[i] = characterReplacer.Replace(part)
	}

	rendered := filepath.Join(parts...)
	if strings.HasPrefix(template, "/") {
		rendered = string(filepath.Separator) + rendered
	}

	if filepath.Base(rendered) == "" || filepath.Base(rendered) == "." || filepath.Base(rendered) == string(filepath.Separator) {
		return filepath.Join(rendered, suggested+downloadExtension)
	}

	return rendered + downloadExtension
}
