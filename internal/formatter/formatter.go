// package formatter provides functions to export song listings to various formats (CSV, Markdown, plain text, M3U)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

// ExportToCSV converts a song list to CSV format with columns: ID, Title, Artist, Album, AlbumArtist, Genre, Date, Track, Disc, Path
func ExportToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "AlbumArtist", "Genre", "Date", "Track", "Disc", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			song.Album,
			song.AlbumArtist,
			song.Genre,
			song.Date,
			strconv.Itoa(song.TrackNumber),
			strconv.Itoa(song.DiscNumber),
			song.Path,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a song list to Markdown format under the given title
func ExportToMarkdown(title string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, song.Artist, song.Title, albumPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a song list to plain text format
func ExportToText(title string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportToM3U converts a song list to an extended M3U playlist.
//
// Local songs contribute their filepath; remote songs without a local path
// are skipped.
func ExportToM3U(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	for _, song := range songs {
		if song.Path == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("#EXTINF:-1,%s - %s\n", song.Artist, song.Title))
		buf.WriteString(song.Path + "\n")
	}

	return buf.Bytes(), nil
}

// ToJSON generates a pretty-printed JSON representation of a song list
func ToJSON(songs []models.Song) ([]byte, error) {
	return shared.MarshalJSON(songs, true)
}

// WriteSongExport renders a song list in the given format and writes it to path.
//
// Supported formats are json (default), csv, markdown, txt, and m3u.
func WriteSongExport(title string, songs []models.Song, format, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no output path provided")
	}

	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(songs)
	case "markdown":
		data, err = ExportToMarkdown(title, songs)
	case "txt":
		data, err = ExportToText(title, songs)
	case "m3u":
		data, err = ExportToM3U(songs)
	case "json", "":
		data, err = ToJSON(songs)
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
