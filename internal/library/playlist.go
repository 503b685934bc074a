package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlocker/mlx/internal/shared"
)

// ParsePlaylist reads an M3U or M3U8 playlist and returns the supported song
// filepaths it references. Relative entries resolve against the playlist's
// directory; entries pointing at missing files are dropped.
func ParsePlaylist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var songs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || !SupportedSong(line) {
			continue
		}

		entry := filepath.FromSlash(line)
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(dir, entry)
		}

		if _, err := os.Stat(entry); err != nil {
			continue
		}

		songs = append(songs, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist %s: %w", path, err)
	}

	return songs, nil
}
