package library

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/mlocker/mlx/internal/models"
)

// ScanOptions controls how local files are discovered and filtered.
type ScanOptions struct {
	ExcludePatterns []string
	MaxDepth        int
	Filter          Filter
}

// ScanResult reports a local scan: songs passing the filter, songs dropped
// by it, and paths matched by an exclusion pattern.
type ScanResult struct {
	Matched  []models.Song
	Filtered []models.Song
	Excluded []string
}

// MatchedPaths returns the filepaths of the matched songs.
func (r ScanResult) MatchedPaths() []string {
	paths := make([]string, 0, len(r.Matched))
	for _, song := range r.Matched {
		paths = append(paths, song.Path)
	}

	return paths
}

// LoadSongs scans paths for supported audio files, reads their tags, and
// applies opts.Filter. Files the tag parser rejects are logged and dropped.
func LoadSongs(logger *log.Logger, paths []string, opts ScanOptions) (ScanResult, error) {
	logger = ensureLogger(logger)

	included, excluded, err := FindSongs(paths, opts.ExcludePatterns, opts.MaxDepth)
	if err != nil {
		return ScanResult{}, err
	}

	result := filterPaths(logger, included, opts.Filter)
	result.Excluded = excluded

	logger.Info(
		"Scanned local songs",
		"matched", len(result.Matched), "filtered", len(result.Filtered), "excluded", len(result.Excluded),
	)

	return result, nil
}

// LoadPlaylists scans paths for supported playlist files.
func LoadPlaylists(logger *log.Logger, paths []string, opts ScanOptions) (included, excluded []string, err error) {
	logger = ensureLogger(logger)

	included, excluded, err = FindPlaylists(paths, opts.ExcludePatterns, opts.MaxDepth)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Scanned local playlists", "included", len(included), "excluded", len(excluded))

	return included, excluded, nil
}

// LoadPlaylistSongs parses an M3U playlist and applies the exclusion
// patterns and filter from opts to the songs it references.
func LoadPlaylistSongs(logger *log.Logger, playlistPath string, opts ScanOptions) (ScanResult, error) {
	logger = ensureLogger(logger)

	entries, err := ParsePlaylist(playlistPath)
	if err != nil {
		return ScanResult{}, err
	}

	patterns, err := CompilePatterns(opts.ExcludePatterns)
	if err != nil {
		return ScanResult{}, err
	}

	var included []string
	var excluded []string
	for _, entry := range entries {
		if excludedPath(entry, patterns) {
			excluded = append(excluded, entry)
		} else {
			included = append(included, entry)
		}
	}

	result := filterPaths(logger, included, opts.Filter)
	result.Excluded = excluded

	logger.Info(
		"Loaded playlist songs",
		"playlist", playlistPath,
		"matched", len(result.Matched), "filtered", len(result.Filtered), "excluded", len(result.Excluded),
	)

	return result, nil
}

// filterPaths reads tags from each path and partitions the songs by filter.
func filterPaths(logger *log.Logger, paths []string, f Filter) ScanResult {
	var result ScanResult
	for _, path := range paths {
		song, err := ReadTags(path)
		if err != nil {
			logger.Warn("Skipping invalid music file", "path", path, "error", err)

			continue
		}

		if f.Match(song) {
			result.Matched = append(result.Matched, song)
		} else {
			result.Filtered = append(result.Filtered, song)
		}
	}

	return result
}

func ensureLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}

	return logger
}
