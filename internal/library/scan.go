package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mlocker/mlx/internal/shared"
)

// SongFormats lists the audio file extensions the locker accepts.
var SongFormats = []string{".mp3", ".flac", ".ogg", ".m4a"}

// PlaylistFormats lists the playlist file extensions the scanner recognizes.
var PlaylistFormats = []string{".m3u", ".m3u8"}

// SupportedSong reports whether path has a supported audio extension.
func SupportedSong(path string) bool {
	return supportedPath(path, SongFormats)
}

// SupportedPlaylist reports whether path has a supported playlist extension.
func SupportedPlaylist(path string) bool {
	return supportedPath(path, PlaylistFormats)
}

func supportedPath(path string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		if ext == f {
			return true
		}
	}

	return false
}

// CompilePatterns compiles exclusion patterns into regular expressions.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %v", shared.ErrInvalidArgument, p, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func excludedPath(path string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// FindSongs walks roots collecting supported audio files. Paths matching an
// exclusion pattern are returned separately. A maxDepth of 0 scans only the
// top directory of each root; a negative maxDepth removes the limit.
func FindSongs(roots []string, excludePatterns []string, maxDepth int) (included, excluded []string, err error) {
	return findFiles(roots, SongFormats, excludePatterns, maxDepth)
}

// FindPlaylists walks roots collecting supported playlist files, with the
// same exclusion and depth semantics as [FindSongs].
func FindPlaylists(roots []string, excludePatterns []string, maxDepth int) (included, excluded []string, err error) {
	return findFiles(roots, PlaylistFormats, excludePatterns, maxDepth)
}

func findFiles(roots, formats, excludePatterns []string, maxDepth int) (included, excluded []string, err error) {
	patterns, err := CompilePatterns(excludePatterns)
	if err != nil {
		return nil, nil, err
	}

	for _, root := range roots {
		root = filepath.Clean(root)

		info, err := os.Stat(root)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}

		if !info.IsDir() {
			if supportedPath(root, formats) {
				if excludedPath(root, patterns) {
					excluded = append(excluded, root)
				} else {
					included = append(included, root)
				}
			}

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if maxDepth >= 0 && pathDepth(root, path) > maxDepth {
					return filepath.SkipDir
				}

				return nil
			}

			if !supportedPath(path, formats) {
				return nil
			}

			if excludedPath(path, patterns) {
				excluded = append(excluded, path)
			} else {
				included = append(included, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, nil, fmt.Errorf("walking %s: %w", root, walkErr)
		}
	}

	sort.Strings(included)
	sort.Strings(excluded)

	return included, excluded, nil
}

// pathDepth counts directory levels below root. The root itself is depth 0.
func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(rel, string(filepath.Separator)) + 1
}
