package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlocker/mlx/internal/shared"
)

// writeFiles creates empty files under root, making parent directories as
// needed, and returns their absolute paths.
func writeFiles(t *testing.T, root string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		paths = append(paths, path)
	}

	return paths
}

func TestFindSongs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"top.mp3",
		"album/one.flac",
		"album/two.ogg",
		"album/cover.jpg",
		"album/deep/three.m4a",
		"notes.txt",
	)

	t.Run("unlimited depth", func(t *testing.T) {
		included, excluded, err := FindSongs([]string{root}, nil, -1)
		if err != nil {
			t.Fatalf("FindSongs() error = %v", err)
		}

		if len(included) != 4 {
			t.Errorf("FindSongs() included %d files, want 4: %v", len(included), included)
		}

		if len(excluded) != 0 {
			t.Errorf("FindSongs() excluded %d files, want 0", len(excluded))
		}
	})

	t.Run("top level only", func(t *testing.T) {
		included, _, err := FindSongs([]string{root}, nil, 0)
		if err != nil {
			t.Fatalf("FindSongs() error = %v", err)
		}

		if len(included) != 1 || filepath.Base(included[0]) != "top.mp3" {
			t.Errorf("FindSongs() included %v, want only top.mp3", included)
		}
	})

	t.Run("depth one", func(t *testing.T) {
		included, _, err := FindSongs([]string{root}, nil, 1)
		if err != nil {
			t.Fatalf("FindSongs() error = %v", err)
		}

		if len(included) != 3 {
			t.Errorf("FindSongs() included %d files, want 3: %v", len(included), included)
		}
	})

	t.Run("exclude pattern", func(t *testing.T) {
		included, excluded, err := FindSongs([]string{root}, []string{"album"}, -1)
		if err != nil {
			t.Fatalf("FindSongs() error = %v", err)
		}

		if len(included) != 1 || len(excluded) != 3 {
			t.Errorf("FindSongs() = %d included, %d excluded, want 1, 3", len(included), len(excluded))
		}
	})

	t.Run("single file root", func(t *testing.T) {
		included, _, err := FindSongs([]string{filepath.Join(root, "top.mp3")}, nil, -1)
		if err != nil {
			t.Fatalf("FindSongs() error = %v", err)
		}

		if len(included) != 1 {
			t.Errorf("FindSongs() included %d files, want 1", len(included))
		}
	})

	t.Run("missing root", func(t *testing.T) {
		if _, _, err := FindSongs([]string{filepath.Join(root, "missing")}, nil, -1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("FindSongs() error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		if _, _, err := FindSongs([]string{root}, []string{"[unclosed"}, -1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("FindSongs() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestFindPlaylists(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "mix.m3u", "mix.m3u8", "song.mp3", "sub/other.m3u")

	included, _, err := FindPlaylists([]string{root}, nil, -1)
	if err != nil {
		t.Fatalf("FindPlaylists() error = %v", err)
	}

	if len(included) != 3 {
		t.Errorf("FindPlaylists() included %d files, want 3: %v", len(included), included)
	}
}

func TestSupportedSong(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"song.ogg", true},
		{"song.m4a", true},
		{"song.wav", false},
		{"song.mp3.bak", false},
		{"noext", false},
	}

	for _, tc := range cases {
		if got := SupportedSong(tc.path); got != tc.want {
			t.Errorf("SupportedSong(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
