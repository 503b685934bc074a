package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePlaylist(t *testing.T) {
	root := t.TempDir()
	songs := writeFiles(t, root, "one.mp3", "album/two.flac")

	playlist := filepath.Join(root, "mix.m3u")
	content := "#EXTM3U\n" +
		"#EXTINF:123,One\n" +
		"one.mp3\n" +
		"album/two.flac\n" +
		songs[0] + "\n" +
		"missing.mp3\n" +
		"notes.txt\n" +
		"\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ParsePlaylist(playlist)
	if err != nil {
		t.Fatalf("ParsePlaylist() error = %v", err)
	}

	// one.mp3 appears twice: once relative, once absolute.
	want := []string{songs[0], songs[1], songs[0]}
	if len(entries) != len(want) {
		t.Fatalf("ParsePlaylist() returned %d entries, want %d: %v", len(entries), len(want), entries)
	}

	for i, entry := range entries {
		if entry != want[i] {
			t.Errorf("entry %d = %q, want %q", i, entry, want[i])
		}
	}
}

func TestParsePlaylistMissingFile(t *testing.T) {
	if _, err := ParsePlaylist(filepath.Join(t.TempDir(), "missing.m3u")); err == nil {
		t.Error("ParsePlaylist() error = nil, want error")
	}
}

func TestLoadPlaylistSongsSkipsInvalidFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "garbage.mp3")

	playlist := filepath.Join(root, "mix.m3u")
	if err := os.WriteFile(playlist, []byte("garbage.mp3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Empty files carry no parsable tags, so the scan drops them.
	result, err := LoadPlaylistSongs(nil, playlist, ScanOptions{MaxDepth: -1})
	if err != nil {
		t.Fatalf("LoadPlaylistSongs() error = %v", err)
	}

	if len(result.Matched)+len(result.Filtered) != 0 {
		t.Errorf("expected all entries dropped, got %d matched, %d filtered", len(result.Matched), len(result.Filtered))
	}
}

func TestLoadSongsSkipsInvalidFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "garbage.mp3", "also-garbage.flac")

	result, err := LoadSongs(nil, []string{root}, ScanOptions{MaxDepth: -1})
	if err != nil {
		t.Fatalf("LoadSongs() error = %v", err)
	}

	if len(result.Matched)+len(result.Filtered) != 0 {
		t.Errorf("expected all files dropped, got %d matched, %d filtered", len(result.Matched), len(result.Filtered))
	}
}
