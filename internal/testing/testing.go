// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/services"
)

// MockService is a configurable test double for [services.Service]
type MockService struct {
	LoginErr      error
	SongsResult   []models.Song
	SongsErr      error
	Authenticated bool
}

func (m *MockService) Login(ctx context.Context, credentials map[string]string) error {
	if m.LoginErr != nil {
		return m.LoginErr
	}
	m.Authenticated = true
	return nil
}

func (m *MockService) Logout(ctx context.Context) error {
	m.Authenticated = false
	return nil
}

func (m *MockService) IsAuthenticated() bool { return m.Authenticated }

func (m *MockService) Songs(ctx context.Context) ([]models.Song, error) {
	return m.SongsResult, m.SongsErr
}

func (m *MockService) Name() string { return "mock" }

// MockUploader is a test double for [services.Uploader]
type MockUploader struct {
	MockService

	LibraryResult []models.Song
	LibraryErr    error

	// UploadFn decides each upload outcome; defaults to uploaded.
	UploadFn func(path string) (*services.UploadResult, error)

	// DownloadFn decides each download outcome; defaults to empty audio.
	DownloadFn func(songID string) (string, []byte, error)
}

func (m *MockUploader) LibrarySongs(ctx context.Context, uploaded, purchased bool) ([]models.Song, error) {
	return m.LibraryResult, m.LibraryErr
}

func (m *MockUploader) Upload(ctx context.Context, path string, opts services.UploadOptions) (*services.UploadResult, error) {
	if m.UploadFn != nil {
		return m.UploadFn(path)
	}
	return &services.UploadResult{Path: path, Status: services.StatusUploaded, SongID: "mock-id"}, nil
}

func (m *MockUploader) Download(ctx context.Context, songID string) (string, []byte, error) {
	if m.DownloadFn != nil {
		return m.DownloadFn(songID)
	}
	return songID + ".mp3", []byte("audio"), nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// id3v2Frame encodes one ID3v2.3 text frame with latin-1 encoding.
func id3v2Frame(id, value string) []byte {
	payload := append([]byte{0}, []byte(value)...)
	size := len(payload)

	frame := make([]byte, 0, 10+size)
	frame = append(frame, id...)
	frame = append(frame, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	frame = append(frame, 0, 0)

	return append(frame, payload...)
}

// WriteTaggedMP3 writes a minimal MP3 file carrying an ID3v2.3 tag built
// from the song's metadata, returning the file path.
func WriteTaggedMP3(t *testing.T, dir, name string, song models.Song) string {
	t.Helper()

	var frames []byte
	fields := []struct {
		id    string
		value string
	}{
		{"TIT2", song.Title},
		{"TPE1", song.Artist},
		{"TALB", song.Album},
		{"TPE2", song.AlbumArtist},
		{"TCON", song.Genre},
		{"TYER", song.Date},
	}
	for _, f := range fields {
		if f.value != "" {
			frames = append(frames, id3v2Frame(f.id, f.value)...)
		}
	}
	if song.TrackNumber > 0 {
		frames = append(frames, id3v2Frame("TRCK", strconv.Itoa(song.TrackNumber))...)
	}
	if song.DiscNumber > 0 {
		frames = append(frames, id3v2Frame("TPOS", strconv.Itoa(song.DiscNumber))...)
	}

	size := len(frames)
	header := []byte{
		'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f),
	}

	content := append(header, frames...)
	content = append(content, make([]byte, 64)...)

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}

	return path
}
