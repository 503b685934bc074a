package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
)

func newAPIApp(t *testing.T, server *httptest.Server) (*cli.Command, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Output: output,
		Logger: shared.NewLogger(io.Discard),
		API:    services.NewLockerAPI(server.URL, server.Client()),
	})

	app := &cli.Command{
		Name:     "mlx",
		Commands: runner.register(),
	}

	return app, output
}

func TestAPICommand(t *testing.T) {
	t.Run("Post", func(t *testing.T) {
		t.Run("Rejects Invalid JSON Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected for invalid JSON")
			}))
			defer server.Close()

			app, _ := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "post", "--data", "{not json", "/songs"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Requires A Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected without a body")
			}))
			defer server.Close()

			app, _ := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "post", "/songs"})
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Rejects Data And File Together", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected")
			}))
			defer server.Close()

			app, _ := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "post", "--data", "{}", "--file", "song.mp3", "/songs"})
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("Posts File Contents Raw", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Content-Type") != "audio/mpeg" {
					t.Errorf("unexpected content type %s", r.Header.Get("Content-Type"))
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != "audio-bytes" {
					t.Errorf("unexpected body %q", body)
				}
				w.Write([]byte(`{"status":"ok"}`))
			}))
			defer server.Close()

			path := filepath.Join(t.TempDir(), "song.mp3")
			if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
				t.Fatal(err)
			}

			app, output := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "post", "--file", path, "--content-type", "audio/mpeg", "/songs"})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !strings.Contains(output.String(), `"status": "ok"`) {
				t.Errorf("expected server response in output, got %q", output.String())
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected for a missing file")
			}))
			defer server.Close()

			app, _ := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "post", "--file", filepath.Join(t.TempDir(), "missing.mp3"), "/songs"})
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Saves Body Under Server Named File", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Disposition", `attachment; filename="01 - Hysteria.mp3"`)
				w.Write([]byte("audio-bytes"))
			}))
			defer server.Close()

			t.Chdir(t.TempDir())

			app, output := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "get", "--save", "/songs/abc/download"})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile("01 - Hysteria.mp3")
			if err != nil {
				t.Fatalf("expected saved file: %v", err)
			}
			if string(data) != "audio-bytes" {
				t.Errorf("unexpected file contents %q", data)
			}
			if !strings.Contains(output.String(), "✓ Saved 01 - Hysteria.mp3") {
				t.Errorf("expected save confirmation, got %q", output.String())
			}
		})

		t.Run("Save Falls Back To Path Segment", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("export-data"))
			}))
			defer server.Close()

			t.Chdir(t.TempDir())

			app, _ := newAPIApp(t, server)

			if err := app.Run(context.Background(), []string{"mlx", "api", "get", "--save", "/exports/library.csv"}); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if _, err := os.Stat("library.csv"); err != nil {
				t.Errorf("expected file named from the request path: %v", err)
			}
		})

		t.Run("Surfaces Request Errors", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			app, _ := newAPIApp(t, server)

			err := app.Run(context.Background(), []string{"mlx", "api", "get", "/songs"})
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}
