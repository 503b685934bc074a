package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/repositories"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
)

func TestCacheHistoryCommand(t *testing.T) {
	t.Run("Lists Runs With Durations", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "mlx.db")

		db, err := shared.NewDatabase(dbPath)
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}

		repo := repositories.NewSyncRunRepository(db)
		run := models.NewSyncRun(0, "up", 4)
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		run.Complete(3, 0, 1, 0)
		if err := repo.Update(run); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		db.Close()

		config := shared.DefaultConfig()
		config.Database.Path = dbPath

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: config,
			Output: output,
			Logger: shared.NewLogger(io.Discard),
		})
		app := &cli.Command{Name: "mlx", Commands: runner.register()}

		if err := app.Run(context.Background(), []string{"mlx", "cache", "history"}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Sync history (1 runs)") {
			t.Errorf("expected one run listed, got %q", out)
		}
		if !strings.Contains(out, "(0:00)") {
			t.Errorf("expected run duration in listing, got %q", out)
		}
		if !strings.Contains(out, "Total: 4, Transferred: 3") {
			t.Errorf("expected run counters in listing, got %q", out)
		}
	})
}
