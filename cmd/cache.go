package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlocker/mlx/internal/repositories"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
)

// openDatabase opens the configured database for cache and history commands.
func (r *Runner) openDatabase() (*sql.DB, error) {
	config := r.config
	if config == nil {
		config = shared.DefaultConfig()
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run 'mlx setup database' first): %w", err)
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	return db, nil
}

// CacheSongs lists locker songs cached during previous sync runs.
func (r *Runner) CacheSongs(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if service := cmd.String("service"); service != "" {
		criteria["service"] = service
	}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	cached, err := repositories.NewSongRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		songs := make([]map[string]any, 0, len(cached))
		for _, record := range cached {
			songs = append(songs, map[string]any{
				"service":    record.Service(),
				"service_id": record.ServiceID(),
				"song":       record.Song(),
				"cached_at":  record.CreatedAt(),
			})
		}
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlain("Cached %d songs:\n\n", len(cached))
	for i, record := range cached {
		song := record.Song()
		r.writePlain("%d. %s - %s\n", i+1, song.Artist, song.Title)
		if song.Album != "" {
			r.writePlain("   Album: %s\n", song.Album)
		}
		r.writePlain("   Service: %s (%s)\n", record.Service(), record.ServiceID())
	}

	return nil
}

// CacheClear soft deletes all cached songs.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := repositories.NewSongRepository(db).DeleteAll()
	if err != nil {
		return err
	}

	r.logger.Info("cleared song cache", "count", count)
	return r.writePlain("✓ Cleared %d cached songs\n", count)
}

// CacheHistory lists past sync runs, newest first.
func (r *Runner) CacheHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if direction := cmd.String("direction"); direction != "" {
		criteria["direction"] = direction
	}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	runs, err := repositories.NewSyncRunRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		history := make([]map[string]any, 0, len(runs))
		for _, run := range runs {
			history = append(history, map[string]any{
				"id":        run.ID(),
				"direction": run.Direction(),
				"status":    run.Status(),
				"uploaded":  run.Uploaded(),
				"matched":   run.Matched(),
				"existing":  run.Existing(),
				"failed":    run.Failed(),
				"total":     run.Total(),
				"error":     run.ErrorMsg(),
				"started":   run.CreatedAt(),
			})
		}
		return r.writeJSON(history, cmd.Bool("pretty"))
	}

	r.writePlain("Sync history (%d runs):\n\n", len(runs))
	for i, run := range runs {
		elapsed := shared.FormatDuration(int(run.UpdatedAt().Sub(run.CreatedAt()).Seconds()))
		r.writePlain("%d. [%s] %s - %s (%s)\n", i+1, run.CreatedAt().Format("2006-01-02 15:04"), run.Direction(), run.Status(), elapsed)
		r.writePlain("   Total: %d, Transferred: %d, Matched: %d, Existing: %d, Failed: %d\n",
			run.Total(), run.Uploaded(), run.Matched(), run.Existing(), run.Failed())
		if run.ErrorMsg() != "" {
			r.writePlain("   Error: %s\n", run.ErrorMsg())
		}
	}

	return nil
}

// cacheCommand handles the local song cache and sync history
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect cached locker songs and sync history",
		Commands: []*cli.Command{
			{
				Name:  "songs",
				Usage: "List cached locker songs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "service", Usage: "Filter by service scope"},
					&cli.StringFlag{Name: "artist", Usage: "Filter by artist"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.CacheSongs,
			},
			{
				Name:   "clear",
				Usage:  "Clear the cached song list",
				Action: r.CacheClear,
			},
			{
				Name:  "history",
				Usage: "List past sync runs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "direction", Usage: "Filter by direction (up or down)"},
					&cli.StringFlag{Name: "status", Usage: "Filter by status (running, completed, failed)"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.CacheHistory,
			},
		},
	}
}
