package main

import (
	"context"
	"fmt"

	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/mlocker/mlx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncUp uploads local songs missing from the locker.
func (r *Runner) SyncUp(ctx context.Context, cmd *cli.Command) error {
	if r.manager == nil {
		return fmt.Errorf("%w: manager credentials not configured", shared.ErrServiceUnavailable)
	}

	roots, err := r.scanRoots(cmd)
	if err != nil {
		return err
	}

	scan, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	opts := tasks.UpOpts{
		Paths: roots,
		Scan:  scan,
		Upload: services.UploadOptions{
			EnableMatching:   cmd.Bool("enable-matching"),
			TranscodeQuality: cmd.String("transcode-quality"),
		},
		DeleteOnSuccess: cmd.Bool("delete-on-success"),
		DryRun:          cmd.Bool("dry-run"),
		NumWorkers:      r.syncWorkers(cmd),
		RateLimit:       r.syncRateLimit(cmd),
	}

	r.logger.Info("starting upload sync", "paths", roots, "dry_run", opts.DryRun)
	r.writePlain("Syncing local library to the locker...\n\n")

	engine, closeEngine := r.engineWithHistory()
	defer closeEngine()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)

	result, err := engine.Up(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	if result.DryRun {
		r.writePlainHeader("Dry Run")
		r.writePlain("Local songs: %d\n", result.TotalLocal)
		r.writePlain("Would upload: %d\n", len(result.ToUpload))
		for i, song := range result.ToUpload {
			r.writePlain("  %d. %s\n", i+1, song.Path)
		}
		return nil
	}

	r.writePlainHeader("Upload Complete")
	r.writePlain("Local songs: %d\n", result.TotalLocal)
	r.writePlain("Uploaded: %d\n", result.Uploaded)
	r.writePlain("Matched: %d\n", result.Matched)
	r.writePlain("Already in locker: %d\n", result.AlreadyExists)
	if result.NotUploaded > 0 {
		r.writePlain("Rejected: %d\n", result.NotUploaded)
	}
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, res := range result.Results {
			if res.Status == services.StatusFailed {
				r.writePlain("  - %s: %s\n", res.Path, res.Error)
			}
		}
	}

	return nil
}

// SyncDown downloads locker songs missing from the local library.
func (r *Runner) SyncDown(ctx context.Context, cmd *cli.Command) error {
	if r.manager == nil {
		return fmt.Errorf("%w: manager credentials not configured", shared.ErrServiceUnavailable)
	}

	scan, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	// Roots are optional: without them every locker song is downloaded.
	roots := cmd.Args().Slice()
	if len(roots) == 0 && r.config != nil {
		roots = r.config.Library.Paths
	}

	template := cmd.String("template")
	if template == "" && r.config != nil {
		template = r.config.Sync.Template
	}

	uploaded := cmd.Bool("uploaded")
	purchased := cmd.Bool("purchased")
	if !uploaded && !purchased {
		uploaded, purchased = true, true
	}

	opts := tasks.DownOpts{
		Paths:      roots,
		Scan:       scan,
		Template:   template,
		OutputDir:  cmd.String("output-dir"),
		Uploaded:   uploaded,
		Purchased:  purchased,
		DryRun:     cmd.Bool("dry-run"),
		NumWorkers: r.syncWorkers(cmd),
		RateLimit:  r.syncRateLimit(cmd),
	}

	r.logger.Info("starting download sync", "template", template, "dry_run", opts.DryRun)
	r.writePlain("Syncing locker songs to the local library...\n\n")

	engine, closeEngine := r.engineWithHistory()
	defer closeEngine()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)

	result, err := engine.Down(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	if result.DryRun {
		r.writePlainHeader("Dry Run")
		r.writePlain("Locker songs: %d\n", result.TotalRemote)
		r.writePlain("Would download: %d\n", len(result.ToDownload))
		for i, song := range result.ToDownload {
			r.writePlain("  %d. %s - %s\n", i+1, song.Artist, song.Title)
		}
		return nil
	}

	r.writePlainHeader("Download Complete")
	r.writePlain("Locker songs: %d\n", result.TotalRemote)
	r.writePlain("Downloaded: %d\n", result.Downloaded)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, res := range result.Results {
			if res.Error != "" {
				r.writePlain("  - %s: %s\n", res.SongID, res.Error)
			}
		}
	}

	return nil
}

// SyncDiff compares the local library against the locker in both directions.
func (r *Runner) SyncDiff(ctx context.Context, cmd *cli.Command) error {
	if r.manager == nil {
		return fmt.Errorf("%w: manager credentials not configured", shared.ErrServiceUnavailable)
	}

	roots, err := r.scanRoots(cmd)
	if err != nil {
		return err
	}

	scan, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	uploaded := cmd.Bool("uploaded")
	purchased := cmd.Bool("purchased")
	if !uploaded && !purchased {
		uploaded, purchased = true, true
	}

	r.logger.Info("comparing libraries", "paths", roots)
	r.writePlain("Comparing local library with the locker...\n\n")

	engine, closeEngine := r.engineWithHistory()
	defer closeEngine()

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := r.printProgress(progressCh)

	result, err := engine.Diff(ctx, progressCh, tasks.DiffOpts{
		Paths:     roots,
		Scan:      scan,
		Uploaded:  uploaded,
		Purchased: purchased,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Comparison Results")
	r.writePlain("Local songs: %d\n", result.TotalLocal)
	r.writePlain("Locker songs: %d\n", result.TotalRemote)
	r.writePlain("Missing from locker: %d\n", len(result.MissingRemote))
	r.writePlain("Missing locally: %d\n\n", len(result.MissingLocal))

	if len(result.MissingRemote) > 0 {
		r.writePlain("Missing from locker:\n")
		for i, song := range result.MissingRemote {
			r.writePlain("  %d. %s - %s", i+1, song.Artist, song.Title)
			if song.Album != "" {
				r.writePlain(" (%s)", song.Album)
			}
			r.writePlain("\n")
		}
		r.writePlain("\n")
	}

	if len(result.MissingLocal) > 0 {
		r.writePlain("Missing locally:\n")
		for i, song := range result.MissingLocal {
			r.writePlain("  %d. %s - %s", i+1, song.Artist, song.Title)
			if song.Album != "" {
				r.writePlain(" (%s)", song.Album)
			}
			r.writePlain("\n")
		}
	}

	return nil
}

// printProgress consumes progress updates and renders them by phase. The
// returned channel closes once the progress channel drains.
func (r *Runner) printProgress(progressCh <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ScanLocal, tasks.FetchRemote, tasks.Compare:
				r.writePlain("→ %s\n", update.Message)
			case tasks.Upload, tasks.Download:
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	return done
}

func (r *Runner) syncWorkers(cmd *cli.Command) int {
	if workers := cmd.Int("workers"); workers > 0 {
		return workers
	}
	if r.config != nil && r.config.Sync.Workers > 0 {
		return r.config.Sync.Workers
	}
	return 0
}

func (r *Runner) syncRateLimit(cmd *cli.Command) float64 {
	if limit := cmd.Float64("rate-limit"); limit > 0 {
		return limit
	}
	if r.config != nil && r.config.Sync.RateLimit > 0 {
		return r.config.Sync.RateLimit
	}
	return 0
}

// syncCommand handles uploading, downloading, and comparing libraries
func syncCommand(r *Runner) *cli.Command {
	workerFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent transfer workers",
		},
		&cli.Float64Flag{
			Name:  "rate-limit",
			Usage: "Requests per second",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Report what would transfer without transferring",
		},
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
	}

	return &cli.Command{
		Name:  "sync",
		Usage: "Sync the local library with the locker",
		Commands: []*cli.Command{
			{
				Name:      "up",
				Usage:     "Upload local songs missing from the locker",
				ArgsUsage: "[paths...]",
				Flags: append(append(scanFlags(), workerFlags...),
					&cli.BoolFlag{
						Name:  "enable-matching",
						Usage: "Let the locker match songs against its catalog instead of storing the file",
					},
					&cli.StringFlag{
						Name:  "transcode-quality",
						Usage: "Transcode bitrate sent to the locker",
						Value: "320k",
					},
					&cli.BoolFlag{
						Name:  "delete-on-success",
						Usage: "Remove local files the locker holds after the run",
					},
				),
				Action: r.SyncUp,
			},
			{
				Name:      "down",
				Usage:     "Download locker songs missing locally",
				ArgsUsage: "[paths...]",
				Flags: append(append(scanFlags(), workerFlags...),
					&cli.StringFlag{
						Name:  "template",
						Usage: "Filename template for downloaded songs",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory the template renders under",
					},
					&cli.BoolFlag{Name: "uploaded", Usage: "Include uploaded songs"},
					&cli.BoolFlag{Name: "purchased", Usage: "Include purchased songs"},
				),
				Action: r.SyncDown,
			},
			{
				Name:      "diff",
				Usage:     "Compare the local library against the locker",
				ArgsUsage: "[paths...]",
				Flags: append(append(scanFlags(), workerFlags...),
					&cli.BoolFlag{Name: "uploaded", Usage: "Include uploaded songs"},
					&cli.BoolFlag{Name: "purchased", Usage: "Include purchased songs"},
				),
				Action: r.SyncDiff,
			},
		},
	}
}
