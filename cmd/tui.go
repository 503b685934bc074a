package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/mlocker/mlx/internal/tasks"
	"github.com/mlocker/mlx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and uploading the
// local library.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
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

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mlx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if cmd.Bool("verbose") {
		shared.SetLogLevel(fileLogger, log.DebugLevel)
	}
	r.SetLogger(fileLogger)

	engine, closeEngine := r.engineWithHistory()
	defer closeEngine()

	opts := tasks.UpOpts{
		Paths: roots,
		Scan:  scan,
		Upload: services.UploadOptions{
			EnableMatching:   cmd.Bool("enable-matching"),
			TranscodeQuality: cmd.String("transcode-quality"),
		},
		DryRun:     cmd.Bool("dry-run"),
		NumWorkers: r.syncWorkers(cmd),
		RateLimit:  r.syncRateLimit(cmd),
	}

	model := ui.NewModel(ctx, engine, shared.WithLogger(fileLogger, "component", "tui"), opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand returns the top-level TUI command for interactive uploads.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Aliases:   []string{"interactive", "ui"},
		Usage:     "Launch interactive TUI for library uploads",
		ArgsUsage: "[paths...]",
		Flags: append(scanFlags(),
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
				Name:  "dry-run",
				Usage: "Report what would upload without transferring",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug detail to the TUI log file",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent transfer workers",
			},
			&cli.Float64Flag{
				Name:  "rate-limit",
				Usage: "Requests per second",
			},
		),
		Action: r.TUI,
	}
}
