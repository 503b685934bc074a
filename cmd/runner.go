package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mlocker/mlx/internal/formatter"
	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/repositories"
	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/mlocker/mlx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	manager    *services.ManagerService
	mobile     *services.MobileService
	api        *services.LockerAPI
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.LockerEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Manager    *services.ManagerService
	Mobile     *services.MobileService
	API        *services.LockerAPI
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	engine := tasks.NewLockerEngine(opts.Manager, tasks.EngineOpts{Logger: opts.Logger})

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		manager:    opts.Manager,
		mobile:     opts.Mobile,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

// SetLogger replaces the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, localCommand, remoteCommand, syncCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// engineWithHistory returns a sync engine wired to the configured database
// for song caching and run history. Falls back to the plain engine when the
// database has not been initialized.
func (r *Runner) engineWithHistory() (*tasks.LockerEngine, func()) {
	noop := func() {}

	if r.config == nil || r.config.Database.Path == "" {
		return r.engine, noop
	}
	if _, err := os.Stat(r.config.Database.Path); err != nil {
		return r.engine, noop
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("failed to open database, sync history disabled", "error", err)
		return r.engine, noop
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	songs := repositories.NewSongRepository(db)
	engine := tasks.NewLockerEngine(r.manager, tasks.EngineOpts{
		Logger:   r.logger,
		Cache:    repositories.NewSongCacheAdapter(songs),
		Recorder: repositories.NewSyncRunRepository(db),
	})

	return engine, func() { db.Close() }
}

func missingArgument(name string) error {
	return fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
}

// scanRoots resolves the library roots for a command, preferring positional
// arguments over the configured paths.
func (r *Runner) scanRoots(cmd *cli.Command) ([]string, error) {
	roots := cmd.Args().Slice()
	if len(roots) == 0 && r.config != nil {
		roots = r.config.Library.Paths
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no paths given and library.paths is empty", shared.ErrMissingArgument)
	}

	return roots, nil
}

// scanOptions builds scan options from the shared filter and traversal flags.
func scanOptions(cmd *cli.Command) (library.ScanOptions, error) {
	include, err := library.ParseRules(cmd.StringSlice("include"))
	if err != nil {
		return library.ScanOptions{}, err
	}

	exclude, err := library.ParseRules(cmd.StringSlice("exclude"))
	if err != nil {
		return library.ScanOptions{}, err
	}

	return library.ScanOptions{
		ExcludePatterns: cmd.StringSlice("exclude-path"),
		MaxDepth:        cmd.Int("max-depth"),
		Filter: library.Filter{
			Include:     include,
			Exclude:     exclude,
			AllIncludes: cmd.Bool("all-includes"),
			AllExcludes: cmd.Bool("all-excludes"),
		},
	}, nil
}

// scanFlags are the filter and traversal flags shared by local, remote, and
// sync commands.
func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "include",
			Aliases: []string{"i"},
			Usage:   "Include songs matching field=pattern (artist, album, title, albumartist)",
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"e"},
			Usage:   "Exclude songs matching field=pattern",
		},
		&cli.BoolFlag{
			Name:  "all-includes",
			Usage: "Require all include rules to match",
		},
		&cli.BoolFlag{
			Name:  "all-excludes",
			Usage: "Require all exclude rules to match",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-path",
			Usage: "Exclude filepaths matching this regex",
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "Directory levels to scan below each path (0 = top only, negative = unlimited)",
			Value: -1,
		},
	}
}

// outputFlags control rendering of song lists.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the song list to this file",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Export format: json, csv, markdown, txt, m3u",
			Value: "json",
		},
	}
}

// writeSongs renders a song list according to the output flags.
func (r *Runner) writeSongs(cmd *cli.Command, title string, songs []models.Song) error {
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteSongExport(title, songs, cmd.String("format"), path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d songs to %s\n", len(songs), written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlain("%s (%d songs):\n\n", title, len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s - %s\n", i+1, song.Artist, song.Title)
		if song.Album != "" {
			r.writePlain("   Album: %s\n", song.Album)
		}
		if song.ID != "" {
			r.writePlain("   ID: %s\n", song.ID)
		}
		if song.Path != "" {
			r.writePlain("   Path: %s\n", song.Path)
		}
	}

	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
