package main

import (
	"context"

	"github.com/mlocker/mlx/internal/library"
	"github.com/urfave/cli/v3"
)

// LocalSongs scans the local library for supported audio files, reads their
// tags, and applies the metadata filter.
func (r *Runner) LocalSongs(ctx context.Context, cmd *cli.Command) error {
	roots, err := r.scanRoots(cmd)
	if err != nil {
		return err
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("scanning local songs", "paths", roots)

	result, err := library.LoadSongs(r.logger, roots, opts)
	if err != nil {
		return err
	}

	if len(result.Filtered) > 0 || len(result.Excluded) > 0 {
		r.writePlain("Filtered out %d songs, excluded %d paths\n\n", len(result.Filtered), len(result.Excluded))
	}

	return r.writeSongs(cmd, "Local songs", result.Matched)
}

// LocalPlaylists scans the local library for supported playlist files.
func (r *Runner) LocalPlaylists(ctx context.Context, cmd *cli.Command) error {
	roots, err := r.scanRoots(cmd)
	if err != nil {
		return err
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("scanning local playlists", "paths", roots)

	included, excluded, err := library.LoadPlaylists(r.logger, roots, opts)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"playlists": included, "excluded": excluded}, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(included))
	for i, path := range included {
		r.writePlain("%d. %s\n", i+1, path)
	}
	if len(excluded) > 0 {
		r.writePlain("\nExcluded %d paths\n", len(excluded))
	}

	return nil
}

// LocalPlaylist loads the songs referenced by a single playlist file.
func (r *Runner) LocalPlaylist(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return missingArgument("path")
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("reading playlist", "path", path)

	result, err := library.LoadPlaylistSongs(r.logger, path, opts)
	if err != nil {
		return err
	}

	if len(result.Filtered) > 0 {
		r.writePlain("Filtered out %d songs\n\n", len(result.Filtered))
	}

	return r.writeSongs(cmd, "Playlist songs", result.Matched)
}

// localCommand handles scanning the local music library
func localCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "local",
		Usage: "Scan the local music library",
		Commands: []*cli.Command{
			{
				Name:      "songs",
				Usage:     "List local songs with their tags",
				ArgsUsage: "[paths...]",
				Flags:     append(scanFlags(), outputFlags()...),
				Action:    r.LocalSongs,
			},
			{
				Name:      "playlists",
				Usage:     "List local playlist files",
				ArgsUsage: "[paths...]",
				Flags: append(scanFlags(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				),
				Action: r.LocalPlaylists,
			},
			{
				Name:  "playlist",
				Usage: "List the songs referenced by a playlist file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  append(scanFlags(), outputFlags()...),
				Action: r.LocalPlaylist,
			},
		},
	}
}
