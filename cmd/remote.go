package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
)

// RemoteSongs lists songs held by the locker, applying the metadata filter
// client side.
func (r *Runner) RemoteSongs(ctx context.Context, cmd *cli.Command) error {
	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	var songs []models.Song

	switch service := cmd.String("service"); service {
	case "manager":
		if r.manager == nil {
			return fmt.Errorf("%w: manager credentials not configured", shared.ErrServiceUnavailable)
		}

		uploaded := cmd.Bool("uploaded")
		purchased := cmd.Bool("purchased")
		if !uploaded && !purchased {
			uploaded, purchased = true, true
		}

		r.logger.Info("fetching locker songs", "service", service, "uploaded", uploaded, "purchased", purchased)
		if songs, err = r.manager.LibrarySongs(ctx, uploaded, purchased); err != nil {
			return err
		}
	case "mobile":
		if r.mobile == nil {
			return fmt.Errorf("%w: mobile service not initialized", shared.ErrServiceUnavailable)
		}

		r.logger.Info("fetching locker songs", "service", service)
		if songs, err = r.mobile.Songs(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown service '%s' (must be 'manager' or 'mobile')", shared.ErrInvalidArgument, service)
	}

	matched, filtered := library.Partition(songs, opts.Filter)
	if len(filtered) > 0 {
		r.writePlain("Filtered out %d songs\n\n", len(filtered))
	}

	return r.writeSongs(cmd, "Locker songs", matched)
}

// RemotePlaylists lists the locker's playlists through the mobile scope.
func (r *Runner) RemotePlaylists(ctx context.Context, cmd *cli.Command) error {
	if r.mobile == nil {
		return fmt.Errorf("%w: mobile service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("fetching locker playlists")

	playlists, err := r.mobile.Playlists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Songs: %d\n", len(p.Entries))
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// RemotePlaylist lists the songs of a single locker playlist, looked up by
// name or ID. A missing playlist is reported as a warning, not an error.
func (r *Runner) RemotePlaylist(ctx context.Context, cmd *cli.Command) error {
	nameOrID := cmd.StringArg("playlist")
	if nameOrID == "" {
		return missingArgument("playlist")
	}

	if r.mobile == nil {
		return fmt.Errorf("%w: mobile service not initialized", shared.ErrServiceUnavailable)
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("fetching playlist songs", "playlist", nameOrID)

	songs, err := r.mobile.PlaylistSongs(ctx, nameOrID)
	if err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			r.logger.Warn("playlist not found", "playlist", nameOrID)
			return r.writeSongs(cmd, "Playlist songs", nil)
		}
		return err
	}

	matched, filtered := library.Partition(songs, opts.Filter)
	if len(filtered) > 0 {
		r.writePlain("Filtered out %d songs\n\n", len(filtered))
	}

	return r.writeSongs(cmd, "Playlist songs", matched)
}

// remoteCommand handles browsing the locker's library
func remoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Browse the locker library",
		Commands: []*cli.Command{
			{
				Name:  "songs",
				Usage: "List songs held by the locker",
				Flags: append(append(scanFlags(), outputFlags()...),
					&cli.StringFlag{
						Name:    "service",
						Aliases: []string{"s"},
						Usage:   "Locker scope: manager or mobile",
						Value:   "manager",
					},
					&cli.BoolFlag{
						Name:  "uploaded",
						Usage: "Include uploaded songs (manager scope)",
					},
					&cli.BoolFlag{
						Name:  "purchased",
						Usage: "Include purchased songs (manager scope)",
					},
				),
				Action: r.RemoteSongs,
			},
			{
				Name:  "playlists",
				Usage: "List locker playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.RemotePlaylists,
			},
			{
				Name:  "playlist",
				Usage: "List the songs of a locker playlist by name or ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags:  append(scanFlags(), outputFlags()...),
				Action: r.RemotePlaylist,
			},
		},
	}
}
