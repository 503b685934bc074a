package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the locker
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if cmd.Bool("save") {
		name := services.SuggestedFilename(resp, path)
		if err := os.WriteFile(name, resp.Body, 0644); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		return r.writePlain("✓ Saved %s (%d bytes)\n", name, len(resp.Body))
	}

	if useJSON {
		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, false)
		}
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct POST request to the locker
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")
	file := cmd.String("file")

	if data == "" && file == "" {
		return fmt.Errorf("%w: one of --data or --file is required", shared.ErrMissingArgument)
	}
	if data != "" && file != "" {
		return fmt.Errorf("%w: --data and --file are mutually exclusive", shared.ErrInvalidArgument)
	}

	r.logger.Info("POST request", "path", path)

	var resp *services.APIResponse
	var err error

	if file != "" {
		body, readErr := shared.VerifyAndReadFile(file)
		if readErr != nil {
			return readErr
		}
		resp, err = r.api.PostRaw(ctx, path, cmd.String("content-type"), bytes.NewReader(body))
	} else {
		if err := shared.ValidateJSON([]byte(data)); err != nil {
			return err
		}
		resp, err = r.api.Post(ctx, path, []byte(data))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// apiCommand handles direct calls against the locker's HTTP surface
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the locker",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the locker, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save the response body to a file named by the server",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with a JSON body or a raw file",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "File whose contents are posted verbatim",
					},
					&cli.StringFlag{
						Name:  "content-type",
						Usage: "Content type for --file uploads",
						Value: "application/octet-stream",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
