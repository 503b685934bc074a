package main

import (
	"context"
	"errors"
	"os"

	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var managerService *services.ManagerService
	if config.Credentials.Manager.ClientID != "" && config.Credentials.Manager.ClientSecret != "" {
		if svc, err := services.NewManagerService(config.Locker.BaseURL, map[string]string{
			"client_id":     config.Credentials.Manager.ClientID,
			"client_secret": config.Credentials.Manager.ClientSecret,
			"redirect_uri":  config.Credentials.Manager.RedirectURI,
			"token_path":    config.Credentials.Manager.TokenPath,
			"uploader_id":   config.Credentials.Manager.UploaderID,
		}); err == nil {
			managerService = svc
		}
	}

	mobileService := services.NewMobileService(config.Locker.BaseURL, nil)
	lockerAPI := services.NewLockerAPI(config.Locker.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Manager:    managerService,
		Mobile:     mobileService,
		API:        lockerAPI,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "mlx",
		Usage:    "Manage and sync a cloud music locker library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatalf("not logged in: %v (run 'mlx auth login' first)", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
