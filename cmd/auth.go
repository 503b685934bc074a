package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mlocker/mlx/internal/server"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin authenticates against the locker.
//
// The manager scope accepts an access token, an authorization code, a full
// browser OAuth2 flow, or falls back to a previously persisted token. The
// mobile scope logs in with the configured username and device ID.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	switch service := cmd.String("service"); service {
	case "manager":
		return r.loginManager(ctx, cmd)
	case "mobile":
		return r.loginMobile(ctx)
	default:
		return fmt.Errorf("%w: unknown service '%s' (must be 'manager' or 'mobile')", shared.ErrInvalidArgument, service)
	}
}

func (r *Runner) loginManager(ctx context.Context, cmd *cli.Command) error {
	if r.manager == nil {
		return fmt.Errorf("%w: manager credentials not configured", shared.ErrServiceUnavailable)
	}

	if cmd.Bool("browser") {
		token, err := r.doOAuth(ctx)
		if err != nil {
			return err
		}
		if err := r.manager.Authorize(ctx, token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		r.writePlainln("✓ Authorization successful")
		if r.config.Credentials.Manager.TokenPath != "" {
			r.writePlain("✓ Token saved to %s\n", r.config.Credentials.Manager.TokenPath)
		}
		return nil
	}

	credentials := map[string]string{
		"access_token": cmd.String("access-token"),
		"auth_code":    cmd.String("auth-code"),
	}

	if err := r.manager.Login(ctx, credentials); err != nil {
		return err
	}

	r.writePlain("✓ Manager scope authenticated\n")
	return nil
}

func (r *Runner) loginMobile(ctx context.Context) error {
	if r.mobile == nil {
		return fmt.Errorf("%w: mobile service not initialized", shared.ErrServiceUnavailable)
	}

	err := r.mobile.Login(ctx, map[string]string{
		"username":  r.config.Credentials.Mobile.Username,
		"device_id": r.config.Credentials.Mobile.DeviceID,
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Mobile scope authenticated\n")
	if r.mobile.IsSubscribed() {
		r.writePlain("  Subscription: active\n")
	}
	return nil
}

// AuthLogout clears sessions and removes the persisted manager token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.manager != nil {
		if err := r.manager.Logout(ctx); err != nil {
			return err
		}
		r.writePlain("✓ Manager session cleared\n")
	}

	if r.mobile != nil {
		if err := r.mobile.Logout(ctx); err != nil {
			return err
		}
		r.writePlain("✓ Mobile session cleared\n")
	}

	return nil
}

// AuthStatus reports the authentication state of both scopes.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.manager == nil {
		r.writePlain("Manager: not configured\n")
	} else {
		// Load the persisted token, if any, before checking.
		if !r.manager.IsAuthenticated() {
			_ = r.manager.Login(ctx, nil)
		}
		if r.manager.IsAuthenticated() {
			r.writePlain("Manager: ✓ Authenticated\n")
		} else {
			r.writePlain("Manager: ✗ Not authenticated\n")
		}
	}

	if r.mobile == nil {
		r.writePlain("Mobile: not configured\n")
	} else if r.mobile.IsAuthenticated() {
		r.writePlain("Mobile: ✓ Authenticated\n")
	} else {
		r.writePlain("Mobile: ✗ Not authenticated\n")
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local callback server.
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	authURL := r.manager.AuthURL(state)
	handler := server.NewOAuthHandler(r.manager.OAuthConfig(), state)

	callback, err := server.NewCallbackServer(r.config.Credentials.Manager.RedirectURI, handler)
	if err != nil {
		return nil, err
	}

	r.logger.Info("starting OAuth callback server", "redirect_uri", r.config.Credentials.Manager.RedirectURI)
	callback.Start()
	defer func() {
		if err := callback.Shutdown(); err != nil {
			r.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	r.writePlain("→ Opening browser for locker authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	result, err := callback.Wait(ctx, 2*time.Minute)
	if err != nil {
		return nil, err
	}
	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	serviceFlag := &cli.StringFlag{
		Name:    "service",
		Aliases: []string{"s"},
		Usage:   "Locker scope: manager or mobile",
		Value:   "manager",
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage locker authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with the locker",
				Flags: []cli.Flag{
					serviceFlag,
					&cli.StringFlag{
						Name:  "access-token",
						Usage: "Authenticate the manager scope with an existing access token",
					},
					&cli.StringFlag{
						Name:  "auth-code",
						Usage: "Exchange an OAuth2 authorization code",
					},
					&cli.BoolFlag{
						Name:  "browser",
						Usage: "Run the full browser OAuth2 flow",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear sessions and remove persisted tokens",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check authentication state of both scopes",
				Action: r.AuthStatus,
			},
		},
	}
}
