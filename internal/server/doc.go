// Package server hosts the temporary HTTP listener backing the manager
// OAuth2 login flow.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Callback Server
//
// When the user runs `mlx auth login --service manager --browser`, a
// [CallbackServer] starts on the redirect URI's address, handles the
// callback, and shuts down after delivering the token to the CLI.
package server
