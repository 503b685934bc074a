package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CallbackServer runs a short-lived HTTP server that serves a single OAuth
// callback and then shuts down.
type CallbackServer struct {
	handler *OAuthHandler
	server  *http.Server
	errs    chan error
}

// NewCallbackServer creates a callback server listening at the address of
// redirectURI, routing its path to handler.
func NewCallbackServer(redirectURI string, handler *OAuthHandler) (*CallbackServer, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	return &CallbackServer{
		handler: handler,
		server:  &http.Server{Addr: parsed.Host, Handler: mux},
		errs:    make(chan error, 1),
	}, nil
}

// Start begins serving in a background goroutine.
func (s *CallbackServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
}

// Wait blocks until the callback fires, the server fails, or the timeout
// elapses.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (OAuthResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.handler.Result():
		return result, nil
	case err := <-s.errs:
		return OAuthResult{}, fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return OAuthResult{}, fmt.Errorf("authorization timed out after %s", timeout)
	case <-ctx.Done():
		return OAuthResult{}, ctx.Err()
	}
}

// Shutdown gracefully stops the server.
func (s *CallbackServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
