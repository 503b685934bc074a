// Mobile scope implementation of [Service]
//
// Holds the listening half of the locker API used for playlist operations.
// Authenticates with a username and registered device ID.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

// mobileSession is the locker's reply to a device login.
type mobileSession struct {
	Token      string `json:"token"`
	Subscribed bool   `json:"subscribed"`
}

type playlistList struct {
	Playlists []models.Playlist `json:"playlists"`
}

// MobileService implements the Service interface for the locker's mobile
// scope. Provides song and playlist listing for the authenticated user.
type MobileService struct {
	api        *LockerAPI
	httpClient *http.Client
	session    *mobileSession
}

// NewMobileService creates a mobile service against the given locker server.
func NewMobileService(baseURL string, client *http.Client) *MobileService {
	if client == nil {
		client = http.DefaultClient
	}

	return &MobileService{
		api:        NewLockerAPI(baseURL, client),
		httpClient: client,
	}
}

// Login authenticates the mobile scope. Requires "username" and "device_id"
// in credentials.
func (s *MobileService) Login(ctx context.Context, credentials map[string]string) error {
	username, ok := credentials["username"]
	if !ok || username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingCredentials)
	}

	deviceID, ok := credentials["device_id"]
	if !ok || deviceID == "" {
		return fmt.Errorf("%w: device_id", shared.ErrMissingCredentials)
	}

	payload, err := json.Marshal(map[string]string{"username": username, "device_id": deviceID})
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	resp, err := s.api.Post(ctx, "/mobile/auth", payload)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: server rejected username or device ID", shared.ErrInvalidCredentials)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var session mobileSession
	if err := json.Unmarshal(resp.Body, &session); err != nil || session.Token == "" {
		return fmt.Errorf("%w: malformed session response", shared.ErrAuthFailed)
	}

	s.session = &session

	return nil
}

// Logout discards the in-memory session.
func (s *MobileService) Logout(ctx context.Context) error {
	s.session = nil
	return nil
}

// IsAuthenticated reports whether the service holds a session token.
func (s *MobileService) IsAuthenticated() bool {
	return s.session != nil && s.session.Token != ""
}

func (s *MobileService) Name() string {
	return "Mobile"
}

// IsSubscribed reports whether the logged-in account has an active
// subscription.
func (s *MobileService) IsSubscribed() bool {
	return s.session != nil && s.session.Subscribed
}

// doRequest performs an authenticated GET against the locker and decodes the
// JSON response into result.
func (s *MobileService) doRequest(ctx context.Context, endpoint string, result any) error {
	if !s.IsAuthenticated() {
		return fmt.Errorf("%w: call Login first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.api.BaseURL()+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.session.Token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: session expired", shared.ErrTokenExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Songs retrieves all songs in the user's library.
func (s *MobileService) Songs(ctx context.Context) ([]models.Song, error) {
	var response songList
	if err := s.doRequest(ctx, "/mobile/songs", &response); err != nil {
		return nil, err
	}

	return response.Songs, nil
}

// Playlists retrieves all playlists for the authenticated user.
func (s *MobileService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var response playlistList
	if err := s.doRequest(ctx, "/mobile/playlists", &response); err != nil {
		return nil, err
	}

	return response.Playlists, nil
}

// Playlist retrieves a playlist by name or ID, returning the first playlist
// whose name or ID matches. Missing playlists return
// [shared.ErrPlaylistNotFound].
func (s *MobileService) Playlist(ctx context.Context, nameOrID string) (*models.Playlist, error) {
	playlists, err := s.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	for _, playlist := range playlists {
		if playlist.Name == nameOrID || playlist.ID == nameOrID {
			return &playlist, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, nameOrID)
}

// PlaylistSongs retrieves the songs of a playlist by name or ID.
func (s *MobileService) PlaylistSongs(ctx context.Context, nameOrID string) ([]models.Song, error) {
	playlist, err := s.Playlist(ctx, nameOrID)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/mobile/playlists/%s/songs", url.PathEscape(playlist.ID))

	var response songList
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Songs, nil
}
