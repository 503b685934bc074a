// Manager scope implementation of [Service]
//
// Holds the upload/download half of the locker API. Authenticates with
// OAuth2 and persists its token so later runs skip the browser flow.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/oauth2"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

const defaultTranscodeQuality = "320k"

// songIDRe recovers the song ID embedded in an already-exists rejection
// reason, e.g. "ALREADY_EXISTS(d94d4b92-...)".
var songIDRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// uploadResponse is the locker's reply to a song upload.
type uploadResponse struct {
	Status string `json:"status"`
	SongID string `json:"song_id"`
	Reason string `json:"reason"`
}

type songList struct {
	Songs []models.Song `json:"songs"`
}

// ManagerService implements the Service interface for the locker's manager
// scope. Uses [oauth2] for authentication and provides upload and download
// operations.
type ManagerService struct {
	baseURL    string
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	tokenPath  string
	uploaderID string
}

// NewManagerService creates a manager service with the given OAuth2
// credentials. Requires client_id and client_secret; redirect_uri,
// token_path, and uploader_id are optional.
func NewManagerService(baseURL string, credentials map[string]string) (*ManagerService, error) {
	if baseURL == "" {
		baseURL = defaultLockerBaseURL
	}

	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"locker.read", "locker.write"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  baseURL + "/oauth/authorize",
			TokenURL: baseURL + "/oauth/token",
		},
	}

	return &ManagerService{
		baseURL:    baseURL,
		config:     config,
		httpClient: http.DefaultClient,
		tokenPath:  credentials["token_path"],
		uploaderID: credentials["uploader_id"],
	}, nil
}

// Login authenticates the manager scope. Accepts an "access_token" or
// "auth_code" in credentials, otherwise falls back to the persisted token.
func (s *ManagerService) Login(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.setToken(ctx, &oauth2.Token{AccessToken: accessToken})
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}

		s.setToken(ctx, token)

		if s.tokenPath != "" {
			if err := saveToken(s.tokenPath, token); err != nil {
				return err
			}
		}

		return nil
	}

	if s.tokenPath != "" {
		token, err := loadToken(s.tokenPath)
		if err == nil {
			s.setToken(ctx, token)
			return nil
		}
	}

	return fmt.Errorf("%w: access_token, auth_code, or a persisted token", shared.ErrMissingCredentials)
}

// Logout clears the session and removes the persisted token.
func (s *ManagerService) Logout(ctx context.Context) error {
	s.token = nil
	s.httpClient = http.DefaultClient

	if s.tokenPath != "" {
		if err := os.Remove(s.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing token file: %w", err)
		}
	}

	return nil
}

// IsAuthenticated reports whether the service holds a usable token.
func (s *ManagerService) IsAuthenticated() bool {
	return s.token != nil && (s.token.Valid() || s.token.RefreshToken != "")
}

func (s *ManagerService) Name() string {
	return "Manager"
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *ManagerService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig returns the OAuth2 configuration backing the browser login flow.
func (s *ManagerService) OAuthConfig() *oauth2.Config {
	return s.config
}

// Authorize installs a token obtained out of band, persisting it when a token
// path is configured.
func (s *ManagerService) Authorize(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: token cannot be nil", shared.ErrInvalidArgument)
	}

	s.setToken(ctx, token)

	if s.tokenPath != "" {
		return saveToken(s.tokenPath, token)
	}

	return nil
}

func (s *ManagerService) setToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
}

// doRequest performs an authenticated HTTP request against the locker.
func (s *ManagerService) doRequest(ctx context.Context, method, endpoint, contentType string, body io.Reader, result any) (*http.Response, error) {
	if s.token == nil {
		return nil, fmt.Errorf("%w: call Login first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.uploaderID != "" {
		req.Header.Set("X-Uploader-ID", s.uploaderID)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if result == nil {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp, nil
}

// Songs retrieves the full library, both uploaded and purchased songs.
func (s *ManagerService) Songs(ctx context.Context) ([]models.Song, error) {
	return s.LibrarySongs(ctx, true, true)
}

// LibrarySongs retrieves library songs, selecting uploaded and/or purchased
// songs. At least one selector must be true.
func (s *ManagerService) LibrarySongs(ctx context.Context, uploaded, purchased bool) ([]models.Song, error) {
	if !uploaded && !purchased {
		return nil, fmt.Errorf("%w: at least one of uploaded or purchased must be selected", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/manager/songs?uploaded=%t&purchased=%t", uploaded, purchased)

	var response songList
	if _, err := s.doRequest(ctx, http.MethodGet, endpoint, "", nil, &response); err != nil {
		return nil, err
	}

	return response.Songs, nil
}

// Upload sends one audio file to the locker and classifies the outcome.
// Rejections are reported in the result rather than as errors; only
// transport and local file failures error.
func (s *ManagerService) Upload(ctx context.Context, path string, opts UploadOptions) (*UploadResult, error) {
	data, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidSongFile, err)
	}

	if opts.TranscodeQuality == "" {
		opts.TranscodeQuality = defaultTranscodeQuality
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("enable_matching", fmt.Sprintf("%t", opts.EnableMatching)); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	if err := writer.WriteField("transcode_quality", opts.TranscodeQuality); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}

	part, err := writer.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}

	resp, err := s.doRequest(ctx, http.MethodPost, "/manager/songs", writer.FormDataContentType(), &buf, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Rejections come back as 4xx with a JSON status body; 5xx means the
	// locker itself failed and the body is not upload JSON.
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: upload failed with status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var response uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: upload failed with status %d", shared.ErrAPIRequest, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &UploadResult{Path: path, SongID: response.SongID, Reason: response.Reason}

	switch response.Status {
	case "uploaded":
		result.Status = StatusUploaded
	case "matched":
		result.Status = StatusMatched
	case "rejected":
		if id := songIDRe.FindString(response.Reason); id != "" {
			result.Status = StatusAlreadyExists
			result.SongID = id
		} else {
			result.Status = StatusNotUploaded
		}
	default:
		return nil, fmt.Errorf("%w: unexpected upload status %q", shared.ErrUploadRejected, response.Status)
	}

	return result, nil
}

// Download fetches a song's audio by ID, returning the server-suggested
// filename alongside the bytes.
func (s *ManagerService) Download(ctx context.Context, songID string) (string, []byte, error) {
	endpoint := fmt.Sprintf("/manager/songs/%s/download", url.PathEscape(songID))

	resp, err := s.doRequest(ctx, http.MethodGet, endpoint, "", nil, nil)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil, fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read response: %w", err)
	}

	suggested := songID + ".mp3"
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if name := filenameFromDisposition(disposition); name != "" {
			suggested = name
		}
	}

	return suggested, data, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: malformed token file: %v", shared.ErrInvalidCredentials, err)
	}

	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	return nil
}
