// API service for making raw HTTP requests to the locker server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
)

const defaultLockerBaseURL = "http://localhost:8080"

// LockerAPI provides methods for making raw HTTP requests to the locker
// server. The scope services build their endpoints on top of it.
type LockerAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewLockerAPI creates a new raw client for the locker server.
func NewLockerAPI(baseURL string, client *http.Client) *LockerAPI {
	if baseURL == "" {
		baseURL = defaultLockerBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LockerAPI{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// BaseURL returns the server address the client targets.
func (a *LockerAPI) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *LockerAPI) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, "", nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *LockerAPI) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data))
}

// PostRaw performs a POST request with an arbitrary content type, used for
// audio uploads.
func (a *LockerAPI) PostRaw(ctx context.Context, path, contentType string, body io.Reader) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, contentType, body)
}

func (a *LockerAPI) do(ctx context.Context, method, path, contentType string, body io.Reader) (*APIResponse, error) {
	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// SuggestedFilename extracts the filename from a Content-Disposition header,
// falling back to the final path segment of the request when absent.
func SuggestedFilename(resp *APIResponse, requestPath string) string {
	if name := filenameFromDisposition(resp.Headers.Get("Content-Disposition")); name != "" {
		return name
	}

	return filepath.Base(requestPath)
}

func filenameFromDisposition(disposition string) string {
	if disposition == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		return params["filename"]
	}

	return ""
}
