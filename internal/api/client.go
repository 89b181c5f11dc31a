package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sourcebook/internal/notebook"
)

const jsonContentType = "application/json"

// APIError carries the HTTP status and server-supplied message of a failed
// request. The message falls back to a generic one when the error body has
// neither a detail nor a message field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: status code %d, message %s", e.Status, e.Message)
}

// ChatResult is the assistant reply to one query plus the ordered citations
// backing it.
type ChatResult struct {
	Response  string
	Citations []notebook.Citation
}

// Client is a stateless wrapper over the notebook backend's REST endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// UploadFile sends one local file for ingestion and returns the created
// Source.
func (c *Client) UploadFile(ctx context.Context, path string, sessionID string) (notebook.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return notebook.Source{}, fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return notebook.Source{}, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return notebook.Source{}, fmt.Errorf("read upload file: %w", err)
	}
	if err := mw.WriteField("session_id", sessionID); err != nil {
		return notebook.Source{}, fmt.Errorf("build multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return notebook.Source{}, fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return notebook.Source{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	if err := c.send(req, &out); err != nil {
		return notebook.Source{}, err
	}
	return out.Source.toDomain(), nil
}

// ScrapeURLs submits a list of web page URLs and returns the Sources created
// from the ones the backend could fetch.
func (c *Client) ScrapeURLs(ctx context.Context, urls []string, sessionID string) ([]notebook.Source, error) {
	var out scrapeResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/scrape", sessionQuery(sessionID), scrapeRequest{URLs: urls}, &out)
	if err != nil {
		return nil, err
	}
	sources := make([]notebook.Source, 0, len(out.Sources))
	for _, p := range out.Sources {
		sources = append(sources, p.toDomain())
	}
	return sources, nil
}

// ProcessYouTube submits a YouTube URL for transcript ingestion.
func (c *Client) ProcessYouTube(ctx context.Context, videoURL string, sessionID string) (notebook.Source, error) {
	var out uploadResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/youtube", sessionQuery(sessionID), youtubeRequest{URL: videoURL}, &out)
	if err != nil {
		return notebook.Source{}, err
	}
	return out.Source.toDomain(), nil
}

// ProcessText submits pasted text for ingestion.
func (c *Client) ProcessText(ctx context.Context, content string, sessionID string) (notebook.Source, error) {
	var out uploadResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/text", sessionQuery(sessionID), textRequest{Content: content}, &out)
	if err != nil {
		return notebook.Source{}, err
	}
	return out.Source.toDomain(), nil
}

// GetSources lists every source the backend holds for the session.
func (c *Client) GetSources(ctx context.Context, sessionID string) ([]notebook.Source, error) {
	var out sourcesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/sources", sessionQuery(sessionID), nil, &out); err != nil {
		return nil, err
	}
	sources := make([]notebook.Source, 0, len(out.Sources))
	for _, p := range out.Sources {
		sources = append(sources, p.toDomain())
	}
	return sources, nil
}

// DeleteSource removes one source by name.
func (c *Client) DeleteSource(ctx context.Context, name string, sessionID string) error {
	path := "/api/sources/" + url.PathEscape(name)
	var out deleteResponse
	return c.doJSON(ctx, http.MethodDelete, path, sessionQuery(sessionID), nil, &out)
}

// Chat sends one user query and returns the assistant reply with its
// citations in server order.
func (c *Client) Chat(ctx context.Context, query string, sessionID string) (ChatResult, error) {
	var out chatResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/chat", nil, chatRequest{Query: query, SessionID: sessionID}, &out)
	if err != nil {
		return ChatResult{}, err
	}
	citations := make([]notebook.Citation, 0, len(out.SourcesUsed))
	for _, p := range out.SourcesUsed {
		citations = append(citations, p.toDomain())
	}
	return ChatResult{Response: out.Response, Citations: citations}, nil
}

// ResetChat clears the server-side conversation and returns the session id
// the server issued in response.
func (c *Client) ResetChat(ctx context.Context, sessionID string) (string, error) {
	var out resetResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/chat/reset", nil, resetRequest{SessionID: sessionID}, &out)
	if err != nil {
		return "", err
	}
	return out.NewSessionID, nil
}

// GeneratePodcast asks the backend to synthesize a two-speaker podcast from
// one source. The call is synchronous; it returns only once the script (and
// audio, when TTS is available) is complete.
func (c *Client) GeneratePodcast(ctx context.Context, sourceName string, style notebook.PodcastStyle, duration string, sessionID string) (notebook.Podcast, error) {
	body := podcastRequest{SourceName: sourceName, Style: string(style), Duration: duration}
	var out podcastResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/podcast/generate", sessionQuery(sessionID), body, &out); err != nil {
		return notebook.Podcast{}, err
	}

	p := notebook.Podcast{
		ID:                out.ID,
		TotalLines:        out.TotalLines,
		EstimatedDuration: out.EstimatedDuration,
		Script:            notebook.NormalizeScript(out.Script),
		SourceName:        out.SourceName,
		Style:             notebook.PodcastStyle(out.Style),
		CreatedAt:         time.Now().Format("2006-01-02 15:04:05"),
	}
	if out.AudioURL != "" {
		p.AudioURL = c.GetPodcastAudioURL(sessionID)
	}
	return p, nil
}

// GetPodcastAudioURL returns the audio resource locator for a session. It
// performs no network call and never fails.
func (c *Client) GetPodcastAudioURL(sessionID string) string {
	return c.baseURL + "/api/podcast/audio/" + url.PathEscape(sessionID)
}

// DownloadPodcastAudio streams the generated audio resource into dest.
func (c *Client) DownloadPodcastAudio(ctx context.Context, sessionID string, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GetPodcastAudioURL(sessionID), nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to fetch podcast audio", "error", err)
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return decodeAPIError(res.StatusCode, body)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, res.Body); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

// HealthCheck probes backend liveness.
func (c *Client) HealthCheck(ctx context.Context) (string, error) {
	var out healthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func sessionQuery(sessionID string) url.Values {
	return url.Values{"session_id": []string{sessionID}}
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		slog.Error("Failed to build request", "method", method, "path", path, "error", err)
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	req.Header.Set("Accept", jsonContentType)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to send request", "method", req.Method, "url", req.URL.Path, "error", err)
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error("Failed to read response body", "error", err)
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := decodeAPIError(res.StatusCode, raw)
		slog.Error("Request rejected", "method", req.Method, "url", req.URL.Path, "status", res.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Error("Failed to unmarshal response body", "error", err)
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var payload errorResponse
	message := "Request failed"
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			message = payload.Detail
		case payload.Message != "":
			message = payload.Message
		}
	}
	return &APIError{Status: status, Message: message}
}
