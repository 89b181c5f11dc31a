package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcebook/internal/notebook"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestChat_MapsCitationsInOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is this about?", req["query"])
		assert.Equal(t, "session-1", req["session_id"])

		page := 3
		json.NewEncoder(w).Encode(chatResponse{
			Response: "It covers two topics.",
			SourcesUsed: []citationPayload{
				{Reference: "1", SourceFile: "a.pdf", PageNumber: &page, ChunkID: "c1", Content: "first"},
				{Reference: "2", SourceFile: "b.txt", ChunkID: "c2", Content: "second"},
			},
		})
	})

	result, err := client.Chat(context.Background(), "what is this about?", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "It covers two topics.", result.Response)
	require.Len(t, result.Citations, 2)
	assert.Equal(t, "1", result.Citations[0].Reference)
	assert.Equal(t, 3, result.Citations[0].PageNumber)
	assert.Equal(t, "2", result.Citations[1].Reference)
	assert.Equal(t, 0, result.Citations[1].PageNumber)
}

func TestAPIError_UsesDetailThenMessageThenFallback(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"File type not supported"}`, "File type not supported"},
		{"message", `{"message":"boom"}`, "boom"},
		{"fallback", `not json`, "Request failed"},
		{"empty", `{}`, "Request failed"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(c.body))
			})

			_, err := client.Chat(context.Background(), "q", "s")
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, c.want, apiErr.Message)
		})
	}
}

func TestScrapeURLs_SendsListAndSessionQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/scrape", r.URL.Path)
		assert.Equal(t, "session-9", r.URL.Query().Get("session_id"))

		var req scrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, req.URLs)

		json.NewEncoder(w).Encode(scrapeResponse{
			Success: true,
			Sources: []sourcePayload{
				{ID: "s1", Name: "a.example", Type: "Website", Chunks: 4},
				{ID: "s2", Name: "b.example", Type: "Website", Chunks: 7},
			},
		})
	})

	sources, err := client.ScrapeURLs(context.Background(), []string{"https://a.example", "https://b.example"}, "session-9")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, notebook.SourceWebsite, sources[0].Type)
	assert.Equal(t, 7, sources[1].Chunks)
}

func TestProcessYouTube_MapsVideoFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/youtube", r.URL.Path)
		json.NewEncoder(w).Encode(uploadResponse{
			Success: true,
			Source: sourcePayload{
				ID:      "yt1",
				Name:    "Some Talk",
				Type:    "YouTube",
				Chunks:  12,
				URL:     "https://youtu.be/abc",
				VideoID: "abc",
			},
		})
	})

	src, err := client.ProcessYouTube(context.Background(), "https://youtu.be/abc", "s")
	require.NoError(t, err)
	assert.Equal(t, notebook.SourceYouTube, src.Type)
	assert.Equal(t, "abc", src.VideoID)
	assert.Equal(t, "https://youtu.be/abc", src.URL)
}

func TestUploadFile_SendsMultipartForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "sess", r.FormValue("session_id"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "notes.txt", header.Filename)

		json.NewEncoder(w).Encode(uploadResponse{
			Success: true,
			Source:  sourcePayload{ID: "u1", Name: "notes.txt", Type: "Document", Size: "11 B", Chunks: 1},
		})
	})

	src, err := client.UploadFile(context.Background(), path, "sess")
	require.NoError(t, err)
	assert.Equal(t, notebook.SourceDocument, src.Type)
	assert.Equal(t, "notes.txt", src.Name)
}

func TestDeleteSource_EscapesNameInPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		require.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode(deleteResponse{Success: true, Message: "deleted"})
	})

	err := client.DeleteSource(context.Background(), "my report.pdf", "s")
	require.NoError(t, err)
	assert.Equal(t, "/api/sources/my%20report.pdf", gotPath)
}

func TestResetChat_ReturnsServerIssuedSessionID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/reset", r.URL.Path)
		json.NewEncoder(w).Encode(resetResponse{Success: true, NewSessionID: "fresh-id"})
	})

	newID, err := client.ResetChat(context.Background(), "stale-id")
	require.NoError(t, err)
	assert.Equal(t, "fresh-id", newID)
}

func TestGeneratePodcast_NormalizesScriptAndAudioURL(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/podcast/generate", r.URL.Path)

		var req podcastRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a.pdf", req.SourceName)
		assert.Equal(t, "debate", req.Style)
		assert.Equal(t, "5 minutes", req.Duration)

		json.NewEncoder(w).Encode(podcastResponse{
			ID:                "pod-123456789",
			TotalLines:        2,
			EstimatedDuration: "5 min",
			Script: []map[string]string{
				{"Speaker 1": "Opening statement."},
				{"Speaker 2": "Rebuttal."},
			},
			AudioURL:   "/api/podcast/audio/sess",
			SourceName: "a.pdf",
			Style:      "debate",
		})
	})

	p, err := client.GeneratePodcast(context.Background(), "a.pdf", notebook.StyleDebate, "5 minutes", "sess")
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalLines)
	require.Len(t, p.Script, 2)
	assert.Equal(t, notebook.ScriptLine{Speaker: "Speaker 1", Text: "Opening statement."}, p.Script[0])
	assert.Equal(t, notebook.ScriptLine{Speaker: "Speaker 2", Text: "Rebuttal."}, p.Script[1])
	assert.Equal(t, srv.URL+"/api/podcast/audio/sess", p.AudioURL)
	assert.NotEmpty(t, p.CreatedAt)
}

func TestGeneratePodcast_NoAudio(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(podcastResponse{
			ID:         "pod-1",
			TotalLines: 1,
			Script:     []map[string]string{{"Speaker 1": "Solo."}},
			SourceName: "a.pdf",
			Style:      "conversational",
		})
	})

	p, err := client.GeneratePodcast(context.Background(), "a.pdf", notebook.StyleConversational, "10 minutes", "sess")
	require.NoError(t, err)
	assert.Empty(t, p.AudioURL)
}

func TestGetPodcastAudioURL_NoNetworkCall(t *testing.T) {
	client := NewClient("http://localhost:8000", time.Second)
	got := client.GetPodcastAudioURL("abc-123")
	assert.Equal(t, "http://localhost:8000/api/podcast/audio/abc-123", got)
}

func TestDownloadPodcastAudio_WritesFile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/podcast/audio/sess", r.URL.Path)
		w.Write([]byte("RIFFfakewav"))
	})

	dest := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, client.DownloadPodcastAudio(context.Background(), "sess", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "RIFFfakewav", string(data))
}

func TestHealthCheck(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(healthResponse{Status: "healthy"})
	})

	status, err := client.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status)
}

func TestGetSources(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sources", r.URL.Path)
		assert.Equal(t, "sess", r.URL.Query().Get("session_id"))
		json.NewEncoder(w).Encode(sourcesResponse{
			Sources: []sourcePayload{
				{ID: "1", Name: "a.pdf", Type: "Document", Chunks: 3, UploadedAt: "2026-08-31 10:00"},
			},
		})
	})

	sources, err := client.GetSources(context.Background(), "sess")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "a.pdf", sources[0].Name)
	assert.Equal(t, "2026-08-31 10:00", sources[0].UploadedAt)
}
