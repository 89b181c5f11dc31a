package api

import "sourcebook/internal/notebook"

// Wire payloads use the backend's snake_case field names; callers only ever
// see the notebook domain types.

type sourcePayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       string `json:"size"`
	Chunks     int    `json:"chunks"`
	UploadedAt string `json:"uploaded_at"`
	URL        string `json:"url,omitempty"`
	VideoID    string `json:"video_id,omitempty"`
}

func (p sourcePayload) toDomain() notebook.Source {
	return notebook.Source{
		ID:         p.ID,
		Name:       p.Name,
		Type:       notebook.SourceType(p.Type),
		Size:       p.Size,
		Chunks:     p.Chunks,
		UploadedAt: p.UploadedAt,
		URL:        p.URL,
		VideoID:    p.VideoID,
	}
}

type citationPayload struct {
	Reference  string `json:"reference"`
	SourceFile string `json:"source_file"`
	PageNumber *int   `json:"page_number,omitempty"`
	ChunkID    string `json:"chunk_id"`
	Content    string `json:"content"`
}

func (p citationPayload) toDomain() notebook.Citation {
	c := notebook.Citation{
		Reference:  p.Reference,
		SourceFile: p.SourceFile,
		ChunkID:    p.ChunkID,
		Content:    p.Content,
	}
	if p.PageNumber != nil {
		c.PageNumber = *p.PageNumber
	}
	return c
}

type scrapeRequest struct {
	URLs []string `json:"urls"`
}

type youtubeRequest struct {
	URL string `json:"url"`
}

type textRequest struct {
	Content string `json:"content"`
}

type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

type podcastRequest struct {
	SourceName string `json:"source_name"`
	Style      string `json:"style"`
	Duration   string `json:"duration"`
}

type uploadResponse struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"session_id"`
	Source    sourcePayload `json:"source"`
}

type scrapeResponse struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"session_id"`
	Sources   []sourcePayload `json:"sources"`
}

type sourcesResponse struct {
	Sources []sourcePayload `json:"sources"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response    string            `json:"response"`
	SourcesUsed []citationPayload `json:"sources_used"`
}

type resetResponse struct {
	Success      bool   `json:"success"`
	NewSessionID string `json:"new_session_id"`
}

type podcastResponse struct {
	ID                string              `json:"id"`
	TotalLines        int                 `json:"total_lines"`
	EstimatedDuration string              `json:"estimated_duration"`
	Script            []map[string]string `json:"script"`
	AudioURL          string              `json:"audio_url,omitempty"`
	SourceName        string              `json:"source_name"`
	Style             string              `json:"style"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}
