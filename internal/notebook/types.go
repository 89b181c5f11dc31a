package notebook

// SourceType classifies one ingested content unit. It is fixed at creation
// and never changes afterwards.
type SourceType string

const (
	SourceDocument SourceType = "Document"
	SourceWebsite  SourceType = "Website"
	SourceYouTube  SourceType = "YouTube"
	SourceAudio    SourceType = "Audio"
	SourceText     SourceType = "Text"
)

// Source is one ingested content unit usable as chat and podcast grounding
// material. Chunks counts the retrieval units the backend derived; the
// client never sees chunk contents outside of citations.
type Source struct {
	ID         string
	Name       string
	Type       SourceType
	Size       string
	Chunks     int
	UploadedAt string
	URL        string
	VideoID    string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one transcript entry. Citations are present only on
// assistant messages that used retrieval.
type ChatMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp string
	Citations []Citation
}

// Citation is a grounding reference attached to an assistant reply. It has
// no lifecycle of its own; it lives and dies with its parent message.
type Citation struct {
	Reference  string
	SourceFile string
	PageNumber int
	ChunkID    string
	Content    string
}

type PodcastStyle string

const (
	StyleConversational PodcastStyle = "conversational"
	StyleInterview      PodcastStyle = "interview"
	StyleDebate         PodcastStyle = "debate"
	StyleEducational    PodcastStyle = "educational"
)

// Styles lists the accepted podcast styles in display order.
func Styles() []PodcastStyle {
	return []PodcastStyle{StyleConversational, StyleInterview, StyleDebate, StyleEducational}
}

// Durations lists the accepted duration presets in display order.
func Durations() []string {
	return []string{"5 minutes", "10 minutes", "15 minutes", "20 minutes"}
}

const (
	SpeakerOne = "Speaker 1"
	SpeakerTwo = "Speaker 2"
)

// ScriptLine is one line of two-speaker podcast dialogue.
type ScriptLine struct {
	Speaker string
	Text    string
}

// Podcast is one generated artifact. A newly generated podcast replaces any
// previously held one; at most one exists in view state at a time.
type Podcast struct {
	ID                string
	TotalLines        int
	EstimatedDuration string
	Script            []ScriptLine
	AudioURL          string
	SourceName        string
	Style             PodcastStyle
	CreatedAt         string
}
