package state

import (
	"github.com/google/uuid"

	"sourcebook/internal/notebook"
)

// Tab identifies the active top-level view.
type Tab int

const (
	TabSources Tab = iota
	TabChat
	TabStudio
)

func (t Tab) String() string {
	switch t {
	case TabSources:
		return "Sources"
	case TabChat:
		return "Chat"
	case TabStudio:
		return "Studio"
	default:
		return "Unknown"
	}
}

// Store is the single in-process holder of session state: the locally
// generated session id, the ingested sources, and the chat transcript. It is
// written from the UI event loop only, so mutations are plain synchronous
// replacements. It never validates against the server; it trusts whatever
// the API client returns.
//
// The session id is generated once and kept for the lifetime of the process.
// A chat reset clears the transcript but deliberately does not adopt the
// server-issued replacement id; subsequent requests keep using the original.
type Store struct {
	sessionID string
	sources   []notebook.Source
	messages  []notebook.ChatMessage
	activeTab Tab
}

func NewStore() *Store {
	return &Store{
		sessionID: uuid.NewString(),
		activeTab: TabSources,
	}
}

func (s *Store) SessionID() string { return s.sessionID }

func (s *Store) ActiveTab() Tab       { return s.activeTab }
func (s *Store) SetActiveTab(tab Tab) { s.activeTab = tab }

// Sources returns a snapshot copy of the current source list.
func (s *Store) Sources() []notebook.Source {
	out := make([]notebook.Source, len(s.sources))
	copy(out, s.sources)
	return out
}

func (s *Store) SourceCount() int { return len(s.sources) }

// AddSources appends newly created sources, preserving server order.
func (s *Store) AddSources(sources ...notebook.Source) {
	next := make([]notebook.Source, 0, len(s.sources)+len(sources))
	next = append(next, s.sources...)
	next = append(next, sources...)
	s.sources = next
}

// RemoveSource drops exactly the source with the given id. Unknown ids are
// a no-op.
func (s *Store) RemoveSource(id string) {
	next := make([]notebook.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if src.ID != id {
			next = append(next, src)
		}
	}
	s.sources = next
}

// SetSources replaces the whole source list with the server's view.
func (s *Store) SetSources(sources []notebook.Source) {
	next := make([]notebook.Source, len(sources))
	copy(next, sources)
	s.sources = next
}

// Messages returns a snapshot copy of the transcript.
func (s *Store) Messages() []notebook.ChatMessage {
	out := make([]notebook.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) MessageCount() int { return len(s.messages) }

// AppendMessage adds one transcript entry. The transcript is append-only
// until cleared in full.
func (s *Store) AppendMessage(msg notebook.ChatMessage) {
	next := make([]notebook.ChatMessage, 0, len(s.messages)+1)
	next = append(next, s.messages...)
	next = append(next, msg)
	s.messages = next
}

// ClearMessages empties the transcript.
func (s *Store) ClearMessages() {
	s.messages = nil
}
