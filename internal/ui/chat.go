package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"sourcebook/internal/api"
	"sourcebook/internal/clipboard"
	"sourcebook/internal/config"
	"sourcebook/internal/highlight"
	"sourcebook/internal/notebook"
)

type chatReplyMsg struct {
	result api.ChatResult
	err    error
}

type chatResetMsg struct {
	newSessionID string
	err          error
}

type chatRenderMsg struct {
	rendered string
	nonce    int
}

type copyMsg struct {
	err error
}

type chatModel struct {
	deps     *deps
	composer textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	search   textinput.Model

	awaiting     bool
	showExcerpts bool
	searchMode   bool
	searchQuery  string
	renderNonce  int
	rendered     string
	matchLines   []int
	matchIndex   int

	width  int
	height int
}

func newChatModel(d *deps) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a question about your sources..."
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	vp := viewport.New(60, 20)
	vp.SetContent("Add a source, then start asking questions.")

	sp := spinner.New()
	sp.Spinner = spinner.Points

	ti := textinput.New()
	ti.Placeholder = "Find in transcript..."
	ti.Prompt = "/ "
	ti.CharLimit = 256

	return chatModel{
		deps:       d,
		composer:   ta,
		viewport:   vp,
		spin:       sp,
		search:     ti,
		matchIndex: -1,
	}
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case chatReplyMsg:
		m.awaiting = false
		if msg.err != nil {
			return m, noticeCmd(errorText(msg.err, "Failed to get response"), true)
		}
		m.deps.store.AppendMessage(notebook.ChatMessage{
			ID:        uuid.NewString(),
			Role:      notebook.RoleAssistant,
			Content:   msg.result.Response,
			Timestamp: clock(),
			Citations: msg.result.Citations,
		})
		return m, m.renderCmd()

	case chatResetMsg:
		// The transcript is cleared no matter what the server said. The
		// server-issued new_session_id is not adopted; later requests keep
		// the session id that owns the sources.
		m.deps.store.ClearMessages()
		cmds := []tea.Cmd{m.renderCmd()}
		if msg.err != nil {
			cmds = append(cmds, noticeCmd(errorText(msg.err, "Failed to reset chat"), true))
		} else {
			cmds = append(cmds, noticeCmd("Chat cleared", false))
		}
		return m, tea.Batch(cmds...)

	case chatRenderMsg:
		if msg.nonce != m.renderNonce {
			return m, nil
		}
		m.rendered = msg.rendered
		m.applyViewportContent(true)
		return m, nil

	case copyMsg:
		if msg.err != nil {
			return m, noticeCmd("Could not copy: "+msg.err.Error(), true)
		}
		return m, noticeCmd("Copied last answer to clipboard", false)

	case spinner.TickMsg:
		if !m.awaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if m.searchMode {
		switch msg.String() {
		case "esc":
			m.searchMode = false
			m.searchQuery = ""
			m.search.SetValue("")
			m.search.Blur()
			m.applyViewportContent(false)
			return m, m.composer.Focus()
		case "enter":
			m.jumpToMatch(1)
			return m, nil
		}
		before := strings.TrimSpace(m.search.Value())
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		after := strings.TrimSpace(m.search.Value())
		if after != before {
			m.searchQuery = after
			m.applyViewportContent(false)
		}
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		return m.send()
	case "shift+enter", "alt+enter", "ctrl+j":
		m.composer.InsertString("\n")
		return m, nil
	case "ctrl+f":
		m.searchMode = true
		m.composer.Blur()
		m.search.SetValue(m.searchQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "ctrl+r":
		return m.reset()
	case "ctrl+y":
		return m, m.copyLastAnswer()
	case "ctrl+o":
		m.showExcerpts = !m.showExcerpts
		return m, m.renderCmd()
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// send validates locally before any network call: blank input is ignored
// and a session without sources is rejected with a notification.
func (m chatModel) send() (chatModel, tea.Cmd) {
	query := strings.TrimSpace(m.composer.Value())
	if query == "" || m.awaiting {
		return m, nil
	}
	if m.deps.store.SourceCount() == 0 {
		return m, noticeCmd("Please add at least one source first", true)
	}

	m.deps.store.AppendMessage(notebook.ChatMessage{
		ID:        uuid.NewString(),
		Role:      notebook.RoleUser,
		Content:   query,
		Timestamp: clock(),
	})
	m.composer.SetValue("")
	m.awaiting = true

	client := m.deps.client
	sessionID := m.deps.store.SessionID()
	chatCall := func() tea.Msg {
		result, err := client.Chat(context.Background(), query, sessionID)
		return chatReplyMsg{result: result, err: err}
	}
	return m, tea.Batch(m.renderCmd(), m.spin.Tick, chatCall)
}

func (m chatModel) reset() (chatModel, tea.Cmd) {
	client := m.deps.client
	sessionID := m.deps.store.SessionID()
	return m, func() tea.Msg {
		newID, err := client.ResetChat(context.Background(), sessionID)
		return chatResetMsg{newSessionID: newID, err: err}
	}
}

func (m chatModel) copyLastAnswer() tea.Cmd {
	msgs := m.deps.store.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == notebook.RoleAssistant {
			content := msgs[i].Content
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				return copyMsg{err: clipboard.Copy(ctx, content)}
			}
		}
	}
	return noticeCmd("No assistant reply to copy yet", true)
}

// renderCmd rebuilds the transcript markdown and renders it through glamour
// off the update loop. The nonce discards stale renders.
func (m *chatModel) renderCmd() tea.Cmd {
	m.renderNonce++
	nonce := m.renderNonce
	md := buildChatMarkdown(m.deps.store.Messages(), m.showExcerpts)
	wrap := m.viewport.Width - 2
	if wrap < 20 {
		wrap = 20
	}

	return func() tea.Msg {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(config.DefaultGlamourStyle),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return chatRenderMsg{rendered: md, nonce: nonce}
		}
		out, err := r.Render(md)
		if err != nil {
			return chatRenderMsg{rendered: md, nonce: nonce}
		}
		return chatRenderMsg{rendered: out, nonce: nonce}
	}
}

// applyViewportContent pushes the cached render into the viewport, applying
// search highlighting when a query is active. The transcript auto-scrolls
// to the newest message unless the user is mid-search.
func (m *chatModel) applyViewportContent(gotoBottom bool) {
	content := m.rendered
	if content == "" {
		if m.deps.store.MessageCount() == 0 {
			m.viewport.SetContent("Add a source, then start asking questions.")
		}
		return
	}

	query := strings.TrimSpace(m.searchQuery)
	if query != "" {
		res := highlight.Find(content, query, func(s string) string {
			return searchMatchStyle.Render(s)
		})
		content = res.Text
		m.matchLines = res.Lines
		if m.matchIndex < 0 || m.matchIndex >= len(m.matchLines) {
			m.matchIndex = -1
		}
	} else {
		m.matchLines = nil
		m.matchIndex = -1
	}

	m.viewport.SetContent(content)
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func (m *chatModel) jumpToMatch(delta int) {
	if len(m.matchLines) == 0 {
		return
	}
	if m.matchIndex < 0 {
		m.matchIndex = 0
	} else {
		m.matchIndex = (m.matchIndex + delta + len(m.matchLines)) % len(m.matchLines)
	}
	offset := m.matchLines[m.matchIndex]
	max := m.viewport.TotalLineCount() - m.viewport.Height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	m.viewport.SetYOffset(offset)
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height

	composerHeight := 5
	m.viewport.Width = width - 4
	m.viewport.Height = height - composerHeight - 4
	m.composer.SetWidth(width - 6)
}

func (m chatModel) view() string {
	transcript := panelStyle(false).
		Width(m.width - 2).
		Height(m.viewport.Height + 2).
		Render(m.viewport.View())

	var footer string
	switch {
	case m.searchMode:
		status := m.search.View()
		if len(m.matchLines) > 0 {
			status += fmt.Sprintf("  %d matching lines", len(m.matchLines))
		} else if strings.TrimSpace(m.searchQuery) != "" {
			status += "  no matches"
		}
		footer = panelStyle(true).Width(m.width - 2).Render(status)
	case m.awaiting:
		footer = panelStyle(true).Width(m.width - 2).Render(m.spin.View() + " Thinking...")
	default:
		footer = panelStyle(true).Width(m.width - 2).Render(m.composer.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, transcript, footer)
}

// buildChatMarkdown lays the transcript out as markdown for glamour. Each
// assistant message lists its citation pills; excerpts expand under them
// when enabled.
func buildChatMarkdown(msgs []notebook.ChatMessage, showExcerpts bool) string {
	if len(msgs) == 0 {
		return "_No messages yet. Ask a question about your sources._"
	}

	var b strings.Builder
	for _, msg := range msgs {
		switch msg.Role {
		case notebook.RoleUser:
			b.WriteString("## You — " + msg.Timestamp + "\n\n")
		case notebook.RoleAssistant:
			b.WriteString("## Assistant — " + msg.Timestamp + "\n\n")
		}
		b.WriteString(msg.Content + "\n\n")

		if len(msg.Citations) > 0 {
			pills := make([]string, 0, len(msg.Citations))
			for _, c := range msg.Citations {
				pills = append(pills, "`["+c.Reference+"] "+c.SourceFile+"`")
			}
			b.WriteString("Sources: " + strings.Join(pills, " ") + "\n\n")

			if showExcerpts {
				for _, c := range msg.Citations {
					ref := "[" + c.Reference + "] " + c.SourceFile
					if c.PageNumber > 0 {
						ref += fmt.Sprintf(" p.%d", c.PageNumber)
					}
					b.WriteString("> " + ref + ": " + excerpt(c.Content, 240) + "\n")
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func clock() string {
	return time.Now().Format("15:04:05")
}
