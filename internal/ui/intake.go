package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sourcebook/internal/notebook"
)

type panelKind int

const (
	panelUpload panelKind = iota
	panelURLs
	panelYouTube
	panelText
)

const panelCount = 4

var acceptedUploadExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// intakePanel is one source input surface. All four intake paths share this
// state machine (collapsed, expanded, submitting); only the validation
// predicate and the submit call differ per kind.
type intakePanel struct {
	kind       panelKind
	title      string
	hint       string
	multiline  bool
	expanded   bool
	submitting bool
	input      textinput.Model
	area       textarea.Model
}

func newIntakePanel(kind panelKind, title, hint, placeholder string, multiline bool) intakePanel {
	p := intakePanel{kind: kind, title: title, hint: hint, multiline: multiline}
	if multiline {
		ta := textarea.New()
		ta.Placeholder = placeholder
		ta.SetHeight(4)
		ta.ShowLineNumbers = false
		p.area = ta
	} else {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 2048
		p.input = ti
	}
	return p
}

func (p *intakePanel) value() string {
	if p.multiline {
		return p.area.Value()
	}
	return p.input.Value()
}

func (p *intakePanel) clear() {
	if p.multiline {
		p.area.SetValue("")
	} else {
		p.input.SetValue("")
	}
}

func (p *intakePanel) focusInput() tea.Cmd {
	if p.multiline {
		return p.area.Focus()
	}
	return p.input.Focus()
}

func (p *intakePanel) blurInput() {
	if p.multiline {
		p.area.Blur()
	} else {
		p.input.Blur()
	}
}

type sourceItem struct {
	s notebook.Source
}

func (i sourceItem) Title() string { return i.s.Name }

func (i sourceItem) Description() string {
	parts := []string{string(i.s.Type), fmt.Sprintf("%d chunks", i.s.Chunks)}
	if i.s.Size != "" {
		parts = append(parts, i.s.Size)
	}
	if i.s.UploadedAt != "" {
		parts = append(parts, i.s.UploadedAt)
	}
	return strings.Join(parts, " | ")
}

func (i sourceItem) FilterValue() string {
	return strings.ToLower(i.s.Name + " " + string(i.s.Type))
}

type intakeDoneMsg struct {
	panel   panelKind
	sources []notebook.Source
	err     error
}

type sourcesLoadedMsg struct {
	sources []notebook.Source
	err     error
}

type sourceDeletedMsg struct {
	id   string
	name string
	err  error
}

type sourcesModel struct {
	deps   *deps
	panels []intakePanel
	focus  int // 0..3 intake panels, panelCount == source list
	list   list.Model

	width  int
	height int
}

func newSourcesModel(d *deps) sourcesModel {
	panels := []intakePanel{
		newIntakePanel(panelUpload, "Upload File", "PDF, DOCX, TXT or MD", "/path/to/document.pdf", false),
		newIntakePanel(panelURLs, "Website URLs", "one URL per line", "https://example.com/article", true),
		newIntakePanel(panelYouTube, "YouTube Video", "watch, youtu.be or embed link", "https://www.youtube.com/watch?v=...", false),
		newIntakePanel(panelText, "Paste Text", "raw text to ingest", "Paste or type text here...", true),
	}

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 20)
	l.Title = "Sources"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return sourcesModel{deps: d, panels: panels, list: l}
}

// editing reports whether an expanded panel currently owns the keyboard.
func (m sourcesModel) editing() bool {
	return m.focus < panelCount && m.panels[m.focus].expanded
}

func (m sourcesModel) update(msg tea.Msg) (sourcesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case intakeDoneMsg:
		p := &m.panels[msg.panel]
		p.submitting = false
		if msg.err != nil {
			// Leave the panel expanded with its input intact for retry.
			return m, noticeCmd(errorText(msg.err, "Processing failed"), true)
		}
		m.deps.store.AddSources(msg.sources...)
		p.clear()
		p.blurInput()
		p.expanded = false
		m.syncList()
		label := "source"
		if len(msg.sources) != 1 {
			label = "sources"
		}
		return m, noticeCmd(fmt.Sprintf("Added %d %s", len(msg.sources), label), false)

	case sourcesLoadedMsg:
		if msg.err != nil {
			return m, noticeCmd(errorText(msg.err, "Failed to load sources"), true)
		}
		m.deps.store.SetSources(msg.sources)
		m.syncList()
		return m, nil

	case sourceDeletedMsg:
		if msg.err != nil {
			return m, noticeCmd(errorText(msg.err, "Failed to delete source"), true)
		}
		m.deps.store.RemoveSource(msg.id)
		m.syncList()
		return m, noticeCmd("Deleted "+msg.name, false)
	}
	return m, nil
}

func (m sourcesModel) handleKey(msg tea.KeyMsg) (sourcesModel, tea.Cmd) {
	if m.editing() {
		p := &m.panels[m.focus]
		switch msg.String() {
		case "esc":
			p.blurInput()
			p.expanded = false
			return m, nil
		case "enter":
			if !p.multiline {
				return m.submit(m.focus)
			}
		case "ctrl+s":
			return m.submit(m.focus)
		}
		var cmd tea.Cmd
		if p.multiline {
			p.area, cmd = p.area.Update(msg)
		} else {
			p.input, cmd = p.input.Update(msg)
		}
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
		return m, nil
	case "down", "j":
		if m.focus < panelCount {
			m.focus++
		}
		return m, nil
	case "enter":
		if m.focus < panelCount {
			p := &m.panels[m.focus]
			p.expanded = true
			return m, p.focusInput()
		}
		return m, nil
	case "x":
		if m.focus == panelCount {
			return m.deleteSelected()
		}
		return m, nil
	case "r":
		if m.focus == panelCount {
			return m, m.loadCmd()
		}
		return m, nil
	}

	if m.focus == panelCount {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit validates the focused panel locally and fires the matching API
// call. A panel that is already submitting ignores the request.
func (m sourcesModel) submit(i int) (sourcesModel, tea.Cmd) {
	p := &m.panels[i]
	if p.submitting {
		return m, nil
	}

	raw := p.value()
	sessionID := m.deps.store.SessionID()
	client := m.deps.client

	var call func() tea.Msg
	switch p.kind {
	case panelUpload:
		path := strings.TrimSpace(raw)
		if path == "" || !acceptedUploadExts[strings.ToLower(filepath.Ext(path))] {
			return m, noticeCmd("Please choose a PDF, DOCX, TXT, or MD file", true)
		}
		call = func() tea.Msg {
			src, err := client.UploadFile(context.Background(), path, sessionID)
			if err != nil {
				return intakeDoneMsg{panel: panelUpload, err: err}
			}
			return intakeDoneMsg{panel: panelUpload, sources: []notebook.Source{src}}
		}

	case panelURLs:
		urls := nonBlankLines(raw)
		if len(urls) == 0 {
			return m, noticeCmd("Please enter at least one URL", true)
		}
		call = func() tea.Msg {
			sources, err := client.ScrapeURLs(context.Background(), urls, sessionID)
			return intakeDoneMsg{panel: panelURLs, sources: sources, err: err}
		}

	case panelYouTube:
		videoURL := strings.TrimSpace(raw)
		if notebook.ExtractVideoID(videoURL) == "" {
			return m, noticeCmd("Please enter a valid YouTube URL", true)
		}
		call = func() tea.Msg {
			src, err := client.ProcessYouTube(context.Background(), videoURL, sessionID)
			if err != nil {
				return intakeDoneMsg{panel: panelYouTube, err: err}
			}
			return intakeDoneMsg{panel: panelYouTube, sources: []notebook.Source{src}}
		}

	case panelText:
		content := strings.TrimSpace(raw)
		if content == "" {
			return m, noticeCmd("Please enter some text", true)
		}
		call = func() tea.Msg {
			src, err := client.ProcessText(context.Background(), content, sessionID)
			if err != nil {
				return intakeDoneMsg{panel: panelText, err: err}
			}
			return intakeDoneMsg{panel: panelText, sources: []notebook.Source{src}}
		}
	}

	p.submitting = true
	return m, call
}

func (m sourcesModel) deleteSelected() (sourcesModel, tea.Cmd) {
	item, ok := m.list.SelectedItem().(sourceItem)
	if !ok {
		return m, nil
	}
	client := m.deps.client
	sessionID := m.deps.store.SessionID()
	src := item.s
	return m, func() tea.Msg {
		err := client.DeleteSource(context.Background(), src.Name, sessionID)
		return sourceDeletedMsg{id: src.ID, name: src.Name, err: err}
	}
}

func (m sourcesModel) loadCmd() tea.Cmd {
	client := m.deps.client
	sessionID := m.deps.store.SessionID()
	return func() tea.Msg {
		sources, err := client.GetSources(context.Background(), sessionID)
		return sourcesLoadedMsg{sources: sources, err: err}
	}
}

func (m *sourcesModel) syncList() {
	sources := m.deps.store.Sources()
	items := make([]list.Item, 0, len(sources))
	for _, s := range sources {
		items = append(items, sourceItem{s: s})
	}
	m.list.SetItems(items)
}

func (m *sourcesModel) setSize(width, height int) {
	m.width = width
	m.height = height

	left, _ := splitWidths(width)
	inner := left - 6
	if inner < 20 {
		inner = 20
	}
	for i := range m.panels {
		m.panels[i].input.Width = inner
		m.panels[i].area.SetWidth(inner)
	}
	m.list.SetSize(width-left-4, height-2)
}

func (m sourcesModel) view() string {
	left, right := splitWidths(m.width)

	var panels []string
	for i, p := range m.panels {
		panels = append(panels, m.renderPanel(p, i == m.focus))
	}
	leftPane := lipgloss.NewStyle().Width(left).Render(
		lipgloss.JoinVertical(lipgloss.Left, panels...),
	)

	rightPane := panelStyle(m.focus == panelCount).
		Width(right).
		Height(m.height - 2).
		Render(m.list.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

func (m sourcesModel) renderPanel(p intakePanel, focused bool) string {
	title := panelTitleStyle.Render(p.title)
	switch {
	case p.submitting:
		title += panelHintStyle.Render("  submitting...")
	case p.expanded:
		title += panelHintStyle.Render("  enter/ctrl+s submits, esc closes")
	default:
		title += panelHintStyle.Render("  " + p.hint)
	}

	body := title
	if p.expanded {
		var field string
		if p.multiline {
			field = p.area.View()
		} else {
			field = p.input.View()
		}
		body = lipgloss.JoinVertical(lipgloss.Left, title, field)
	}

	width := m.panelWidth()
	return panelStyle(focused).Width(width).Render(body)
}

func (m sourcesModel) panelWidth() int {
	left, _ := splitWidths(m.width)
	if left < 24 {
		return 24
	}
	return left - 2
}

func nonBlankLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitWidths(total int) (int, int) {
	left := total / 2
	if left < 30 {
		left = 30
	}
	right := total - left - 2
	if right < 20 {
		right = 20
	}
	return left, right
}
