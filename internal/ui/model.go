package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"sourcebook/internal/api"
	"sourcebook/internal/config"
	"sourcebook/internal/export"
	"sourcebook/internal/player"
	"sourcebook/internal/state"
)

const noticeLifetime = 4 * time.Second

// deps bundles the process-wide collaborators every view talks to. The
// store is the single writer-owned state holder; the rest are stateless or
// self-contained.
type deps struct {
	cfg      config.AppConfig
	client   *api.Client
	store    *state.Store
	exporter *export.Exporter
	audio    *player.Player
}

type noticeMsg struct {
	text  string
	isErr bool
}

type noticeExpireMsg struct {
	seq int
}

type healthMsg struct {
	status string
	err    error
}

// noticeCmd surfaces a transient, dismissible notification. Every local
// validation failure and API error in the app routes through this.
func noticeCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: text, isErr: isErr}
	}
}

// errorText prefers the server-supplied message of a typed API error and
// falls back to a generic one for transport failures.
func errorText(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return fallback + ": " + err.Error()
	}
	return fallback
}

type Model struct {
	deps *deps
	keys keyMap
	help help.Model

	width  int
	height int

	backendStatus string
	notice        string
	noticeIsErr   bool
	noticeSeq     int

	sources sourcesModel
	chat    chatModel
	studio  studioModel
}

func NewModel(cfg config.AppConfig, client *api.Client, store *state.Store, exporter *export.Exporter, audio *player.Player) Model {
	d := &deps{
		cfg:      cfg,
		client:   client,
		store:    store,
		exporter: exporter,
		audio:    audio,
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		deps:          d,
		keys:          defaultKeys(),
		help:          h,
		backendStatus: "checking...",
		sources:       newSourcesModel(d),
		chat:          newChatModel(d),
		studio:        newStudioModel(d),
	}
}

func (m Model) Init() tea.Cmd {
	return m.healthCmd()
}

func (m Model) healthCmd() tea.Cmd {
	client := m.deps.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status, err := client.HealthCheck(ctx)
		return healthMsg{status: status, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case healthMsg:
		if msg.err != nil {
			m.backendStatus = "unreachable"
			return m, noticeCmd("Backend unreachable: check that the API server is running", true)
		}
		m.backendStatus = msg.status
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		m.noticeIsErr = msg.isErr
		m.noticeSeq++
		seq := m.noticeSeq
		return m, tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
			return noticeExpireMsg{seq: seq}
		})

	case noticeExpireMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.route(msg)
}

// route delivers a non-key message to the view that owns its type. Async
// results only ever touch the view that issued the call, so the other
// views stay interactive throughout.
func (m Model) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case intakeDoneMsg, sourcesLoadedMsg, sourceDeletedMsg:
		m.sources, cmd = m.sources.update(msg)
	case podcastMsg, progressTickMsg, audioReadyMsg, playerTickMsg, scriptSavedMsg, audioSavedMsg:
		m.studio, cmd = m.studio.update(msg)
	default:
		m.chat, cmd = m.chat.update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.deps.audio.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return m, nil
	}

	if msg.String() == "?" && !m.typing() {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	switch m.deps.store.ActiveTab() {
	case state.TabSources:
		m.sources, cmd = m.sources.update(msg)
	case state.TabChat:
		m.chat, cmd = m.chat.update(msg)
	case state.TabStudio:
		m.studio, cmd = m.studio.update(msg)
	}
	return m, cmd
}

// typing reports whether the active view currently owns a focused text
// input, in which case printable keys must reach it untouched.
func (m Model) typing() bool {
	switch m.deps.store.ActiveTab() {
	case state.TabSources:
		return m.sources.editing()
	case state.TabChat:
		return true
	default:
		return false
	}
}

func (m *Model) switchTab(delta int) {
	tabs := []state.Tab{state.TabSources, state.TabChat, state.TabStudio}
	current := int(m.deps.store.ActiveTab())
	next := (current + delta + len(tabs)) % len(tabs)
	m.deps.store.SetActiveTab(tabs[next])
	m.sources.syncList()
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := m.height - 4
	if bodyHeight < 8 {
		bodyHeight = 8
	}
	m.sources.setSize(m.width, bodyHeight)
	m.chat.setSize(m.width, bodyHeight)
	m.studio.setSize(m.width, bodyHeight)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	var body string
	switch m.deps.store.ActiveTab() {
	case state.TabSources:
		body = m.sources.view()
	case state.TabChat:
		body = m.chat.view()
	case state.TabStudio:
		body = m.studio.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tabBar(),
		body,
		m.statusLine(),
		m.help.View(m.keys),
	)
}

func (m Model) tabBar() string {
	tabs := []state.Tab{state.TabSources, state.TabChat, state.TabStudio}
	active := m.deps.store.ActiveTab()
	var rendered []string
	for _, t := range tabs {
		if t == active {
			rendered = append(rendered, activeTabStyle.Render(t.String()))
		} else {
			rendered = append(rendered, tabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) statusLine() string {
	status := fmt.Sprintf(
		"backend=%s  session=%s  sources=%d  messages=%d",
		m.backendStatus,
		shorten(m.deps.store.SessionID(), 13),
		m.deps.store.SourceCount(),
		m.deps.store.MessageCount(),
	)
	line := statusStyle.Render(status)

	if strings.TrimSpace(m.notice) != "" {
		style := noticeInfoStyle
		if m.noticeIsErr {
			style = noticeErrorStyle
		}
		line += "  " + style.Render(m.notice)
	}

	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "...")
	}
	return line
}

func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
