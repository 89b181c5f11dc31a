package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sourcebook/internal/notebook"
)

const (
	fieldSource = iota
	fieldStyle
	fieldDuration
	fieldLast = fieldDuration
)

const (
	// The generation progress bar is cosmetic: it advances on a fixed
	// interval toward a ceiling and snaps to completion only when the
	// synchronous response arrives. It does not reflect server progress.
	progressStep    = 0.05
	progressCeiling = 0.90
	progressPeriod  = time.Second

	seekStep     = 5 * time.Second
	playerPeriod = 500 * time.Millisecond
)

type podcastMsg struct {
	podcast notebook.Podcast
	seq     int
	err     error
}

type progressTickMsg struct {
	seq int
}

type audioReadyMsg struct {
	path string
	err  error
}

type playerTickMsg struct{}

type scriptSavedMsg struct {
	path string
	err  error
}

type audioSavedMsg struct {
	path string
	err  error
}

type studioModel struct {
	deps *deps

	focus       int
	sourceIdx   int
	styleIdx    int
	durationIdx int

	generating bool
	genSeq     int
	percent    float64
	prog       progress.Model

	podcast   *notebook.Podcast
	audioPath string

	script viewport.Model

	width  int
	height int
}

func newStudioModel(d *deps) studioModel {
	vp := viewport.New(60, 20)
	vp.SetContent("Generate a podcast to see its script here.")

	return studioModel{
		deps:        d,
		sourceIdx:   -1,
		durationIdx: 1, // "10 minutes"
		prog:        progress.New(progress.WithDefaultGradient()),
		script:      vp,
	}
}

func (m studioModel) update(msg tea.Msg) (studioModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressTickMsg:
		if !m.generating || msg.seq != m.genSeq {
			return m, nil
		}
		m.percent += progressStep
		if m.percent > progressCeiling {
			m.percent = progressCeiling
		}
		return m, m.progressTickCmd()

	case podcastMsg:
		if msg.seq != m.genSeq {
			return m, nil
		}
		m.generating = false
		if msg.err != nil {
			m.percent = 0
			return m, noticeCmd(errorText(msg.err, "Failed to generate podcast"), true)
		}
		m.percent = 1.0
		p := msg.podcast
		m.replacePodcast(&p)

		cmds := []tea.Cmd{noticeCmd("Podcast generated", false)}
		if p.AudioURL != "" {
			cmds = append(cmds, m.downloadAudioCmd())
		}
		return m, tea.Batch(cmds...)

	case audioReadyMsg:
		if msg.err != nil {
			return m, noticeCmd(errorText(msg.err, "Audio unavailable"), true)
		}
		m.audioPath = msg.path
		if err := m.deps.audio.Load(msg.path); err != nil {
			// No audio device is not fatal; the script view still works.
			return m, noticeCmd("Audio playback unavailable: "+err.Error(), true)
		}
		return m, nil

	case playerTickMsg:
		if !m.deps.audio.Playing() {
			return m, nil
		}
		if m.deps.audio.Ended() {
			m.deps.audio.Pause()
			return m, nil
		}
		return m, playerTickCmd()

	case scriptSavedMsg:
		if msg.err != nil {
			return m, noticeCmd(errorText(msg.err, "Failed to save script"), true)
		}
		return m, noticeCmd("Script saved: "+msg.path, false)

	case audioSavedMsg:
		if msg.err != nil {
			return m, noticeCmd(errorText(msg.err, "Failed to save audio"), true)
		}
		return m, noticeCmd("Audio saved: "+msg.path, false)
	}
	return m, nil
}

func (m studioModel) handleKey(msg tea.KeyMsg) (studioModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
		return m, nil
	case "down", "j":
		if m.focus < fieldLast {
			m.focus++
		}
		return m, nil
	case "left", "h":
		m.cycleField(-1)
		return m, nil
	case "right", "l":
		m.cycleField(1)
		return m, nil
	case "g", "enter":
		return m.generate()
	case " ":
		return m, m.togglePlay()
	case "m":
		return m, m.toggleMute()
	case "[":
		return m, m.seek(-seekStep)
	case "]":
		return m, m.seek(seekStep)
	case "s":
		return m.saveScript()
	case "a":
		return m.saveAudio()
	case "pgup":
		m.script.HalfViewUp()
		return m, nil
	case "pgdown":
		m.script.HalfViewDown()
		return m, nil
	}
	return m, nil
}

func (m *studioModel) cycleField(delta int) {
	switch m.focus {
	case fieldSource:
		n := m.deps.store.SourceCount()
		if n == 0 {
			m.sourceIdx = -1
			return
		}
		if m.sourceIdx < 0 {
			m.sourceIdx = 0
			return
		}
		m.sourceIdx = (m.sourceIdx + delta + n) % n
	case fieldStyle:
		n := len(notebook.Styles())
		m.styleIdx = (m.styleIdx + delta + n) % n
	case fieldDuration:
		n := len(notebook.Durations())
		m.durationIdx = (m.durationIdx + delta + n) % n
	}
}

// generate fires one synchronous generation call. It is gated on a source
// being selected and on no generation already running.
func (m studioModel) generate() (studioModel, tea.Cmd) {
	if m.generating {
		return m, nil
	}
	sources := m.deps.store.Sources()
	if m.sourceIdx < 0 || m.sourceIdx >= len(sources) {
		return m, noticeCmd("Please select a source", true)
	}

	source := sources[m.sourceIdx]
	style := notebook.Styles()[m.styleIdx]
	duration := notebook.Durations()[m.durationIdx]
	sessionID := m.deps.store.SessionID()
	client := m.deps.client

	m.generating = true
	m.genSeq++
	m.percent = 0
	seq := m.genSeq

	generateCall := func() tea.Msg {
		p, err := client.GeneratePodcast(context.Background(), source.Name, style, duration, sessionID)
		return podcastMsg{podcast: p, seq: seq, err: err}
	}
	return m, tea.Batch(generateCall, m.progressTickCmd())
}

func (m studioModel) progressTickCmd() tea.Cmd {
	seq := m.genSeq
	return tea.Tick(progressPeriod, func(time.Time) tea.Msg {
		return progressTickMsg{seq: seq}
	})
}

func playerTickCmd() tea.Cmd {
	return tea.Tick(playerPeriod, func(time.Time) tea.Msg {
		return playerTickMsg{}
	})
}

// replacePodcast swaps in a newly generated podcast, dropping any previous
// one along with its loaded audio.
func (m *studioModel) replacePodcast(p *notebook.Podcast) {
	m.deps.audio.Close()
	m.audioPath = ""
	m.podcast = p
	m.script.SetContent(renderScript(p.Script))
	m.script.GotoTop()
}

func (m studioModel) downloadAudioCmd() tea.Cmd {
	client := m.deps.client
	sessionID := m.deps.store.SessionID()
	dest := filepath.Join(os.TempDir(), "sourcebook-"+sessionID+".wav")
	return func() tea.Msg {
		if err := client.DownloadPodcastAudio(context.Background(), sessionID, dest); err != nil {
			return audioReadyMsg{err: err}
		}
		return audioReadyMsg{path: dest}
	}
}

func (m studioModel) togglePlay() tea.Cmd {
	if m.podcast == nil {
		return nil
	}
	if !m.deps.audio.Loaded() {
		return noticeCmd("No audio available for this podcast", true)
	}
	playing, err := m.deps.audio.TogglePlay()
	if err != nil {
		m.deps.audio.Pause()
		return noticeCmd("Failed to play audio: "+err.Error(), true)
	}
	if playing {
		return playerTickCmd()
	}
	return nil
}

func (m studioModel) toggleMute() tea.Cmd {
	if !m.deps.audio.Loaded() {
		return nil
	}
	muted, err := m.deps.audio.ToggleMute()
	if err != nil {
		return noticeCmd("Failed to toggle mute: "+err.Error(), true)
	}
	if muted {
		return noticeCmd("Muted", false)
	}
	return noticeCmd("Unmuted", false)
}

func (m studioModel) seek(delta time.Duration) tea.Cmd {
	if !m.deps.audio.Loaded() {
		return nil
	}
	if err := m.deps.audio.SeekBy(delta); err != nil {
		m.deps.audio.Pause()
		return noticeCmd("Failed to seek: "+err.Error(), true)
	}
	return nil
}

func (m studioModel) saveScript() (studioModel, tea.Cmd) {
	if m.podcast == nil {
		return m, nil
	}
	exporter := m.deps.exporter
	p := *m.podcast
	return m, func() tea.Msg {
		path, err := exporter.SaveScript(p)
		return scriptSavedMsg{path: path, err: err}
	}
}

func (m studioModel) saveAudio() (studioModel, tea.Cmd) {
	if m.podcast == nil {
		return m, nil
	}
	if m.podcast.AudioURL == "" || m.audioPath == "" {
		return m, noticeCmd("No audio available to download", true)
	}
	exporter := m.deps.exporter
	p := *m.podcast
	audioPath := m.audioPath
	return m, func() tea.Msg {
		path, err := exporter.SaveAudio(p, audioPath)
		return audioSavedMsg{path: path, err: err}
	}
}

func (m *studioModel) setSize(width, height int) {
	m.width = width
	m.height = height

	left, right := splitWidths(width)
	m.prog.Width = left - 6
	m.script.Width = right - 4
	m.script.Height = height - 4
}

func (m studioModel) view() string {
	left, right := splitWidths(m.width)

	config := m.renderConfig()
	player := m.renderPlayer()
	leftPane := lipgloss.NewStyle().Width(left).Render(
		lipgloss.JoinVertical(lipgloss.Left, config, player),
	)

	rightPane := panelStyle(false).
		Width(right).
		Height(m.height - 2).
		Render(m.scriptHeader() + "\n" + m.script.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

func (m studioModel) renderConfig() string {
	sources := m.deps.store.Sources()

	sourceLabel := "No sources available"
	if len(sources) > 0 {
		if m.sourceIdx >= 0 && m.sourceIdx < len(sources) {
			s := sources[m.sourceIdx]
			sourceLabel = fmt.Sprintf("%s (%s)", s.Name, s.Type)
		} else {
			sourceLabel = "Choose a source..."
		}
	}

	rows := []string{
		panelTitleStyle.Render("Podcast Configuration"),
		m.renderField(fieldSource, "Source", sourceLabel),
		m.renderField(fieldStyle, "Style", string(notebook.Styles()[m.styleIdx])),
		m.renderField(fieldDuration, "Duration", notebook.Durations()[m.durationIdx]),
	}

	if m.generating {
		rows = append(rows,
			"",
			m.prog.ViewAs(m.percent),
			panelHintStyle.Render("Generating podcast..."),
		)
	} else {
		rows = append(rows, "", panelHintStyle.Render("←/→ change · g generates"))
	}

	return panelStyle(m.podcast == nil).
		Width(m.panelWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m studioModel) renderField(field int, label, value string) string {
	line := fmt.Sprintf("%-9s %s", label+":", value)
	if m.focus == field {
		return selectedFieldStyle.Render("> " + line)
	}
	return fieldLabelStyle.Render("  " + line)
}

func (m studioModel) renderPlayer() string {
	if m.podcast == nil {
		return ""
	}
	p := m.podcast

	rows := []string{
		panelTitleStyle.Render("Player"),
		fmt.Sprintf("%d lines · %s · %s", p.TotalLines, p.EstimatedDuration, p.SourceName),
	}

	if m.deps.audio.Loaded() {
		state := "paused"
		if m.deps.audio.Playing() {
			state = "playing"
		}
		if m.deps.audio.Muted() {
			state += " · muted"
		}
		rows = append(rows,
			fmt.Sprintf("%s / %s · %s", formatClock(m.deps.audio.Position()), formatClock(m.deps.audio.Duration()), state),
			panelHintStyle.Render("space play · m mute · [/] seek · s script · a audio"),
		)
	} else {
		rows = append(rows,
			panelHintStyle.Render("no audio · s saves the script"),
		)
	}

	return panelStyle(true).
		Width(m.panelWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m studioModel) scriptHeader() string {
	if m.podcast == nil {
		return panelTitleStyle.Render("Script")
	}
	return panelTitleStyle.Render("Script") +
		panelHintStyle.Render(fmt.Sprintf("  %s · %s", m.podcast.Style, m.podcast.CreatedAt))
}

func (m studioModel) panelWidth() int {
	left, _ := splitWidths(m.width)
	if left < 24 {
		return 24
	}
	return left - 2
}

func renderScript(script []notebook.ScriptLine) string {
	if len(script) == 0 {
		return "Script is empty."
	}
	var rows []string
	for _, line := range script {
		style := speakerOneStyle
		if line.Speaker == notebook.SpeakerTwo {
			style = speakerTwoStyle
		}
		rows = append(rows, style.Render(line.Speaker+":")+" "+line.Text, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
