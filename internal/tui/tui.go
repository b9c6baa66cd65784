// Package tui provides a Bubble Tea terminal user interface for osu-collector-dl.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/osu-collector-dl/internal/config"
	"github.com/handiism/osu-collector-dl/internal/download"
	"github.com/handiism/osu-collector-dl/internal/mirror"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF66AA")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state      State
	textInput  textinput.Model
	spinner    spinner.Model
	progress   progress.Model
	settings   *config.Settings
	configPath string
	logs       []LogEntry
	err        error

	ctx    context.Context
	cancel context.CancelFunc

	session *download.Session
	events  chan download.ProgressEvent
	summary download.Summary

	completed int64
	target    int64
	initial   int64

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. configPath is where chosen settings are
// saved when a run starts; empty disables saving.
func NewModel(settings *config.Settings, configPath string) Model {
	ti := textinput.New()
	ti.Placeholder = "collection id, e.g. 7421"
	ti.Focus()
	ti.CharLimit = 12
	ti.Width = 30
	if settings.Collector.ID > 0 {
		ti.SetValue(strconv.Itoa(settings.Collector.ID))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF66AA"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		configPath: configPath,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan download.ProgressEvent, 256),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for each orchestrator event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when the session is prepared.
	InitDoneMsg struct {
		Session *download.Session
		Err     error
	}

	// DownloadDoneMsg is sent when the run finishes.
	DownloadDoneMsg struct {
		Summary download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput {
				id, err := strconv.Atoi(strings.TrimSpace(m.textInput.Value()))
				if err != nil || id <= 0 {
					m.err = fmt.Errorf("collection id must be a positive number")
					return m, nil
				}
				m.err = nil
				m.settings.Collector.ID = id
				m.state = StateInitializing
				return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
			}

		case "tab":
			if m.state == StateInput {
				m.settings.User.MirrorType = nextMirror(m.settings.User.MirrorType)
			}
			return m, nil

		case "+", "=":
			if m.state == StateInput && m.settings.User.ConcurrentDownloads < config.MaxConcurrentDownloads {
				m.settings.User.ConcurrentDownloads++
			}
			return m, nil

		case "-":
			if m.state == StateInput && m.settings.User.ConcurrentDownloads > 1 {
				m.settings.User.ConcurrentDownloads--
			}
			return m, nil

		case "f2":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.session = nil
				m.summary = download.Summary{}
				m.completed, m.target, m.initial = 0, 0, 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.session = msg.Session
			m.initial = int64(msg.Session.Manifest.ItemCount())
			m.target = m.initial
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.summary = msg.Summary
		m.completed = msg.Summary.Progress.Completed
		m.target = msg.Summary.Progress.Target
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.session != nil && m.state == StateDownloading {
			snap := m.session.Orchestrator.Progress()
			m.completed = snap.Completed
			m.target = snap.Target

			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) percent() float64 {
	if m.target <= 0 {
		return 0
	}
	return float64(m.completed) / float64(m.target)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next orchestrator event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("osu!collector downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download collections into your osu! Songs folder"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter osu!collector collection id:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Mirror: %s (tab)\n", m.settings.User.MirrorType))
	b.WriteString(fmt.Sprintf("  Concurrent downloads: %d (+/-)\n", m.settings.User.ConcurrentDownloads))
	b.WriteString(fmt.Sprintf("  %s Verbose output (f2)\n", verboseCheck))
	for _, w := range m.settings.Warnings() {
		b.WriteString(warningStyle.Render("  ! " + w))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Songs: %s", m.settings.Osu.SongsPath)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Collection database: %s", m.settings.Osu.CollectionPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Fetching collection %d...", m.settings.Collector.ID)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.session != nil {
		b.WriteString(bannerStyle.Render(m.session.Banner()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("into %q via %s", m.session.CollectionName, m.session.Source.DisplayName())))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	line := fmt.Sprintf("Beatmaps: %d/%d", m.completed, m.target)
	if abandoned := m.initial - m.target; abandoned > 0 {
		line += fmt.Sprintf(" | Failed: %d", abandoned)
	}
	b.WriteString(infoStyle.Render(line))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	s := m.summary

	title := "Download Complete!"
	if !s.Complete() {
		title = "Download finished with failures"
	}

	return boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Collection: %s\n"+
			"Beatmaps: %d/%d\n"+
			"Downloaded: %d sets (%s)\n"+
			"Already present: %d sets\n"+
			"Failed: %d sets\n"+
			"Time: %s",
		title,
		s.Collection,
		s.Progress.Completed, s.Progress.Initial,
		s.Downloaded, humanize.Bytes(uint64(s.Bytes)),
		s.Skipped,
		s.Failed,
		s.Elapsed.Round(time.Second),
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	if m.session != nil {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Beatmaps: %d/%d", m.completed, m.target)))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: mirror • +/-: concurrency • f2: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// initializeDownload saves the chosen settings and prepares the session.
func (m *Model) initializeDownload() tea.Cmd {
	settings := *m.settings
	configPath := m.configPath
	ctx := m.ctx
	events := m.events

	return func() tea.Msg {
		if configPath != "" {
			if err := settings.Save(configPath); err != nil {
				return InitDoneMsg{Err: fmt.Errorf("save settings: %w", err)}
			}
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		session, err := download.Prepare(ctx, &settings, download.PrepareOptions{}, logger,
			func(event download.ProgressEvent) {
				select {
				case events <- event:
				default:
					// The log view keeps only the latest lines anyway.
				}
			})

		return InitDoneMsg{Session: session, Err: err}
	}
}

// startDownload runs the session in background.
func (m *Model) startDownload() tea.Cmd {
	session := m.session
	ctx := m.ctx

	return func() tea.Msg {
		if session == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no session")}
		}

		summary, err := session.Run(ctx)
		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// nextMirror returns the mirror after name in registry order.
func nextMirror(name string) string {
	names := mirror.Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// Run starts the TUI application.
func Run(settings *config.Settings, configPath string) error {
	p := tea.NewProgram(NewModel(settings, configPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
