package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/handiism/osu-collector-dl/internal/config"
	"github.com/handiism/osu-collector-dl/internal/download"
	"github.com/handiism/osu-collector-dl/internal/mirror"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNextMirror(t *testing.T) {
	names := mirror.Names()
	assert.Equal(t, names[1], nextMirror(names[0]))
	assert.Equal(t, names[0], nextMirror(names[len(names)-1]))
	assert.Equal(t, names[0], nextMirror("unknown"))
}

func TestModel_ConcurrencyKeys(t *testing.T) {
	settings := config.DefaultSettings()
	settings.User.ConcurrentDownloads = 1
	m := NewModel(settings, "")

	m = update(m, key("-"))
	assert.Equal(t, 1, settings.User.ConcurrentDownloads)

	for i := 0; i < config.MaxConcurrentDownloads+5; i++ {
		m = update(m, key("+"))
	}
	assert.Equal(t, config.MaxConcurrentDownloads, settings.User.ConcurrentDownloads)
	assert.Empty(t, m.textInput.Value())
}

func TestModel_TabCyclesMirror(t *testing.T) {
	settings := config.DefaultSettings()
	m := NewModel(settings, "")
	before := settings.User.MirrorType

	update(m, key("tab"))
	assert.Equal(t, nextMirror(before), settings.User.MirrorType)
}

func TestModel_RejectsInvalidID(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	m.textInput.SetValue("abc")

	m = update(m, key("enter"))
	assert.Equal(t, StateInput, m.state)
	assert.Error(t, m.err)
}

func TestModel_ProgressMsgFiltersVerbose(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")

	m = update(m, ProgressMsg{Event: download.ProgressEvent{Message: "noise", Level: download.LevelVerbose}})
	assert.Empty(t, m.logs)

	m = update(m, ProgressMsg{Event: download.ProgressEvent{Message: "(1/2) A - B [Hard] via catboy.best", Level: download.LevelSuccess}})
	assert.Len(t, m.logs, 1)

	for i := 0; i < maxLogs*2; i++ {
		m = update(m, ProgressMsg{Event: download.ProgressEvent{Message: "x", Level: download.LevelInfo}})
	}
	assert.Len(t, m.logs, maxLogs)
}
