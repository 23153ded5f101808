package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/movieflix/internal/library"
)

// renderHistory renders recently opened movies, newest first.
func (m Model) renderHistory(height int) string {
	if len(m.history) == 0 {
		return m.renderEmpty(msgHistoryEmpty, m.width, height)
	}
	grid, _ := m.renderCardGrid(historyCards(m.history), m.historySel, m.width-2, height-2)
	return m.renderTitledBox("Viewing History", grid, m.width, height, true)
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.history)
	if key.Matches(msg, m.keys.ClearHistory) {
		if n == 0 {
			return m, nil
		}
		m.historySel = 0
		return m, clearHistoryCmd(m.library)
	}
	if n == 0 {
		return m, nil
	}

	if key.Matches(msg, m.keys.Open) {
		mv := m.history[clampIndex(m.historySel, n)].Movie
		return m, m.openDetail(&mv)
	}
	m.historySel = m.moveGrid(msg, m.historySel, n)
	return m, nil
}

func clearHistoryCmd(lib *library.Library) tea.Cmd {
	if lib == nil {
		return nil
	}
	return func() tea.Msg {
		return libraryChangedMsg{action: "clear history", err: lib.ClearHistory()}
	}
}
