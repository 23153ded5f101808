package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/movieflix/internal/library"
)

// renderWatchlist renders saved movies as a grid.
func (m Model) renderWatchlist(height int) string {
	if len(m.watchlist) == 0 {
		return m.renderEmpty(msgWatchlistEmpty, m.width, height)
	}
	grid, _ := m.renderCardGrid(watchlistCards(m.watchlist), m.watchSel, m.width-2, height-2)
	return m.renderTitledBox("My Watchlist", grid, m.width, height, true)
}

func (m Model) handleWatchlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.watchlist)
	if n == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		mv := m.watchlist[clampIndex(m.watchSel, n)]
		return m, m.openDetail(&mv)
	case key.Matches(msg, m.keys.Remove):
		mv := m.watchlist[clampIndex(m.watchSel, n)]
		return m, removeFromWatchlistCmd(m.library, mv.ID)
	default:
		m.watchSel = m.moveGrid(msg, m.watchSel, n)
	}
	return m, nil
}

func removeFromWatchlistCmd(lib *library.Library, id int64) tea.Cmd {
	if lib == nil {
		return nil
	}
	return func() tea.Msg {
		return libraryChangedMsg{action: "remove from watchlist", err: lib.RemoveFromWatchlist(id)}
	}
}
