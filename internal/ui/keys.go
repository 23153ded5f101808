package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// View switching
	ViewHome      key.Binding
	ViewWatchlist key.Binding
	ViewHistory   key.Binding
	ViewAbout     key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Movie actions
	Open            key.Binding
	Featured        key.Binding
	ToggleWatchlist key.Binding
	Remove          key.Binding
	ClearHistory    key.Binding
	AdultFilter     key.Binding
	Refresh         key.Binding

	// Search
	Search         key.Binding
	Confirm        key.Binding
	AcceptSuggest  key.Binding
	SuggestUp      key.Binding
	SuggestDown    key.Binding
	DismissResults key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),

		ViewHome: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Home"),
		),
		ViewWatchlist: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Watchlist"),
		),
		ViewHistory: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "History"),
		),
		ViewAbout: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "About"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Move right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Movie details"),
		),
		Featured: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Featured movie details"),
		),
		ToggleWatchlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Add/remove watchlist"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove from watchlist"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear history"),
		),
		AdultFilter: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle adult filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload rows"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search (actor: for people)"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Run search"),
		),
		AcceptSuggest: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Use suggestion"),
		),
		SuggestUp: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "Previous suggestion"),
		),
		SuggestDown: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "Next suggestion"),
		),
		DismissResults: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Dismiss search results"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewHome, k.ViewWatchlist, k.ViewHistory, k.ViewAbout},
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Open, k.Featured, k.ToggleWatchlist, k.Remove, k.ClearHistory},
		{k.Search, k.AcceptSuggest, k.SuggestUp, k.SuggestDown, k.DismissResults},
		{k.AdultFilter, k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
