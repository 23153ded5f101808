package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for the side detail pane in grid views.
	LayoutWideWidth = 140
)

// Card geometry.
const (
	// CardWidth is the outer width of a movie card including its margin.
	CardWidth = 26

	// CardHeight is the number of lines a card occupies.
	CardHeight = 5

	// SuggestionLimit caps the autocomplete dropdown.
	SuggestionLimit = 10
)

// Timing constants.
const (
	// RequestTimeout bounds every catalog call made from the UI.
	RequestTimeout = 10 * time.Second

	// DefaultUIInterval is the default snapshot poll interval.
	DefaultUIInterval = time.Second
)
