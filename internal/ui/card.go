package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/movieflix/internal/library"
	"github.com/five82/movieflix/internal/tmdb"
)

// Empty and error states shown in place of cards.
const (
	msgWatchlistEmpty = "Your watchlist is empty."
	msgHistoryEmpty   = "Your viewing history is empty."
	msgNoResults      = "No results found."
	msgSearchError    = "Error searching movies. Please try again."
	msgActorError     = "Actor not found or error searching. Please try again."
	msgRecentlyViewed = "Recently viewed"
)

type cardKind int

const (
	cardStandard cardKind = iota
	cardWatchlist
	cardHistory
)

// card is one movie tile. History cards carry the time the movie was opened.
type card struct {
	Movie    tmdb.Movie
	Kind     cardKind
	ViewedAt time.Time
}

func standardCards(movies []tmdb.Movie) []card {
	out := make([]card, len(movies))
	for i, mv := range movies {
		out[i] = card{Movie: mv}
	}
	return out
}

func watchlistCards(movies []tmdb.Movie) []card {
	out := make([]card, len(movies))
	for i, mv := range movies {
		out[i] = card{Movie: mv, Kind: cardWatchlist}
	}
	return out
}

func historyCards(entries []library.HistoryEntry) []card {
	out := make([]card, len(entries))
	for i, h := range entries {
		out[i] = card{Movie: h.Movie, Kind: cardHistory, ViewedAt: h.ViewedTime()}
	}
	return out
}

// ratingLabel renders vote_average rounded to one decimal, dropping a
// trailing ".0" the way the catalog's web client does.
func (c card) ratingLabel() string {
	return strconv.FormatFloat(c.Movie.Rating(), 'f', -1, 64)
}

// footer is the kind-specific third line of the card.
func (c card) footer() string {
	switch c.Kind {
	case cardWatchlist:
		return "x Remove"
	case cardHistory:
		return formatViewedAt(c.ViewedAt)
	default:
		return ""
	}
}

// lines returns the plain text of the card, fitted to width.
func (c card) lines(width int) []string {
	title := c.Movie.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	return []string{
		c.ratingLabel() + " " + c.Movie.Year(),
		truncate(title, width),
		truncate(c.footer(), width),
	}
}

// formatViewedAt renders a history timestamp in local time, e.g.
// "Viewed: Jan 2, 03:04 PM".
func formatViewedAt(t time.Time) string {
	if t.IsZero() {
		return msgRecentlyViewed
	}
	return "Viewed: " + t.In(time.Local).Format("Jan 2, 03:04 PM")
}

// renderCard renders one card as a fixed-size block.
func (m Model) renderCard(c card, selected bool) string {
	bgColor := m.theme.SurfaceAlt
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := CardWidth - 3

	titleStyle := styles.Text.Bold(true)
	yearStyle := styles.MutedText
	footerStyle := styles.FaintText
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle = sel.Bold(true)
		yearStyle = sel
		footerStyle = sel
	}
	if c.Kind == cardWatchlist && !selected {
		footerStyle = styles.DangerText
	}

	text := c.lines(inner)
	badge := styles.RatingStyle(c.Movie.VoteAverage).Render(c.ratingLabel())
	rows := []string{
		badge + bg.Space() + bg.Render(c.Movie.Year(), yearStyle),
		bg.Render(text[1], titleStyle),
		bg.Render(text[2], footerStyle),
	}

	block := lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Width(CardWidth-1).
		Height(CardHeight).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
	return lipgloss.NewStyle().MarginRight(1).Render(block)
}

// renderCardStrip renders cards in a single horizontal row, scrolled so that
// the selected card (or the first, when selected is negative) is visible.
func (m Model) renderCardStrip(cards []card, selected, width int) string {
	if len(cards) == 0 {
		return ""
	}
	visible := max(width/CardWidth, 1)
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	end := min(start+visible, len(cards))

	blocks := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		blocks = append(blocks, m.renderCard(cards[i], i == selected))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// renderCardGrid lays cards out in as many columns as width allows and
// returns the rendered grid plus the column count.
func (m Model) renderCardGrid(cards []card, selected, width, height int) (string, int) {
	cols := max(width/CardWidth, 1)
	if len(cards) == 0 {
		return "", cols
	}
	rowsVisible := max(height/(CardHeight+1), 1)
	selectedRow := max(selected, 0) / cols
	firstRow := 0
	if selectedRow >= rowsVisible {
		firstRow = selectedRow - rowsVisible + 1
	}

	var rows []string
	for r := firstRow; r < firstRow+rowsVisible; r++ {
		startIdx := r * cols
		if startIdx >= len(cards) {
			break
		}
		endIdx := min(startIdx+cols, len(cards))
		blocks := make([]string, 0, endIdx-startIdx)
		for i := startIdx; i < endIdx; i++ {
			blocks = append(blocks, m.renderCard(cards[i], i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}
	return strings.Join(rows, "\n\n"), cols
}

// renderEmpty centers a muted message in the content area.
func (m Model) renderEmpty(msg string, width, height int) string {
	styles := m.theme.Styles()
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
}
