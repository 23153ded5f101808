package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/library"
	"github.com/five82/movieflix/internal/tmdb"
)

const detailModalWidth = 72

// detailModal shows one movie. It opens with the list record and fills in
// genres and runtime once the full record arrives.
type detailModal struct {
	movie       tmdb.Movie
	details     *tmdb.MovieDetails
	loading     bool
	failed      bool
	inWatchlist bool
	status      string
	// statusInfo marks a status that reports no change.
	statusInfo  bool

	lib       *library.Library
	imageBase string
	log       *zap.Logger
}

func newDetailModal(movie tmdb.Movie, inWatchlist bool, lib *library.Library, imageBase string, log *zap.Logger) *detailModal {
	return &detailModal{
		movie:       movie,
		loading:     true,
		inWatchlist: inWatchlist,
		lib:         lib,
		imageBase:   imageBase,
		log:         log,
	}
}

type detailsMsg struct {
	id      int64
	details tmdb.MovieDetails
	err     error
}

type watchlistToggledMsg struct {
	id    int64
	saved bool
	err   error
}

// Update implements Modal.
func (d *detailModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case detailsMsg:
		if msg.id != d.movie.ID {
			return d, nil, false
		}
		d.loading = false
		if msg.err != nil {
			d.failed = true
			d.log.Warn("load movie details failed", zap.Int64("id", d.movie.ID), zap.Error(msg.err))
			return d, nil, false
		}
		details := msg.details
		d.details = &details
		return d, nil, false

	case watchlistToggledMsg:
		if msg.id != d.movie.ID {
			return d, nil, false
		}
		if msg.err != nil {
			d.status = "Could not update watchlist"
			d.statusInfo = true
			return d, nil, false
		}
		d.statusInfo = !msg.saved && !d.inWatchlist
		switch {
		case msg.saved:
			d.status = "Added to watchlist"
		case d.inWatchlist:
			d.status = "Removed from watchlist"
		default:
			d.status = "Already in your watchlist"
		}
		d.inWatchlist = msg.saved
		return d, nil, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
			return d, nil, true
		case key.Matches(msg, keys.ToggleWatchlist):
			return d, toggleWatchlistCmd(d.lib, d.record()), false
		}
	}
	return d, nil, false
}

// record is the movie as it should be stored: the full record when loaded.
func (d *detailModal) record() tmdb.Movie {
	if d.details != nil {
		mv := d.details.Movie
		if mv.PosterPath == "" {
			mv.PosterPath = d.movie.PosterPath
		}
		return mv
	}
	return d.movie
}

// lines returns the plain-text body of the modal.
func (d *detailModal) lines() []string {
	mv := d.record()
	lines := []string{
		fmt.Sprintf("IMDb: %s/10 (%d votes)", card{Movie: mv}.ratingLabel(), mv.VoteCount),
		"Release Date: " + orNA(mv.ReleaseDate),
	}
	if d.details != nil {
		lines = append(lines,
			"Genre: "+joinGenres(d.details.Genres),
			"Runtime: "+formatRuntime(d.details.Runtime),
		)
	}
	lines = append(lines, "Poster: "+tmdb.ImageURL(d.imageBase, mv.PosterPath))
	if mv.BackdropPath != "" {
		lines = append(lines, "Backdrop: "+tmdb.ImageURL(d.imageBase, mv.BackdropPath))
	}
	return lines
}

func (d *detailModal) synopsis() string {
	if text := strings.TrimSpace(d.record().Overview); text != "" {
		return text
	}
	return "No synopsis available."
}

func (d *detailModal) toggleLabel() string {
	return ternary(d.inWatchlist, "Remove from Watchlist", "Add to Watchlist")
}

// View implements Modal.
func (d *detailModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	modalWidth := min(detailModalWidth, max(width-4, 30))
	inner := modalWidth - 6

	title := d.record().Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	var b strings.Builder
	b.WriteString(styles.Logo.Render(truncate(title, inner)))
	b.WriteString("\n")
	if d.details != nil && d.details.Tagline != "" {
		b.WriteString(styles.MutedText.Italic(true).Render(truncate(d.details.Tagline, inner)))
		b.WriteString("\n")
	}
	divider := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.BorderMuted))
	b.WriteString(divider.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	for _, line := range d.lines() {
		label, value, _ := strings.Cut(line, ": ")
		b.WriteString(styles.MutedText.Render(label+": ") + styles.Text.Render(truncate(value, inner-len(label)-2)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Render("[w] ") + styles.Text.Bold(true).Render(d.toggleLabel()))
	if d.status != "" {
		statusStyle := styles.SuccessText
		if d.statusInfo {
			statusStyle = styles.InfoText
		}
		b.WriteString("  " + statusStyle.Render(d.status))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Synopsis"))
	b.WriteString("\n")
	for _, line := range wrapText(d.synopsis(), inner) {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}

	switch {
	case d.loading:
		b.WriteString("\n" + styles.InfoText.Render("Loading details..."))
	case d.failed:
		b.WriteString("\n" + styles.WarningText.Render("Some details could not be loaded."))
	}

	b.WriteString("\n" + styles.FaintText.Render("esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// fetchDetailsCmd loads the full record for id.
func (m *Model) fetchDetailsCmd(id int64) tea.Cmd {
	catalog := m.catalog
	ctx := m.ctx
	if catalog == nil {
		return func() tea.Msg {
			return detailsMsg{id: id, err: errors.New("catalog not configured")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		details, err := catalog.MovieDetails(ctx, id)
		return detailsMsg{id: id, details: details, err: err}
	}
}

func toggleWatchlistCmd(lib *library.Library, movie tmdb.Movie) tea.Cmd {
	if lib == nil {
		return nil
	}
	return func() tea.Msg {
		saved, err := lib.ToggleWatchlist(movie)
		return watchlistToggledMsg{id: movie.ID, saved: saved, err: err}
	}
}
