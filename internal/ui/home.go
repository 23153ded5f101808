package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/movieflix/internal/tmdb"
)

// bannerHeight is the number of lines the featured banner takes.
const bannerHeight = 5

// homeState tracks the selected row and the selected card within each row.
type homeState struct {
	row  int
	cols map[string]int
}

func newHomeState() homeState {
	return homeState{cols: make(map[string]int)}
}

// homeRow is one titled strip of cards on the home screen.
type homeRow struct {
	key     string
	title   string
	movies  []tmdb.Movie
	loading bool
	message string
}

// homeRows returns the search results row (when present) followed by the
// category rows in display order.
func (m Model) homeRows() []homeRow {
	var rows []homeRow
	if r := m.search.results; r != nil {
		rows = append(rows, homeRow{
			key:     "search",
			title:   r.title,
			movies:  r.movies,
			loading: r.loading,
			message: r.message,
		})
	}
	for _, category := range tmdb.Categories {
		row := homeRow{key: string(category), title: category.Title()}
		if !m.snapshot.HasFeed {
			row.loading = m.snapshot.LastError == nil
		} else if r, ok := m.snapshot.Row(category); ok {
			row.movies = r.Movies
		}
		rows = append(rows, row)
	}
	return rows
}

// selectedHomeMovie returns the movie under the cursor, or nil.
func (m Model) selectedHomeMovie() *tmdb.Movie {
	rows := m.homeRows()
	if m.home.row < 0 || m.home.row >= len(rows) {
		return nil
	}
	row := rows[m.home.row]
	col := m.home.cols[row.key]
	if col < 0 || col >= len(row.movies) {
		return nil
	}
	mv := row.movies[col]
	return &mv
}

// clampHome keeps the selection inside the current rows after data changes.
func (m *Model) clampHome() {
	rows := m.homeRows()
	m.home.row = clampIndex(m.home.row, len(rows))
	for _, r := range rows {
		m.home.cols[r.key] = clampIndex(m.home.cols[r.key], len(r.movies))
	}
}

// handleHomeKey processes keyboard input for the home view.
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.homeRows()
	if len(rows) == 0 {
		return m, nil
	}
	current := rows[clampIndex(m.home.row, len(rows))]

	switch {
	case key.Matches(msg, m.keys.Up):
		m.home.row = clampIndex(m.home.row-1, len(rows))
	case key.Matches(msg, m.keys.Down):
		m.home.row = clampIndex(m.home.row+1, len(rows))
	case key.Matches(msg, m.keys.Left):
		m.home.cols[current.key] = clampIndex(m.home.cols[current.key]-1, len(current.movies))
	case key.Matches(msg, m.keys.Right):
		m.home.cols[current.key] = clampIndex(m.home.cols[current.key]+1, len(current.movies))
	case key.Matches(msg, m.keys.Top):
		m.home.row = 0
	case key.Matches(msg, m.keys.Bottom):
		m.home.row = len(rows) - 1
	case key.Matches(msg, m.keys.Open):
		return m, m.openDetail(m.selectedHomeMovie())
	case key.Matches(msg, m.keys.Featured):
		return m, m.openDetail(m.snapshot.Featured)
	case key.Matches(msg, m.keys.DismissResults):
		if m.search.results != nil {
			m.search.results = nil
			m.search.lastQuery = ""
			delete(m.home.cols, "search")
			m.home.row = 0
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil {
			m.refresh()
		}
	}
	return m, nil
}

// renderHome renders the banner and the card rows.
func (m Model) renderHome(height int) string {
	width := m.width
	banner := m.renderBanner(width)

	rows := m.homeRows()
	rowHeight := CardHeight + 2
	available := max(height-bannerHeight, rowHeight)
	visible := max(available/rowHeight, 1)

	start := 0
	if m.home.row >= visible {
		start = m.home.row - visible + 1
	}
	end := min(start+visible, len(rows))

	blocks := []string{banner}
	for i := start; i < end; i++ {
		blocks = append(blocks, m.renderHomeRow(rows[i], i == m.home.row, width))
	}
	return strings.Join(blocks, "\n")
}

func (m Model) renderHomeRow(row homeRow, focused bool, width int) string {
	styles := m.theme.Styles()

	titleStyle := styles.Text.Bold(true)
	marker := "  "
	if focused {
		titleStyle = styles.AccentText.Bold(true)
		marker = "▍ "
	}
	title := styles.AccentText.Render(marker) + titleStyle.Render(row.title)

	var body string
	switch {
	case row.loading:
		body = styles.MutedText.Render("  " + m.spinner.View() + " Loading...")
	case row.message != "":
		body = styles.MutedText.Render("  " + row.message)
	case len(row.movies) == 0:
		body = ""
	default:
		selected := -1
		if focused {
			selected = m.home.cols[row.key]
		}
		body = lipgloss.NewStyle().PaddingLeft(2).Render(
			m.renderCardStrip(standardCards(row.movies), selected, width-2))
	}

	return lipgloss.NewStyle().Height(CardHeight + 2).MaxHeight(CardHeight + 2).Render(title + "\n" + body)
}

// renderBanner renders the featured movie.
func (m Model) renderBanner(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	inner := max(width-4, 10)

	var lines []string
	switch featured := m.snapshot.Featured; {
	case featured != nil:
		lines = append(lines, bg.Render(truncate(featured.Title, inner), styles.Logo))
		overview := wrapText(featured.Overview, inner)
		if len(overview) > 2 {
			overview = overview[:2]
			overview[1] = truncate(overview[1]+" ...", inner)
		}
		for _, l := range overview {
			lines = append(lines, bg.Render(l, styles.Text))
		}
		lines = append(lines, bg.Render("i", styles.AccentText)+bg.Render(": More Info", styles.MutedText))
	case !m.snapshot.HasFeed && m.snapshot.LastError == nil:
		lines = append(lines, bg.Render(m.spinner.View()+" Loading featured movie...", styles.MutedText))
	default:
		lines = append(lines, bg.Render("MovieFlix", styles.Logo))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(width).
		Height(bannerHeight-1).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}
