package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/tmdb"
)

// searchState holds the search input, the autocomplete dropdown and the
// current results row.
type searchState struct {
	input       textinput.Model
	active      bool
	suggestions []string
	suggestIdx  int
	showSuggest bool

	// seq increases on every keystroke; suggestion responses carrying an
	// older value are dropped.
	seq uint64
	// resultsSeq does the same for submitted searches.
	resultsSeq uint64

	lastQuery string
	results   *searchResults
}

// searchResults is the row shown above the categories after a search.
type searchResults struct {
	query   string
	title   string
	actor   bool
	movies  []tmdb.Movie
	loading bool
	message string
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = `Search movies, or actor:"name"`
	ti.Prompt = "/ "
	ti.CharLimit = 100
	return searchState{input: ti, suggestIdx: -1}
}

// focusSearch activates the search input.
func (m *Model) focusSearch() tea.Cmd {
	m.search.active = true
	m.search.suggestIdx = -1
	return m.search.input.Focus()
}

func (m *Model) blurSearch() {
	m.search.active = false
	m.search.showSuggest = false
	m.search.suggestions = nil
	m.search.suggestIdx = -1
	m.search.input.Blur()
}

// handleSearchKey processes keyboard input while the search input is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.search

	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := s.input.Value()
		if s.showSuggest && s.suggestIdx >= 0 && s.suggestIdx < len(s.suggestions) {
			query = s.suggestions[s.suggestIdx]
		}
		return m, m.submitSearch(query)

	case key.Matches(msg, m.keys.AcceptSuggest):
		if s.showSuggest && len(s.suggestions) > 0 {
			idx := max(s.suggestIdx, 0)
			s.input.SetValue(s.suggestions[idx])
			s.input.CursorEnd()
			s.showSuggest = false
			s.suggestIdx = -1
			s.seq++
		}
		return m, nil

	case key.Matches(msg, m.keys.SuggestUp):
		if s.showSuggest && len(s.suggestions) > 0 {
			s.suggestIdx = max(s.suggestIdx-1, 0)
		}
		return m, nil

	case key.Matches(msg, m.keys.SuggestDown):
		if s.showSuggest && len(s.suggestions) > 0 {
			s.suggestIdx = min(s.suggestIdx+1, len(s.suggestions)-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if s.showSuggest {
			s.showSuggest = false
			s.suggestIdx = -1
			return m, nil
		}
		m.blurSearch()
		return m, nil
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	after := s.input.Value()
	if after == before {
		return m, cmd
	}

	s.seq++
	s.suggestIdx = -1
	actor, term := tmdb.ParseQuery(after)
	if actor || term == "" {
		s.showSuggest = false
		s.suggestions = nil
		return m, cmd
	}
	return m, tea.Batch(cmd, m.suggestCmd(s.seq, term))
}

// submitSearch starts a search for q and replaces the results row.
func (m *Model) submitSearch(q string) tea.Cmd {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	actor, term := tmdb.ParseQuery(q)
	if actor && term == "" {
		return nil
	}

	title := `Search Results for "` + q + `"`
	if actor {
		title = "Movies with " + term
	}

	m.search.resultsSeq++
	m.search.lastQuery = q
	m.search.results = &searchResults{query: q, title: title, actor: actor, loading: true}
	m.search.input.SetValue("")
	m.blurSearch()
	m.home.row = 0
	m.home.cols["search"] = 0
	m.currentView = ViewHome

	m.log.Info("search submitted", zap.String("query", q), zap.Bool("actor", actor), zap.Bool("adult_filter", m.adultFilter))
	return m.searchCmd(m.search.resultsSeq, q, actor, term)
}

// handleSuggestions applies an autocomplete response if it is still current.
func (m *Model) handleSuggestions(msg suggestionsMsg) {
	if msg.seq != m.search.seq || !m.search.active {
		return
	}
	if msg.err != nil {
		m.log.Debug("suggestions failed", zap.Error(msg.err))
		m.search.suggestions = nil
		m.search.showSuggest = false
		return
	}
	titles := msg.titles
	if len(titles) > SuggestionLimit {
		titles = titles[:SuggestionLimit]
	}
	m.search.suggestions = titles
	m.search.suggestIdx = -1
	m.search.showSuggest = len(titles) > 0
}

// handleSearchResult fills the results row if msg belongs to the latest search.
func (m *Model) handleSearchResult(msg searchResultMsg) {
	r := m.search.results
	if r == nil || msg.seq != m.search.resultsSeq {
		return
	}
	r.loading = false
	switch {
	case msg.err != nil:
		m.log.Warn("search failed", zap.String("query", msg.query), zap.Error(msg.err))
		r.movies = nil
		r.message = ternary(msg.actor, msgActorError, msgSearchError)
	case len(msg.movies) == 0:
		r.movies = nil
		r.message = msgNoResults
	default:
		r.movies = msg.movies
		r.message = ""
	}
	m.clampHome()
}

type suggestionsMsg struct {
	seq    uint64
	titles []string
	err    error
}

type searchResultMsg struct {
	seq    uint64
	query  string
	actor  bool
	movies []tmdb.Movie
	err    error
}

func (m Model) suggestCmd(seq uint64, term string) tea.Cmd {
	catalog := m.catalog
	ctx := m.ctx
	if catalog == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		titles, err := catalog.Suggest(ctx, term)
		return suggestionsMsg{seq: seq, titles: titles, err: err}
	}
}

func (m Model) searchCmd(seq uint64, query string, actor bool, term string) tea.Cmd {
	catalog := m.catalog
	ctx := m.ctx
	adultFilter := m.adultFilter
	if catalog == nil {
		return func() tea.Msg {
			return searchResultMsg{seq: seq, query: query, actor: actor, err: errors.New("catalog not configured")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()

		var movies []tmdb.Movie
		var err error
		if actor {
			movies, err = catalog.SearchByActor(ctx, term, adultFilter)
		} else {
			movies, err = catalog.SearchMovies(ctx, term, !adultFilter)
		}
		return searchResultMsg{seq: seq, query: query, actor: actor, movies: movies, err: err}
	}
}

// renderSearchBar renders the input line and, when open, the suggestion list.
func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	line := bg.FillLine(" "+m.search.input.View(), m.width)
	if !m.search.showSuggest || len(m.search.suggestions) == 0 {
		return line
	}

	width := min(max(m.width-4, 20), 60)
	rows := make([]string, 0, len(m.search.suggestions))
	for i, title := range m.search.suggestions {
		text := padRight(truncate(title, width-2), width-2)
		if i == m.search.suggestIdx {
			rows = append(rows, styles.Selected.Render(" "+text+" "))
		} else {
			rows = append(rows, styles.SurfaceAlt.Render(" "+text+" "))
		}
	}
	dropdown := lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(rows, "\n"))
	return line + "\n" + dropdown
}
