package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/library"
	"github.com/five82/movieflix/internal/logging"
	"github.com/five82/movieflix/internal/prefs"
	"github.com/five82/movieflix/internal/state"
	"github.com/five82/movieflix/internal/tmdb"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewWatchlist
	ViewHistory
	ViewAbout
)

var viewOrder = []View{ViewHome, ViewWatchlist, ViewHistory, ViewAbout}

// String returns the tab label for the view.
func (v View) String() string {
	switch v {
	case ViewWatchlist:
		return "Watchlist"
	case ViewHistory:
		return "History"
	case ViewAbout:
		return "About"
	default:
		return "Home"
	}
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Catalog      tmdb.Catalog
	ImageBaseURL string
	Library      *library.Library
	Store        *state.Store
	// Changes delivers a value whenever the library's backing store is
	// written by another process.
	Changes <-chan struct{}
	// Refresh asks the feed refresher to reload the rows now.
	Refresh   func()
	Logger    *zap.Logger
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   tmdb.Catalog
	imageBase string
	library   *library.Library
	store     *state.Store
	changes   <-chan struct{}
	refresh   func()
	log       *zap.Logger
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	spinner     spinner.Model

	// Feed state
	snapshot state.Snapshot
	home     homeState

	// Library state
	watchlist    []tmdb.Movie
	history      []library.HistoryEntry
	watchSel     int
	historySel   int
	libraryReady bool

	// Search state
	search      searchState
	adultFilter bool

	// About page
	aboutViewport viewport.Model
	aboutWidth    int

	// Overlays
	modal    Modal
	showHelp bool

	// Transient status shown in the header
	errorMsg string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := logging.OrNop(opts.Logger)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		catalog:     opts.Catalog,
		imageBase:   opts.ImageBaseURL,
		library:     opts.Library,
		store:       opts.Store,
		changes:     opts.Changes,
		refresh:     opts.Refresh,
		log:         log,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		now:         now,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewHome,
		spinner:     sp,
		home:        newHomeState(),
		search:      newSearchState(),
		adultFilter: opts.Prefs.AdultFilter,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		loadLibraryCmd(m.library),
		waitForStoreChange(m.changes),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateAboutViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		snap := state.Snapshot(msg)
		if snap.Version != m.snapshot.Version {
			m.snapshot = snap
			m.clampHome()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case libraryMsg:
		m.watchlist = msg.watchlist
		m.history = msg.history
		m.libraryReady = true
		m.watchSel = clampIndex(m.watchSel, len(m.watchlist))
		m.historySel = clampIndex(m.historySel, len(m.history))
		return m, nil

	case libraryChangedMsg:
		if msg.err != nil {
			m.log.Warn("library update failed", zap.String("action", msg.action), zap.Error(msg.err))
			m.errorMsg = msg.action + " failed"
		}
		return m, loadLibraryCmd(m.library)

	case storeChangedMsg:
		m.log.Debug("library store changed on disk")
		return m, tea.Batch(loadLibraryCmd(m.library), waitForStoreChange(m.changes))

	case suggestionsMsg:
		m.handleSuggestions(msg)
		return m, nil

	case searchResultMsg:
		m.handleSearchResult(msg)
		return m, nil

	case detailsMsg, watchlistToggledMsg:
		var cmd tea.Cmd
		if m.modal != nil {
			m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		}
		if toggled, ok := msg.(watchlistToggledMsg); ok {
			if toggled.err != nil {
				m.errorMsg = "watchlist update failed"
			}
			return m, tea.Batch(cmd, loadLibraryCmd(m.library))
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.search.active {
		return m.handleSearchKey(msg)
	}

	m.errorMsg = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.aboutWidth = 0
		m.updateAboutViewport()
		return m, nil

	case key.Matches(msg, m.keys.AdultFilter):
		return m, m.toggleAdultFilter()

	case key.Matches(msg, m.keys.Search):
		return m, m.focusSearch()

	case key.Matches(msg, m.keys.Tab):
		m.currentView = cycleView(m.currentView, 1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.currentView = cycleView(m.currentView, -1)
		return m, nil

	case key.Matches(msg, m.keys.ViewHome):
		m.currentView = ViewHome
		return m, nil

	case key.Matches(msg, m.keys.ViewWatchlist):
		m.currentView = ViewWatchlist
		return m, loadLibraryCmd(m.library)

	case key.Matches(msg, m.keys.ViewHistory):
		m.currentView = ViewHistory
		return m, loadLibraryCmd(m.library)

	case key.Matches(msg, m.keys.ViewAbout):
		m.currentView = ViewAbout
		m.updateAboutViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.currentView != ViewHome {
			m.currentView = ViewHome
		}
		return m, nil
	}

	switch m.currentView {
	case ViewWatchlist:
		return m.handleWatchlistKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	case ViewAbout:
		return m.handleAboutKey(msg)
	default:
		return m.handleHomeKey(msg)
	}
}

// openDetail records movie in the history and opens the detail modal while
// the full record loads.
func (m *Model) openDetail(movie *tmdb.Movie) tea.Cmd {
	if movie == nil {
		m.log.Warn("no movie data provided for details")
		return nil
	}
	mv := *movie

	inWatchlist := false
	if m.library != nil {
		if err := m.library.RecordView(mv, m.now()); err != nil {
			m.log.Warn("record view failed", zap.Int64("id", mv.ID), zap.Error(err))
		}
		inWatchlist = m.library.InWatchlist(mv.ID)
	}

	m.modal = newDetailModal(mv, inWatchlist, m.library, m.imageBase, m.log)
	return tea.Batch(m.fetchDetailsCmd(mv.ID), loadLibraryCmd(m.library))
}

func (m *Model) toggleAdultFilter() tea.Cmd {
	m.adultFilter = !m.adultFilter
	m.savePrefs()
	m.log.Info("adult filter toggled", zap.Bool("enabled", m.adultFilter))
	if m.search.results != nil && m.search.lastQuery != "" {
		return m.submitSearch(m.search.lastQuery)
	}
	return nil
}

// adultLabel is the filter button text: it names whether adult titles are
// currently shown.
func (m Model) adultLabel() string {
	return ternary(m.adultFilter, "Adult: Off", "Adult: On")
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, AdultFilter: m.adultFilter}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", zap.Error(err))
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	contentHeight := max(m.height-2, 1)

	var top string
	if m.search.active {
		top = m.renderSearchBar()
		contentHeight -= strings.Count(top, "\n") + 1
	}

	var body string
	switch m.currentView {
	case ViewWatchlist:
		body = m.renderWatchlist(contentHeight)
	case ViewHistory:
		body = m.renderHistory(contentHeight)
	case ViewAbout:
		body = m.renderAbout(contentHeight)
	default:
		body = m.renderHome(contentHeight)
	}

	if top != "" {
		return top + "\n" + body
	}
	return body
}

func cycleView(current View, step int) View {
	for i, v := range viewOrder {
		if v == current {
			return viewOrder[(i+step+len(viewOrder))%len(viewOrder)]
		}
	}
	return ViewHome
}

func clampIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// gridColumns is the number of cards per line in the grid views.
func (m Model) gridColumns() int {
	return max((m.width-2)/CardWidth, 1)
}

// moveGrid applies a navigation key to a grid selection.
func (m Model) moveGrid(msg tea.KeyMsg, sel, n int) int {
	cols := m.gridColumns()
	switch {
	case key.Matches(msg, m.keys.Left):
		sel--
	case key.Matches(msg, m.keys.Right):
		sel++
	case key.Matches(msg, m.keys.Up):
		sel -= cols
	case key.Matches(msg, m.keys.Down):
		sel += cols
	case key.Matches(msg, m.keys.Top):
		sel = 0
	case key.Matches(msg, m.keys.Bottom):
		sel = n - 1
	}
	return clampIndex(sel, n)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type libraryMsg struct {
	watchlist []tmdb.Movie
	history   []library.HistoryEntry
}

type libraryChangedMsg struct {
	action string
	err    error
}

type storeChangedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loadLibraryCmd(lib *library.Library) tea.Cmd {
	if lib == nil {
		return nil
	}
	return func() tea.Msg {
		return libraryMsg{watchlist: lib.Watchlist(), history: lib.History()}
	}
}

func waitForStoreChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
