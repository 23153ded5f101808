package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/movieflix/internal/app"
	"github.com/five82/movieflix/internal/config"
	"github.com/five82/movieflix/internal/prefs"
	"github.com/five82/movieflix/internal/tmdb"
)

type stubCatalog struct {
	rows         map[tmdb.Category][]tmdb.Movie
	search       []tmdb.Movie
	actor        []tmdb.Movie
	actorErr     error
	details      map[int64]tmdb.MovieDetails
	includeAdult []bool
	filterAdult  []bool
}

func (s *stubCatalog) FetchCategory(_ context.Context, category tmdb.Category) ([]tmdb.Movie, error) {
	return s.rows[category], nil
}

func (s *stubCatalog) SearchMovies(_ context.Context, _ string, includeAdult bool) ([]tmdb.Movie, error) {
	s.includeAdult = append(s.includeAdult, includeAdult)
	return s.search, nil
}

func (s *stubCatalog) SearchByActor(_ context.Context, _ string, filterAdult bool) ([]tmdb.Movie, error) {
	s.filterAdult = append(s.filterAdult, filterAdult)
	return s.actor, s.actorErr
}

func (s *stubCatalog) Suggest(context.Context, string) ([]string, error) { return nil, nil }

func (s *stubCatalog) MovieDetails(_ context.Context, id int64) (tmdb.MovieDetails, error) {
	d, ok := s.details[id]
	if !ok {
		return tmdb.MovieDetails{}, errors.New("status 404")
	}
	return d, nil
}

var (
	viewedAt = time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

	heat  = tmdb.Movie{ID: 949, Title: "Heat", PosterPath: "/heat.jpg", ReleaseDate: "1995-12-15", VoteAverage: 7.94}
	ronin = tmdb.Movie{ID: 8195, Title: "Ronin", PosterPath: "/ronin.jpg", ReleaseDate: "1998-09-25", VoteAverage: 6.9}
)

// newTestCLI returns a cli wired to a temp data dir and stub catalog.
func newTestCLI(t *testing.T, catalog *stubCatalog) *cli {
	t.Helper()
	t.Setenv(config.APIKeyEnv, "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := "data_dir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cli{
		opts: app.Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml")},
		runTUI: func(context.Context, app.Options) error {
			return errors.New("tui should not run")
		},
		catalog: func(*app.Env) (tmdb.Catalog, error) { return catalog, nil },
	}
}

func execute(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	cfgPath, prefsPath := c.opts.ConfigPath, c.opts.PrefsPath
	// Binding the flags resets c.opts to their defaults.
	root := newRootCmd(c)
	args = append(args, "--config", cfgPath, "--prefs", prefsPath)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestWatchlistAddListRemove(t *testing.T) {
	catalog := &stubCatalog{details: map[int64]tmdb.MovieDetails{
		heat.ID: {Movie: heat, Runtime: 170},
	}}
	c := newTestCLI(t, catalog)

	got, err := execute(t, c, "watchlist", "add", "949")
	if err != nil || !strings.Contains(got, "Added Heat") {
		t.Fatalf("add = %q, %v", got, err)
	}
	got, err = execute(t, c, "watchlist", "add", "949")
	if err != nil || !strings.Contains(got, "already in your watchlist") {
		t.Fatalf("second add = %q, %v", got, err)
	}

	got, err = execute(t, c, "watchlist", "list")
	if err != nil || !strings.Contains(got, "Heat") || !strings.Contains(got, "1995") {
		t.Fatalf("list = %q, %v", got, err)
	}

	got, err = execute(t, c, "watchlist", "remove", "949")
	if err != nil || !strings.Contains(got, "Removed movie 949") {
		t.Fatalf("remove = %q, %v", got, err)
	}
	got, err = execute(t, c, "watchlist")
	if err != nil || !strings.Contains(got, "Your watchlist is empty.") {
		t.Fatalf("list after remove = %q, %v", got, err)
	}
}

func TestWatchlistAddErrors(t *testing.T) {
	noPoster := heat
	noPoster.PosterPath = ""
	catalog := &stubCatalog{details: map[int64]tmdb.MovieDetails{heat.ID: {Movie: noPoster}}}
	c := newTestCLI(t, catalog)

	if _, err := execute(t, c, "watchlist", "add", "abc"); err == nil || !strings.Contains(err.Error(), "invalid movie id") {
		t.Fatalf("add abc error = %v", err)
	}
	if _, err := execute(t, c, "watchlist", "add", "1"); err == nil || !strings.Contains(err.Error(), "fetch movie 1") {
		t.Fatalf("add unknown error = %v", err)
	}
	if _, err := execute(t, c, "watchlist", "add", "949"); err == nil || !strings.Contains(err.Error(), "cannot be saved") {
		t.Fatalf("add without poster error = %v", err)
	}
}

func TestHistoryListAndClear(t *testing.T) {
	c := newTestCLI(t, &stubCatalog{})

	got, err := execute(t, c, "history")
	if err != nil || !strings.Contains(got, "Your viewing history is empty.") {
		t.Fatalf("empty history = %q, %v", got, err)
	}

	err = c.withEnv(func(env *app.Env) error {
		return env.Library.RecordView(ronin, viewedAt)
	})
	if err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	got, err = execute(t, c, "history", "list")
	if err != nil || !strings.Contains(got, "Ronin") {
		t.Fatalf("history list = %q, %v", got, err)
	}

	if _, err := execute(t, c, "history", "clear"); err != nil {
		t.Fatalf("history clear: %v", err)
	}
	got, _ = execute(t, c, "history")
	if !strings.Contains(got, "Your viewing history is empty.") {
		t.Fatalf("history after clear = %q", got)
	}
}

func TestSearchUsesAdultPrefsAndFlag(t *testing.T) {
	catalog := &stubCatalog{search: []tmdb.Movie{heat}}
	c := newTestCLI(t, catalog)

	got, err := execute(t, c, "search", "heat")
	if err != nil || !strings.Contains(got, `Search Results for "heat"`) || !strings.Contains(got, "Heat") {
		t.Fatalf("search = %q, %v", got, err)
	}

	if err := prefs.Save(c.opts.PrefsPath, prefs.Prefs{Theme: "Slate", AdultFilter: true}); err != nil {
		t.Fatalf("prefs.Save: %v", err)
	}
	if _, err := execute(t, c, "search", "heat"); err != nil {
		t.Fatalf("search with filter: %v", err)
	}
	if _, err := execute(t, c, "search", "--adult", "heat"); err != nil {
		t.Fatalf("search --adult: %v", err)
	}

	want := []bool{true, false, true}
	if len(catalog.includeAdult) != len(want) {
		t.Fatalf("includeAdult = %v, want %v", catalog.includeAdult, want)
	}
	for i := range want {
		if catalog.includeAdult[i] != want[i] {
			t.Fatalf("includeAdult = %v, want %v", catalog.includeAdult, want)
		}
	}
}

func TestSearchActor(t *testing.T) {
	catalog := &stubCatalog{actor: []tmdb.Movie{heat, ronin}}
	c := newTestCLI(t, catalog)

	got, err := execute(t, c, "search", "actor:Robert", "De", "Niro")
	if err != nil || !strings.Contains(got, "Movies with Robert De Niro") || !strings.Contains(got, "Ronin") {
		t.Fatalf("actor search = %q, %v", got, err)
	}

	catalog.actorErr = tmdb.ErrActorNotFound
	if _, err := execute(t, c, "search", "actor:Nobody"); !errors.Is(err, tmdb.ErrActorNotFound) {
		t.Fatalf("actor error = %v, want ErrActorNotFound", err)
	}
	if _, err := execute(t, c, "search", "actor:"); err == nil {
		t.Fatalf("empty actor query succeeded")
	}
}

func TestBrowse(t *testing.T) {
	catalog := &stubCatalog{rows: map[tmdb.Category][]tmdb.Movie{
		tmdb.CategoryTrending: {heat},
		tmdb.CategoryPopular:  {ronin},
		tmdb.CategoryTopRated: {heat},
	}}
	c := newTestCLI(t, catalog)

	got, err := execute(t, c, "browse")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	for _, want := range []string{"Featured: Heat (1995)", "Trending", "Popular", "Top Rated", "Ronin"} {
		if !strings.Contains(got, want) {
			t.Fatalf("browse output missing %q:\n%s", want, got)
		}
	}

	got, err = execute(t, c, "browse", "popular")
	if err != nil || !strings.Contains(got, "Ronin") || strings.Contains(got, "Heat") {
		t.Fatalf("browse popular = %q, %v", got, err)
	}

	if _, err := execute(t, c, "browse", "upcoming"); err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Fatalf("browse upcoming error = %v", err)
	}
}

func TestRootRunsTUI(t *testing.T) {
	c := newTestCLI(t, &stubCatalog{})
	var gotOpts app.Options
	c.runTUI = func(_ context.Context, opts app.Options) error {
		gotOpts = opts
		return nil
	}
	if _, err := execute(t, c, "--verbose"); err != nil {
		t.Fatalf("root: %v", err)
	}
	if !gotOpts.Verbose || gotOpts.ConfigPath == "" {
		t.Fatalf("opts = %+v, want verbose with config path", gotOpts)
	}
}

func TestLogsShowsLibraryWarnings(t *testing.T) {
	c := newTestCLI(t, &stubCatalog{})

	got, err := execute(t, c, "logs")
	if err != nil || !strings.Contains(got, "No log entries") {
		t.Fatalf("logs before any writes = %q, %v", got, err)
	}

	// A corrupt watchlist value is logged as a warning when read.
	err = c.withEnv(func(env *app.Env) error {
		if err := env.KV.Set("watchlist", "{not json"); err != nil {
			return err
		}
		if got := env.Library.Watchlist(); len(got) != 0 {
			t.Fatalf("corrupt watchlist = %+v, want empty", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withEnv: %v", err)
	}

	got, err = execute(t, c, "logs", "--level", "warn")
	if err != nil || !strings.Contains(got, "WARN") || !strings.Contains(got, "library") {
		t.Fatalf("logs = %q, %v", got, err)
	}

	if _, err := execute(t, c, "logs", "--level", "loud"); err == nil {
		t.Fatalf("invalid level accepted")
	}
}
