// Package library keeps the user's watchlist and viewing history.
//
// Both lists live in a storage.KV as JSON arrays under the keys "watchlist"
// and "movieHistory". Every operation reads the stored array, edits it and
// writes it back, so several movieflix processes sharing a store see each
// other's changes on their next call.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/logging"
	"github.com/five82/movieflix/internal/storage"
	"github.com/five82/movieflix/internal/tmdb"
)

const (
	WatchlistKey = "watchlist"
	HistoryKey   = "movieHistory"

	// DefaultHistoryLimit caps the number of history entries kept.
	DefaultHistoryLimit = 20
)

// ErrInvalidMovie is returned when a movie lacks the fields an operation needs.
var ErrInvalidMovie = errors.New("invalid movie")

// HistoryEntry is a viewed movie plus the time it was opened.
type HistoryEntry struct {
	tmdb.Movie
	ViewedAt string `json:"viewedAt,omitempty"`
}

// ViewedTime parses ViewedAt. The zero time means unknown.
func (h HistoryEntry) ViewedTime() time.Time {
	if h.ViewedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, h.ViewedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Library serializes watchlist and history edits against a KV store.
type Library struct {
	mu           sync.Mutex
	kv           storage.KV
	historyLimit int
	log          *zap.Logger
}

// Options configure a Library.
type Options struct {
	HistoryLimit int
	Logger       *zap.Logger
}

// New wraps kv. A non-positive history limit uses DefaultHistoryLimit.
func New(kv storage.KV, opts Options) *Library {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	log := logging.OrNop(opts.Logger)
	return &Library{kv: kv, historyLimit: limit, log: log}
}

// Watchlist returns the saved movies in insertion order.
func (l *Library) Watchlist() []tmdb.Movie {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.watchlist()
}

// InWatchlist reports whether a movie with id is saved.
func (l *Library) InWatchlist(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return indexOf(l.watchlist(), id) >= 0
}

// AddToWatchlist appends movie unless an entry with the same id or title is
// already saved. It reports whether the movie was added.
func (l *Library) AddToWatchlist(movie tmdb.Movie) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addLocked(movie)
}

// RemoveFromWatchlist drops every entry with id. Removing an absent id is not
// an error.
func (l *Library) RemoveFromWatchlist(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeLocked(id)
}

// ToggleWatchlist removes movie when saved and adds it otherwise. It reports
// whether the movie is saved afterwards, which is false when the add is
// refused because another entry already has the same title.
func (l *Library) ToggleWatchlist(movie tmdb.Movie) (bool, error) {
	if movie.ID == 0 {
		return false, fmt.Errorf("%w: missing id", ErrInvalidMovie)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if indexOf(l.watchlist(), movie.ID) >= 0 {
		if err := l.removeLocked(movie.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	return l.addLocked(movie)
}

// History returns viewed movies, most recent first.
func (l *Library) History() []HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history()
}

// RecordView moves movie to the front of the history, stamped with at, and
// trims the list to the history limit.
func (l *Library) RecordView(movie tmdb.Movie, at time.Time) error {
	if movie.ID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidMovie)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.history()
	next := make([]HistoryEntry, 0, len(existing)+1)
	next = append(next, HistoryEntry{Movie: movie, ViewedAt: at.UTC().Format(time.RFC3339Nano)})
	for _, entry := range existing {
		if entry.ID != movie.ID {
			next = append(next, entry)
		}
	}
	if len(next) > l.historyLimit {
		next = next[:l.historyLimit]
	}
	if err := l.write(HistoryKey, next); err != nil {
		return err
	}
	l.log.Debug("recorded view", zap.Int64("id", movie.ID), zap.String("title", movie.Title))
	return nil
}

// ClearHistory removes every history entry.
func (l *Library) ClearHistory() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.kv.Remove(HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	l.log.Info("history cleared")
	return nil
}

func (l *Library) addLocked(movie tmdb.Movie) (bool, error) {
	if strings.TrimSpace(movie.Title) == "" || strings.TrimSpace(movie.PosterPath) == "" {
		l.log.Warn("rejecting watchlist add", zap.Int64("id", movie.ID), zap.String("title", movie.Title))
		return false, fmt.Errorf("%w: title and poster are required", ErrInvalidMovie)
	}

	list := l.watchlist()
	for _, existing := range list {
		if existing.ID == movie.ID || existing.Title == movie.Title {
			l.log.Debug("already in watchlist", zap.String("title", movie.Title))
			return false, nil
		}
	}
	list = append(list, movie)
	if err := l.write(WatchlistKey, list); err != nil {
		return false, err
	}
	l.log.Info("added to watchlist", zap.Int64("id", movie.ID), zap.String("title", movie.Title))
	return true, nil
}

func (l *Library) removeLocked(id int64) error {
	list := l.watchlist()
	kept := make([]tmdb.Movie, 0, len(list))
	for _, m := range list {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if err := l.write(WatchlistKey, kept); err != nil {
		return err
	}
	l.log.Info("removed from watchlist", zap.Int64("id", id))
	return nil
}

func (l *Library) watchlist() []tmdb.Movie {
	var list []tmdb.Movie
	l.read(WatchlistKey, &list)
	return list
}

func (l *Library) history() []HistoryEntry {
	var list []HistoryEntry
	l.read(HistoryKey, &list)
	return list
}

// read decodes key into dest. Missing, unreadable and corrupt values all
// leave dest empty; the latter two are logged.
func (l *Library) read(key string, dest any) {
	raw, ok, err := l.kv.Get(key)
	if err != nil {
		l.log.Warn("read store failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok || strings.TrimSpace(raw) == "" || raw == "null" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		l.log.Warn("stored value is corrupt; treating as empty", zap.String("key", key), zap.Error(err))
	}
}

func (l *Library) write(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := l.kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func indexOf(list []tmdb.Movie, id int64) int {
	for i, m := range list {
		if m.ID == id {
			return i
		}
	}
	return -1
}
