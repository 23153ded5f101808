package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/movieflix/internal/feed"
	"github.com/five82/movieflix/internal/tmdb"
)

// Snapshot represents the latest home feed available to the UI.
type Snapshot struct {
	Rows                []feed.Row
	Featured            *tmdb.Movie
	HasFeed             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int    // Number of consecutive refreshes where every row failed
	Version             uint64 // Bumped on every Update
}

// IsOffline returns true when the catalog has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Row returns the row for category.
func (s Snapshot) Row(category tmdb.Category) (feed.Row, bool) {
	for _, r := range s.Rows {
		if r.Category == category {
			return r, true
		}
	}
	return feed.Row{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update merges a freshly loaded feed into the snapshot. When every row
// failed the previous data is kept and the error recorded. A single failed
// row keeps its previous movies but carries the new error.
func (s *Store) Update(home feed.Home) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Version++
	s.snapshot.LastUpdated = time.Now()

	if home.Failed() {
		s.snapshot.LastError = home.Err()
		s.snapshot.ConsecutiveFailures++
		return
	}

	prev := s.snapshot.Rows
	rows := make([]feed.Row, len(home.Rows))
	for i, r := range home.Rows {
		rows[i] = r
		rows[i].Movies = cloneMovies(r.Movies)
		if r.Err != nil {
			for _, old := range prev {
				if old.Category == r.Category {
					rows[i].Movies = cloneMovies(old.Movies)
				}
			}
		}
	}
	s.snapshot.Rows = rows
	if home.Featured != nil {
		featured := *home.Featured
		s.snapshot.Featured = &featured
	}
	s.snapshot.HasFeed = true
	s.snapshot.LastError = home.Err()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if len(s.snapshot.Rows) > 0 {
		snap.Rows = make([]feed.Row, len(s.snapshot.Rows))
		for i, r := range s.snapshot.Rows {
			snap.Rows[i] = r
			snap.Rows[i].Movies = cloneMovies(r.Movies)
		}
	}
	if s.snapshot.Featured != nil {
		featured := *s.snapshot.Featured
		snap.Featured = &featured
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneMovies(items []tmdb.Movie) []tmdb.Movie {
	if len(items) == 0 {
		return nil
	}
	dup := make([]tmdb.Movie, len(items))
	copy(dup, items)
	return dup
}
