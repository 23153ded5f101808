// Package feed loads the home screen: one row per browse category plus a
// featured movie for the banner.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/movieflix/internal/logging"
	"github.com/five82/movieflix/internal/tmdb"
)

// featuredPool is how many leading trending results the banner picks from.
const featuredPool = 5

// Fetcher is the part of tmdb.Catalog the feed needs.
type Fetcher interface {
	FetchCategory(ctx context.Context, category tmdb.Category) ([]tmdb.Movie, error)
}

// Row is one category row. A row that failed to load has Err set and no
// movies.
type Row struct {
	Category tmdb.Category
	Title    string
	Movies   []tmdb.Movie
	Err      error
}

// Home is the loaded home screen.
type Home struct {
	Rows     []Row
	Featured *tmdb.Movie
}

// Failed reports whether every row failed.
func (h Home) Failed() bool {
	if len(h.Rows) == 0 {
		return false
	}
	for _, r := range h.Rows {
		if r.Err == nil {
			return false
		}
	}
	return true
}

// Err joins the row errors.
func (h Home) Err() error {
	var errs []error
	for _, r := range h.Rows {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Title, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Row returns the row for category.
func (h Home) Row(category tmdb.Category) (Row, bool) {
	for _, r := range h.Rows {
		if r.Category == category {
			return r, true
		}
	}
	return Row{}, false
}

// Load fetches every category concurrently. Row failures are recorded on the
// row and logged; they do not fail the load. rng picks the featured movie and
// may be nil.
func Load(ctx context.Context, fetcher Fetcher, rng *rand.Rand, log *zap.Logger) Home {
	log = logging.OrNop(log)

	rows := make([]Row, len(tmdb.Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range tmdb.Categories {
		rows[i] = Row{Category: category, Title: category.Title()}
		g.Go(func() error {
			movies, err := fetcher.FetchCategory(gctx, category)
			if err != nil {
				log.Warn("load row failed", zap.String("category", string(category)), zap.Error(err))
				rows[i].Err = err
				return nil
			}
			rows[i].Movies = movies
			return nil
		})
	}
	_ = g.Wait()

	home := Home{Rows: rows}
	if trending, ok := home.Row(tmdb.CategoryTrending); ok {
		home.Featured = PickFeatured(trending.Movies, rng)
	}
	return home
}

// PickFeatured returns a random movie from the first five, or nil for an
// empty list.
func PickFeatured(movies []tmdb.Movie, rng *rand.Rand) *tmdb.Movie {
	if len(movies) == 0 {
		return nil
	}
	n := min(featuredPool, len(movies))
	var idx int
	if rng != nil {
		idx = rng.Intn(n)
	} else {
		idx = rand.Intn(n)
	}
	picked := movies[idx]
	return &picked
}
