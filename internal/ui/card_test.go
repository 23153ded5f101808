package ui

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/movieflix/internal/library"
	"github.com/five82/movieflix/internal/tmdb"
)

func TestCardLines(t *testing.T) {
	tests := []struct {
		name string
		card card
		want []string
	}{
		{
			name: "standard",
			card: card{Movie: tmdb.Movie{Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.94}},
			want: []string{"7.9 1995", "Heat", ""},
		},
		{
			name: "whole rating drops decimal",
			card: card{Movie: tmdb.Movie{Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.04}},
			want: []string{"8 1979", "Alien", ""},
		},
		{
			name: "missing date and title",
			card: card{Movie: tmdb.Movie{VoteAverage: 0}},
			want: []string{"0 N/A", "Untitled", ""},
		},
		{
			name: "watchlist",
			card: card{Movie: tmdb.Movie{Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9}, Kind: cardWatchlist},
			want: []string{"7.9 1995", "Heat", "x Remove"},
		},
		{
			name: "history without time",
			card: card{Movie: tmdb.Movie{Title: "Heat", ReleaseDate: "bad", VoteAverage: 7.9}, Kind: cardHistory},
			want: []string{"7.9 N/A", "Heat", msgRecentlyViewed},
		},
		{
			name: "long title truncated",
			card: card{Movie: tmdb.Movie{Title: "The Assassination of Jesse James", ReleaseDate: "2007-09-02", VoteAverage: 7.1}},
			want: []string{"7.1 2007", "The Assassi...", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.card.lines(14)); diff != "" {
				t.Fatalf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatViewedAt(t *testing.T) {
	if got := formatViewedAt(time.Time{}); got != msgRecentlyViewed {
		t.Fatalf("formatViewedAt(zero) = %q, want %q", got, msgRecentlyViewed)
	}
	at := time.Date(2024, 3, 5, 14, 7, 0, 0, time.Local)
	if got := formatViewedAt(at); got != "Viewed: Mar 5, 02:07 PM" {
		t.Fatalf("formatViewedAt = %q", got)
	}
}

func TestHistoryCardsCarryViewedTime(t *testing.T) {
	entries := []library.HistoryEntry{
		{Movie: tmdb.Movie{ID: 1, Title: "Heat"}, ViewedAt: "2024-03-05T14:07:00Z"},
		{Movie: tmdb.Movie{ID: 2, Title: "Ronin"}, ViewedAt: "not a time"},
	}
	cards := historyCards(entries)
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	if want := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC); !cards[0].ViewedAt.Equal(want) {
		t.Fatalf("ViewedAt = %v, want %v", cards[0].ViewedAt, want)
	}
	if got := cards[1].footer(); got != msgRecentlyViewed {
		t.Fatalf("footer = %q, want %q", got, msgRecentlyViewed)
	}
}

func TestDetailHelpers(t *testing.T) {
	if got := formatRuntime(0); got != "N/A" {
		t.Fatalf("formatRuntime(0) = %q", got)
	}
	if got := formatRuntime(170); got != "170 minutes" {
		t.Fatalf("formatRuntime(170) = %q", got)
	}
	if got := joinGenres(nil); got != "N/A" {
		t.Fatalf("joinGenres(nil) = %q", got)
	}
	if got := joinGenres([]tmdb.Genre{{Name: "Crime"}, {Name: " "}, {Name: "Drama"}}); got != "Crime, Drama" {
		t.Fatalf("joinGenres = %q", got)
	}
	if diff := cmp.Diff([]string{"one two", "three"}, wrapText("one two three", 8)); diff != "" {
		t.Fatalf("wrapText mismatch (-want +got):\n%s", diff)
	}
}
