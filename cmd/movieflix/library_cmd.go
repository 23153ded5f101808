package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/movieflix/internal/app"
	"github.com/five82/movieflix/internal/library"
)

func newWatchlistCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show or edit the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.listWatchlist(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved movies",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.listWatchlist(cmd)
			},
		},
		&cobra.Command{
			Use:   "add <movie-id>",
			Short: "Look up a movie by TMDB id and save it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.withEnv(func(env *app.Env) error {
					catalog, err := c.catalog(env)
					if err != nil {
						return err
					}
					details, err := catalog.MovieDetails(cmd.Context(), id)
					if err != nil {
						return fmt.Errorf("fetch movie %d: %w", id, err)
					}
					added, err := env.Library.AddToWatchlist(details.Movie)
					if errors.Is(err, library.ErrInvalidMovie) {
						return fmt.Errorf("movie %d has no title or poster and cannot be saved", id)
					}
					if err != nil {
						return err
					}
					if !added {
						fmt.Fprintf(out(cmd), "%s is already in your watchlist\n", details.Title)
						return nil
					}
					fmt.Fprintf(out(cmd), "Added %s to your watchlist\n", details.Title)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "remove <movie-id>",
			Aliases: []string{"rm"},
			Short:   "Remove a movie from the watchlist",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.withEnv(func(env *app.Env) error {
					if !env.Library.InWatchlist(id) {
						fmt.Fprintf(out(cmd), "Movie %d is not in your watchlist\n", id)
						return nil
					}
					if err := env.Library.RemoveFromWatchlist(id); err != nil {
						return err
					}
					fmt.Fprintf(out(cmd), "Removed movie %d\n", id)
					return nil
				})
			},
		},
	)
	return cmd
}

func (c *cli) listWatchlist(cmd *cobra.Command) error {
	return c.withEnv(func(env *app.Env) error {
		movies := env.Library.Watchlist()
		if len(movies) == 0 {
			fmt.Fprintln(out(cmd), "Your watchlist is empty.")
			return nil
		}
		fmt.Fprintln(out(cmd), movieTable(movies))
		return nil
	})
}

func newHistoryCmd(c *cli) *cobra.Command {
	list := func(cmd *cobra.Command, _ []string) error {
		return c.withEnv(func(env *app.Env) error {
			entries := env.Library.History()
			if len(entries) == 0 {
				fmt.Fprintln(out(cmd), "Your viewing history is empty.")
				return nil
			}
			fmt.Fprintln(out(cmd), historyTable(entries))
			return nil
		})
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the viewing history",
		Args:  cobra.NoArgs,
		RunE:  list,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recently viewed movies, newest first",
			Args:  cobra.NoArgs,
			RunE:  list,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the viewing history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withEnv(func(env *app.Env) error {
					if err := env.Library.ClearHistory(); err != nil {
						return err
					}
					fmt.Fprintln(out(cmd), "Viewing history cleared")
					return nil
				})
			},
		},
	)
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", raw)
	}
	return id, nil
}

func formatViewed(h library.HistoryEntry) string {
	t := h.ViewedTime()
	if t.IsZero() {
		return "Recently viewed"
	}
	return t.In(time.Local).Format("Jan 2, 03:04 PM")
}
