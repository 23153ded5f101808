package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/app"
	"github.com/five82/movieflix/internal/feed"
	"github.com/five82/movieflix/internal/library"
	"github.com/five82/movieflix/internal/prefs"
	"github.com/five82/movieflix/internal/tmdb"
)

func newSearchCmd(c *cli) *cobra.Command {
	var adult bool

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search movies by title, or by cast with actor:<name>",
		Long: `Search the catalog by title. Prefix the query with actor: to list the
movies a person appeared in, for example:

  movieflix search actor:Al Pacino

Adult titles follow the adult filter saved by the interactive interface
unless --adult is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			isActor, term := tmdb.ParseQuery(query)
			if term == "" {
				return fmt.Errorf("empty search query")
			}

			filterAdult := prefs.Load(c.opts.PrefsPath).AdultFilter
			if cmd.Flags().Changed("adult") {
				filterAdult = !adult
			}

			return c.withEnv(func(env *app.Env) error {
				catalog, err := c.catalog(env)
				if err != nil {
					return err
				}

				var movies []tmdb.Movie
				title := fmt.Sprintf("Search Results for %q", query)
				if isActor {
					title = "Movies with " + term
					movies, err = catalog.SearchByActor(cmd.Context(), term, filterAdult)
				} else {
					movies, err = catalog.SearchMovies(cmd.Context(), term, !filterAdult)
				}
				if err != nil {
					env.Logger.Warn("search failed", zap.String("query", query), zap.Error(err))
					if isActor {
						return fmt.Errorf("actor not found or error searching: %w", err)
					}
					return fmt.Errorf("search movies: %w", err)
				}

				fmt.Fprintln(out(cmd), title)
				if len(movies) == 0 {
					fmt.Fprintln(out(cmd), "No results found.")
					return nil
				}
				fmt.Fprintln(out(cmd), movieTable(movies))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&adult, "adult", false, "include adult titles")
	return cmd
}

func newBrowseCmd(c *cli) *cobra.Command {
	names := []string{"trending", "popular", "top-rated"}

	return &cobra.Command{
		Use:       "browse [" + strings.Join(names, "|") + "]",
		Short:     "Print the home rows, or a single category",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEnv(func(env *app.Env) error {
				catalog, err := c.catalog(env)
				if err != nil {
					return err
				}

				if len(args) == 1 {
					category, ok := tmdb.ParseCategory(args[0])
					if !ok {
						return fmt.Errorf("unknown category %q (want one of %s)", args[0], strings.Join(names, ", "))
					}
					movies, err := catalog.FetchCategory(cmd.Context(), category)
					if err != nil {
						return fmt.Errorf("fetch %s: %w", category.Title(), err)
					}
					printRow(cmd, category.Title(), movies)
					return nil
				}

				rng := rand.New(rand.NewSource(time.Now().UnixNano()))
				home := feed.Load(cmd.Context(), catalog, rng, env.Logger)
				if home.Failed() {
					return fmt.Errorf("load movies: %w", home.Err())
				}
				if home.Featured != nil {
					fmt.Fprintf(out(cmd), "Featured: %s (%s)\n\n", home.Featured.Title, home.Featured.Year())
				}
				for _, row := range home.Rows {
					if row.Err != nil {
						fmt.Fprintf(out(cmd), "%s: unavailable\n\n", row.Title)
						continue
					}
					printRow(cmd, row.Title, row.Movies)
				}
				return nil
			})
		},
	}
}

func printRow(cmd *cobra.Command, title string, movies []tmdb.Movie) {
	fmt.Fprintln(out(cmd), title)
	fmt.Fprintln(out(cmd), movieTable(movies))
	fmt.Fprintln(out(cmd))
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func movieTable(movies []tmdb.Movie) string {
	t := newTable("ID", "TITLE", "YEAR", "RATING")
	for _, mv := range movies {
		t.Row(strconv.FormatInt(mv.ID, 10), mv.Title, mv.Year(), strconv.FormatFloat(mv.Rating(), 'f', -1, 64))
	}
	return t.String()
}

func historyTable(entries []library.HistoryEntry) string {
	t := newTable("ID", "TITLE", "YEAR", "VIEWED")
	for _, h := range entries {
		t.Row(strconv.FormatInt(h.ID, 10), h.Title, h.Year(), formatViewed(h))
	}
	return t.String()
}
