package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/movieflix/internal/app"
	"github.com/five82/movieflix/internal/tmdb"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(defaultCLI()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "movieflix: %v\n", err)
		return 1
	}
	return 0
}

// cli carries the persistent flags and the hooks subcommands use to reach
// the outside world.
type cli struct {
	opts app.Options

	// runTUI starts the interactive interface.
	runTUI func(ctx context.Context, opts app.Options) error
	// catalog returns the catalog client for env.
	catalog func(env *app.Env) (tmdb.Catalog, error)
}

func defaultCLI() *cli {
	return &cli{
		runTUI: app.Run,
		catalog: func(env *app.Env) (tmdb.Catalog, error) {
			c, err := env.Catalog()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "movieflix",
		Short: "Browse and track movies from the terminal",
		Long: `movieflix is a terminal client for the TMDB movie catalog.

Run without arguments to open the interactive interface. The subcommands
work on the same watchlist and history from scripts or another shell.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd.Context(), c.opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.ConfigPath, "config", "", "config file (default ~/.config/movieflix/config.toml)")
	flags.StringVar(&c.opts.PrefsPath, "prefs", "", "prefs file (default ~/.config/movieflix/prefs.toml)")
	flags.BoolVarP(&c.opts.Verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newWatchlistCmd(c),
		newHistoryCmd(c),
		newSearchCmd(c),
		newBrowseCmd(c),
		newLogsCmd(c),
	)
	return root
}

// withEnv runs fn against a freshly set up environment and closes it after.
func (c *cli) withEnv(fn func(env *app.Env) error) error {
	env, err := app.Setup(c.opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	return fn(env)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
