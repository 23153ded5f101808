package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/five82/movieflix/internal/config"
	"github.com/five82/movieflix/internal/logtail"
)

func newLogsCmd(c *cli) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the movieflix log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			minLevel, err := zapcore.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("parse level: %w", err)
			}
			cfg, err := config.Load(c.opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			entries, err := logtail.Read(cfg.LogFile, lines, minLevel)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(out(cmd), "No log entries in %s\n", cfg.LogFile)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out(cmd), e.Format())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of entries to show")
	cmd.Flags().StringVar(&level, "level", "info", "minimum level (debug, info, warn, error)")
	return cmd
}
