package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"go-jobradar/internal/models"

	"github.com/spf13/cobra"
)

var (
	peekPlatform string
	peekKeyword  string
	peekWindow   string
	peekLimit    int
)

// peekCmd runs one search and prints what the adapter extracted. The store
// is not read or written.
var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Fetch one keyword from one platform and print the extracted postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		p, err := models.ParsePlatform(peekPlatform)
		if err != nil {
			return err
		}
		for _, other := range models.Platforms {
			cfg.Platforms.Get(other).Enabled = other == p
		}
		pc := cfg.Platforms.Get(p)
		pc.MaxPages = 1
		window := peekWindow
		if window == "" {
			window = pc.TimeWindow.Default
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sources, closeSources, err := buildSources(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeSources()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tSALARY")
		n := 0
		for c, err := range sources[0].Fetch(ctx, peekKeyword, window) {
			if err != nil {
				tw.Flush()
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Company, c.Salary)
			n++
			if n >= peekLimit {
				break
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d postings from %s (%s=%s)\n", n, p, pc.TimeParamName, window)
		return nil
	},
}

func init() {
	peekCmd.Flags().StringVarP(&peekPlatform, "platform", "p", "OCC", "Platform to search")
	peekCmd.Flags().StringVarP(&peekKeyword, "keyword", "k", "devops", "Keyword to search")
	peekCmd.Flags().StringVarP(&peekWindow, "window", "w", "", "Lookback window value (default: the platform default)")
	peekCmd.Flags().IntVarP(&peekLimit, "limit", "n", 20, "Stop after this many postings")
	rootCmd.AddCommand(peekCmd)
}
