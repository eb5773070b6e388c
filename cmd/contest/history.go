package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cgast/contest/internal/config"
	"github.com/cgast/contest/internal/history"
	"github.com/cgast/contest/internal/report"
)

var flagHistoryCount int

var cmdHistory = &cobra.Command{
	Use:   "history",
	Short: "List recent suite runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		report.SetupLogger(cfg.LogLevel, flagVerbose)

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(flagHistoryCount)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs")
			return nil
		}
		for _, run := range runs {
			fmt.Printf("%s  %s  %d/%d passed  (%s)\n",
				run.Started.Local().Format(time.RFC3339),
				run.Recipe, run.Passed, run.Total,
				run.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	cmdHistory.Flags().IntVarP(&flagHistoryCount, "count", "n", 10, "number of runs to list")
}
