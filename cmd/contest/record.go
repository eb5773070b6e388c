package main

import (
	"github.com/spf13/cobra"

	"github.com/cgast/contest/internal/config"
	"github.com/cgast/contest/internal/record"
	"github.com/cgast/contest/internal/report"
)

var (
	flagTestName string
	flagRecipe   string
)

var cmdRecord = &cobra.Command{
	Use:   "record --test-name <name> [--recipe <file>] -- <command> [args...]",
	Short: "Run a command and capture it as a new test case",
	Long: `record runs the given command, passing your terminal input through
to it while remembering everything: typed stdin, captured stdout and stderr,
the exit code, and any files the run creates. The captured run is appended
to the recipe as a new test case.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		report.SetupLogger(cfg.LogLevel, flagVerbose)
		return record.Record(cmd.Context(), flagRecipe, flagTestName, args)
	},
}

func init() {
	cmdRecord.Flags().StringVar(&flagTestName, "test-name", "", "name for the recorded test; must be unused")
	cmdRecord.Flags().StringVar(&flagRecipe, "recipe", "contest_recipe.yaml", "recipe file to append the test to")
	cmdRecord.MarkFlagRequired("test-name")
}
