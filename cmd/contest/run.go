package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cgast/contest/internal/config"
	"github.com/cgast/contest/internal/github"
	"github.com/cgast/contest/internal/history"
	"github.com/cgast/contest/internal/report"
	"github.com/cgast/contest/pkg/events"
	"github.com/cgast/contest/pkg/harness"
	"github.com/cgast/contest/pkg/recipe"
)

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	report.SetupLogger(cfg.LogLevel, flagVerbose)

	recipePath := args[0]
	fmt.Printf("Loading %s\n", recipePath)

	matrix, err := recipe.Load(recipePath)
	if err != nil {
		return err
	}
	if result := recipe.Validate(matrix); !result.Valid() {
		return errors.New(result.Error())
	}

	bus := events.NewBus()
	report.New(os.Stdout).Attach(bus)

	suite := harness.New(matrix, recipePath,
		harness.WithBus(bus),
		harness.WithFailFast(flagFail),
		harness.WithFilters(flagFilters, flagExcludes),
	)

	summary, err := suite.Run(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		recordHistory(cfg.History, summary)
	}
	if cfg.GitHub.Enabled() {
		postStatus(cmd, cfg.GitHub, summary)
	}

	exitCode = summary.Failed()
	return nil
}

// recordHistory appends the run to the local history database. History is
// informational; problems are logged and otherwise ignored.
func recordHistory(cfg config.HistoryConfig, summary harness.Summary) {
	store, err := history.Open(cfg.Path)
	if err != nil {
		log.Warnf("History disabled for this run: %v", err)
		return
	}
	defer store.Close()

	if err := store.Append(summary); err != nil {
		log.Warnf("Could not record run history: %v", err)
		return
	}
	if err := store.Prune(cfg.MaxEntries); err != nil {
		log.Warnf("Could not prune run history: %v", err)
	}
}

// postStatus publishes the verdict as a GitHub commit status. Posting
// failures never change the suite verdict.
func postStatus(cmd *cobra.Command, cfg config.GitHubConfig, summary harness.Summary) {
	owner, repo, err := cfg.Split()
	if err != nil {
		log.Warnf("Commit status not posted: %v", err)
		return
	}
	reporter, err := github.NewStatusReporter(cfg.Token, owner, repo, cfg.SHA, cfg.Context)
	if err != nil {
		log.Warnf("Commit status not posted: %v", err)
		return
	}
	if err := reporter.Post(cmd.Context(), summary); err != nil {
		log.Warnf("Commit status not posted: %v", err)
	}
}
