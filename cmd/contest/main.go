package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.2.0"

var (
	flagConfig   string
	flagVerbose  bool
	flagFilters  []string
	flagExcludes []string
	flagFail     bool

	// exitCode is the number of failed cases; zero means every executed
	// case passed.
	exitCode int
)

var cmdRoot = &cobra.Command{
	Use:   "contest <configuration>",
	Short: "Black-box executable test harness",
	Long: `contest runs a target program under the inputs declared in a YAML
recipe and compares stdout, stderr, return codes and output files against
the recorded expectations, reporting pass/fail per test case.`,
	Args:          cobra.ExactArgs(1),
	Version:       version,
	RunE:          runSuite,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cmdRoot.PersistentFlags().StringVar(&flagConfig, "config", ".contest.yaml", "path to the harness configuration file")
	cmdRoot.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose output")

	cmdRoot.Flags().StringArrayVar(&flagFilters, "filters", nil, "regex patterns for tests to run")
	cmdRoot.Flags().StringArrayVar(&flagExcludes, "exclude-filters", nil, "regex patterns for tests to skip")
	cmdRoot.Flags().BoolVar(&flagFail, "fail", false, "stop at the first failing test")

	cmdRoot.AddCommand(cmdRecord, cmdHistory)
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
