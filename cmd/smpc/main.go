package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/privamed/smpc/internal/cli"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "smpc",
		Short: "Threshold secret sharing for joint health metric statistics",
		Long: `smpc lets mutually distrusting organizations jointly compute
aggregate statistics (sum, mean, variance) over private numeric health
metrics using Shamir threshold secret sharing.

Individual values are split into shares; only index-wise combinations of
shares are ever reconstructed, so no participant's input is revealed.

Typical flow:
  1. smpc create  --type mean --orgs a,b,c --threshold 2
  2. smpc submit  <value> --session <id> --org <org>   (each org)
  3. smpc compute --session <id>
  4. smpc result  --session <id>`,
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
	}

	rootCmd.AddCommand(
		cli.NewCreateCommand(),
		cli.NewSubmitCommand(),
		cli.NewComputeCommand(),
		cli.NewResultCommand(),
		cli.NewListCommand(),
		cli.NewDemoCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
