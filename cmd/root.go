// Package cmd defines the vcsignal command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcsignal",
		Short: "Aggregates VC portfolio signals into a windowed digest.",
		Long: `vcsignal polls venture-capital portfolio pages, merges newly observed
projects across sources, scores them by corroboration strength and emits
a batched digest notification when the configured window elapses.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults to environment variables only)")
	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
