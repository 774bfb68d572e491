// Tpsctl is the administration console for the configuration entries of a
// Token Processing System (TPS) server.
//
// Without a subcommand it opens the interactive console, where profiles,
// profile mappings, connectors and authenticators can be browsed, edited and
// moved through their approval workflow. The subcommands perform the same
// operations non-interactively for scripts.
//
// Connection settings come from the named profiles in the config file
// (see 'tpsctl config'), TPSCTL_* environment variables and flags, in
// increasing order of precedence.
//
// See 'tpsctl --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/tpsctl/internal/version"
)

func main() {
	// Ctrl+C stops batch commands between entries
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tpsctl",
	Short: "TPS Administration Console",
	Long: `Administration console for TPS configuration entries.

Browse profiles, profile mappings, connectors and authenticators, edit their
properties and drive them through the TPS workflow:

  enable   Disabled → Enabled
  disable  Enabled → Disabled
  submit   Disabled → Pending_Approval
  cancel   Pending_Approval → Disabled
  approve  Pending_Approval → Enabled
  reject   Pending_Approval → Disabled

Running tpsctl without a command opens the interactive console.`,
	Version: version.Version,
	Example: `  # Open the console against a configured profile
  tpsctl --server prod

  # Open a single profile straight away
  tpsctl console profiles caUserCert

  # Enable two connectors without prompting
  tpsctl enable connectors tks1 tks2 --yes

  # Try everything against a local stand-in server
  tpsctl mock-server --port 8080 &
  tpsctl --url http://localhost:8080 --username tpsadmin --password secret`,
	RunE: runConsole,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addConnectionFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tpsctl %s\n", version.Full())
	},
}
