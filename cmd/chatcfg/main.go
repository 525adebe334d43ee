// Chatcfg is a configuration utility for the Platrum chat desktop client.
//
// It manages the list of configured chat servers: an interactive wizard for
// adding and editing servers with live validation, direct commands for
// scripted use, and mDNS discovery of self-hosted servers on the local
// network.
//
// Usage:
//
//	chatcfg [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'chatcfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/platrum/chatcfg/internal/logging"
	"github.com/platrum/chatcfg/internal/version"
)

func main() {
	_ = logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatcfg",
	Short: "Chat Server Configuration Utility",
	Long: `A standalone utility for managing configured chat servers.

Provides an interactive wizard with live server validation, direct
commands for adding, listing and removing servers, and mDNS discovery
of self-hosted servers on the local network.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chatcfg %s (commit: %s)\n", version.Version, version.Commit)
	},
}
