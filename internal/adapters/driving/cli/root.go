// Package cli implements the pagebrief command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/config/file"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driven"
	"github.com/pagebrief/pagebrief-cli/internal/core/ports/driving"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. cmd/pagebrief wires these before Execute.
var (
	dispatchService driving.DispatchService
	keyringService  driving.KeyringService
	settingsStore   *file.SettingsStore
	historyStore    driven.SummaryStore
)

// Services holds everything the CLI commands need.
type Services struct {
	Dispatch driving.DispatchService
	Keyring  driving.KeyringService
	Settings *file.SettingsStore
	History  driven.SummaryStore
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	dispatchService = s.Dispatch
	keyringService = s.Keyring
	settingsStore = s.Settings
	historyStore = s.History
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "pagebrief",
	Short: "Summarise webpages with the LLM backend of your choice",
	Long: `pagebrief summarises webpage text using a hosted or local LLM backend
(OpenAI, OpenRouter, LM Studio, or Ollama) and keeps a local history of
results. It also runs as a local companion service for the pagebrief
browser extension.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
