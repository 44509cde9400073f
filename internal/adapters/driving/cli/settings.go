package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change application settings",
	Long: `Show and change application settings.

Settings live in ` + "`~/.pagebrief/config.toml`" + ` and can also be edited
directly; serve mode picks up file edits without a restart.

Examples:
  pagebrief settings show
  pagebrief settings set mode ollama
  pagebrief settings set format key-points
  pagebrief settings set ollama.url http://localhost:11434
  pagebrief settings set openai.model gpt-4o`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Keys:

  mode              active provider (openai, openrouter, lmstudio, ollama)
  format            default summary format (short, detailed, key-points)
  <provider>.url    provider endpoint URL
  <provider>.model  provider model name`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}

	cmd.Printf("mode:   %s\n", settings.Mode)
	cmd.Printf("format: %s\n", settings.DefaultFormat)
	cmd.Println()
	for _, kind := range domain.AllProviderKinds() {
		p := settings.Providers[kind]
		marker := " "
		if kind == settings.Mode {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, kind.Description())
		if p.BaseURL != "" {
			cmd.Printf("    url:   %s\n", p.BaseURL)
		}
		if p.Model != "" {
			cmd.Printf("    model: %s\n", p.Model)
		}
	}
	cmd.Printf("\nsettings file: %s\n", settingsStore.Path())
	return nil
}

func runSettingsSet(_ *cobra.Command, args []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	key, value := args[0], args[1]

	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}

	switch {
	case key == "mode":
		kind := domain.ProviderKind(value)
		if !kind.IsValid() {
			return fmt.Errorf("unknown provider %q (expected one of: %s)",
				value, providerKindList())
		}
		settings.Mode = kind

	case key == "format":
		format := domain.SummaryFormat(value)
		if !format.IsValid() {
			return fmt.Errorf("unknown format %q (expected short, detailed, or key-points)", value)
		}
		settings.DefaultFormat = format

	case strings.Contains(key, "."):
		parts := strings.SplitN(key, ".", 2)
		kind := domain.ProviderKind(parts[0])
		if !kind.IsValid() {
			return fmt.Errorf("unknown provider %q in key %q", parts[0], key)
		}
		p := settings.Providers[kind]
		p.Kind = kind
		switch parts[1] {
		case "url":
			p.BaseURL = value
		case "model":
			p.Model = value
		default:
			return fmt.Errorf("unknown setting %q (expected url or model)", parts[1])
		}
		settings.Providers[kind] = p

	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	return settingsStore.Save(settings)
}
