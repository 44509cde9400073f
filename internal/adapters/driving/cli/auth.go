package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider API keys",
	Long: `Store, list, and remove provider API keys.

Keys are kept separately from the settings file, obfuscated with a
per-installation secret. This hides them from casual inspection; it is
not strong encryption.

Examples:
  pagebrief auth set openai
  pagebrief auth set openrouter --key "sk-or-..."
  pagebrief auth list
  pagebrief auth remove openai`,
}

var authSetKey string

var authSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSet,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers with stored keys",
	RunE:  runAuthList,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

func init() {
	authSetCmd.Flags().StringVar(
		&authSetKey, "key", "", "API key (omit to be prompted without echo)")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(authRemoveCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	if keyringService == nil {
		return errors.New("keyring service not configured")
	}

	kind := domain.ProviderKind(args[0])
	if !kind.IsValid() {
		return fmt.Errorf("unknown provider %q (expected one of: %s)",
			args[0], providerKindList())
	}
	if !kind.RequiresAPIKey() {
		cmd.Printf("Note: %s does not normally require an API key.\n", kind.Description())
	}

	key := authSetKey
	if key == "" {
		var err error
		key, err = promptSecret(cmd, fmt.Sprintf("API key for %s: ", kind))
		if err != nil {
			return err
		}
	}
	if key == "" {
		return errors.New("no key entered")
	}

	if err := keyringService.StoreKey(context.Background(), kind.String(), key); err != nil {
		return err
	}
	cmd.Printf("Stored API key for %s.\n", kind)
	return nil
}

func runAuthList(cmd *cobra.Command, _ []string) error {
	if keyringService == nil {
		return errors.New("keyring service not configured")
	}

	names, err := keyringService.ListKeys(context.Background())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		cmd.Println("No stored API keys.")
		return nil
	}
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	if keyringService == nil {
		return errors.New("keyring service not configured")
	}

	kind := domain.ProviderKind(args[0])
	if !kind.IsValid() {
		return fmt.Errorf("unknown provider %q (expected one of: %s)",
			args[0], providerKindList())
	}

	if err := keyringService.DeleteKey(context.Background(), kind.String()); err != nil {
		return err
	}
	cmd.Printf("Removed API key for %s.\n", kind)
	return nil
}

// promptSecret reads a key without echo when stdin is a terminal, and
// falls back to a plain line read otherwise (pipes, tests).
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func providerKindList() string {
	kinds := domain.AllProviderKinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = kind.String()
	}
	return strings.Join(names, ", ")
}
