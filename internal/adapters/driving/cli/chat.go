package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

var chatInteractive bool

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the configured LLM backend",
	Long: `Send a chat message to the configured LLM backend.

One-shot:
  pagebrief chat "What is the capital of France?"

Interactive session (empty line or Ctrl-D to quit):
  pagebrief chat -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(
		&chatInteractive, "interactive", "i", false, "start an interactive chat session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if dispatchService == nil {
		return errors.New("dispatch service not configured")
	}

	ctx := context.Background()
	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if !chatInteractive {
		if len(args) != 1 {
			return errors.New("pass a message, or use -i for an interactive session")
		}
		result := dispatchService.Chat(ctx, args[0], nil, settings)
		if result.Error != "" {
			return errors.New(result.Error)
		}
		cmd.Println(result.Reply)
		return nil
	}

	return runChatSession(cmd, ctx, settings)
}

// runChatSession loops over stdin lines, keeping the conversation
// history in memory for the lifetime of the session.
func runChatSession(cmd *cobra.Command, ctx context.Context, settings domain.AppSettings) error {
	var history []domain.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	cmd.Println("Interactive chat. Empty line or Ctrl-D to quit.")
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			break
		}

		result := dispatchService.Chat(ctx, message, history, settings)
		if result.Error != "" {
			cmd.Printf("error: %s\n", result.Error)
			continue
		}

		cmd.Println(result.Reply)
		history = append(history,
			domain.ChatMessage{Role: domain.RoleUser, Content: message},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: result.Reply},
		)
	}
	return scanner.Err()
}
