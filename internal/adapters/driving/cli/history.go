package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past summaries",
	Long: `Browse summaries saved to the local history database.

Examples:
  pagebrief history list
  pagebrief history list -n 50
  pagebrief history show 3f2a9c1e`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent summaries, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntVarP(
		&historyLimit, "limit", "n", 20, "maximum number of entries to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	records, err := historyStore.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No saved summaries yet.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  %s  %-10s  %s\n",
			rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Format, historyLabel(rec))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	rec, err := historyStore.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no summary with id %q", args[0])
	}

	cmd.Printf("id:       %s\n", rec.ID)
	cmd.Printf("created:  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("format:   %s\n", rec.Format)
	cmd.Printf("provider: %s", rec.Provider)
	if rec.Model != "" {
		cmd.Printf(" (%s)", rec.Model)
	}
	cmd.Println()
	if rec.SourceURL != "" {
		cmd.Printf("source:   %s\n", rec.SourceURL)
	}
	if rec.SourceTitle != "" {
		cmd.Printf("title:    %s\n", rec.SourceTitle)
	}
	if rec.Translated {
		cmd.Println("translated into English")
	}
	cmd.Println()
	cmd.Println(rec.Content)
	return nil
}

// historyLabel picks the most descriptive one-line label for a record.
func historyLabel(rec domain.SummaryRecord) string {
	label := rec.SourceTitle
	if label == "" {
		label = rec.SourceURL
	}
	if label == "" {
		label = strings.SplitN(rec.Content, "\n", 2)[0]
	}
	const maxLabel = 60
	if len(label) > maxLabel {
		label = label[:maxLabel-3] + "..."
	}
	return label
}
