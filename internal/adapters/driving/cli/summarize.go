package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/extract"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

var (
	summarizeFile      string
	summarizeFormat    string
	summarizeTranslate bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [url]",
	Short: "Summarise a webpage, file, or piped text",
	Long: `Summarise text with the configured LLM backend.

The input is a URL argument, a file via --file, or text piped on stdin.
Oversized input is split into chunks that are summarised independently
and merged into one result.

Examples:
  pagebrief summarize https://example.com/article
  pagebrief summarize --file notes.txt --format key-points
  cat article.txt | pagebrief summarize --translate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(
		&summarizeFile, "file", "f", "", "read input text from a file")
	summarizeCmd.Flags().StringVar(
		&summarizeFormat, "format", "", "summary format: short, detailed, or key-points")
	summarizeCmd.Flags().BoolVar(
		&summarizeTranslate, "translate", false, "translate the summary into English")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if dispatchService == nil {
		return errors.New("dispatch service not configured")
	}

	ctx := context.Background()

	req, err := buildSummaryRequest(ctx, args)
	if err != nil {
		return err
	}

	if summarizeFormat != "" {
		format := domain.SummaryFormat(summarizeFormat)
		if !format.IsValid() {
			return fmt.Errorf("unknown format %q (expected short, detailed, or key-points)", summarizeFormat)
		}
		req.Format = format
	}
	req.Translate = summarizeTranslate

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	result := dispatchService.Summarize(ctx, req, settings)
	if result.Error != "" {
		return errors.New(result.Error)
	}

	text, translated := domain.StripTranslation(result.Summary)
	if translated {
		logger.Info("summary was translated into English")
	}
	cmd.Println(text)
	return nil
}

// buildSummaryRequest resolves the input source: URL argument, --file,
// or stdin.
func buildSummaryRequest(ctx context.Context, args []string) (domain.SummaryRequest, error) {
	var req domain.SummaryRequest

	switch {
	case len(args) == 1:
		logger.Debug("fetching %s", args[0])
		page, err := extract.NewFetcher().Fetch(ctx, args[0])
		if err != nil {
			return req, fmt.Errorf("fetch page: %w", err)
		}
		req.Text = page.Text
		req.SourceURL = args[0]
		req.SourceTitle = page.Title

	case summarizeFile != "":
		data, err := os.ReadFile(summarizeFile)
		if err != nil {
			return req, fmt.Errorf("read file: %w", err)
		}
		req.Text = string(data)
		req.SourceTitle = summarizeFile

	default:
		info, err := os.Stdin.Stat()
		if err != nil || (info.Mode()&os.ModeCharDevice) != 0 {
			return req, errors.New("no input: pass a URL, --file, or pipe text on stdin")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return req, fmt.Errorf("read stdin: %w", err)
		}
		req.Text = string(data)
	}

	return req, nil
}
