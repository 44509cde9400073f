package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagebrief/pagebrief-cli/internal/adapters/driving/httpapi"
	"github.com/pagebrief/pagebrief-cli/internal/core/domain"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local companion service for the browser extension",
	Long: `Run an HTTP service the pagebrief browser extension talks to.

The service listens on localhost and exposes /api/summarize and
/api/chat. Settings edits are picked up while running; stop with Ctrl-C.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(
		&serveAddr, "addr", "127.0.0.1:8787", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if dispatchService == nil {
		return errors.New("dispatch service not configured")
	}
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	var mu sync.RWMutex
	snapshot := func() domain.AppSettings {
		mu.RLock()
		defer mu.RUnlock()
		return settings
	}

	watcher, err := settingsStore.Watch(func(updated domain.AppSettings) {
		mu.Lock()
		settings = updated
		mu.Unlock()
	})
	if err != nil {
		logger.Warn("settings watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	server := &http.Server{
		Addr:              serveAddr,
		Handler:           httpapi.NewServer(dispatchService, snapshot),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	cmd.Printf("pagebrief listening on http://%s\n", serveAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	cmd.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
