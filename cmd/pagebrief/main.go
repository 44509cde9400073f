// Command pagebrief is the CLI and local companion service for the
// pagebrief browser extension.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/ai"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/config/file"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/keystore"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pagebrief/pagebrief-cli/internal/adapters/driving/cli"
	"github.com/pagebrief/pagebrief-cli/internal/core/services"
	"github.com/pagebrief/pagebrief-cli/internal/logger"
	"github.com/pagebrief/pagebrief-cli/internal/ratelimit"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; missing .env is fine.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}

	configDir, err := file.ConfigDir(os.Getenv("PAGEBRIEF_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("resolve config directory: %w", err)
	}

	settingsStore, err := file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	keyStore, err := keystore.NewFileStore(configDir)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	secret, err := keystore.InstallSecret(configDir)
	if err != nil {
		return fmt.Errorf("resolve installation secret: %w", err)
	}
	keyring := services.NewKeyring(keyStore, secret)

	history, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer history.Close()

	orchestrator := services.NewOrchestrator(
		services.WithLimiter(ratelimit.New(ratelimit.DefaultRate, ratelimit.DefaultBurst)),
	)
	dispatcher := services.NewDispatcher(
		ai.CreateProvider,
		orchestrator,
		services.WithKeyring(keyring),
		services.WithHistory(history),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Dispatch: dispatcher,
		Keyring:  keyring,
		Settings: settingsStore,
		History:  history,
	})
	return cli.Execute()
}
