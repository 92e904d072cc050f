package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fol2/mathsquiz/internal/app"
	"github.com/fol2/mathsquiz/internal/llm"
	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/store"
	"github.com/fol2/mathsquiz/internal/supply"
)

// providerFactory builds providers for the configured LLM backend with a
// caller-supplied key. Requests are logged to repo when it is non-nil.
func providerFactory(lc llm.Config, repo store.EventRepo, logger *zap.Logger) problemgen.ProviderFactory {
	return func(ctx context.Context, apiKey string) (llm.Provider, error) {
		return llm.NewProvider(ctx, lc.WithAPIKey(apiKey), repo, logger)
	}
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	supplier := supply.New(cfg.Supply(), providerFactory(cfg.LLM, eventRepo, logger), logger)
	defer supplier.Close()

	if key := cfg.LLM.APIKey(); key != "" {
		if err := supplier.SetCredential(ctx, key); err != nil {
			// The game still runs on practice questions; setup can fix the key.
			logger.Warn("configured API key unusable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		}
	}

	game := session.New(cfg.Game, supplier, st.ProgressRepo(), logger, session.WithRecorder(eventRepo))

	return app.Run(app.Options{
		Game:     game,
		Supplier: supplier,
		Progress: st.ProgressRepo(),
		Games:    eventRepo,
		Provider: cfg.LLM.Provider,
		SaveKey:  saveAPIKey,
		Logger:   logger,
	})
}

// saveAPIKey stores key for the current provider in the config file.
func saveAPIKey(key string) error {
	cfg.LLM = cfg.LLM.WithAPIKey(key)
	return cfg.Save(configPath)
}
