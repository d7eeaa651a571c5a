package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/riskscan/internal/advice"
	"github.com/abhisek/riskscan/internal/app"
	"github.com/abhisek/riskscan/internal/catalog"
	"github.com/abhisek/riskscan/internal/config"
	"github.com/abhisek/riskscan/internal/logging"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/store"
)

func loadCatalog(cfg config.Config) (*quiz.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.Load(cfg.CatalogPath)
	}
	return catalog.Default()
}

func loadBands(cfg config.Config) ([]quiz.RiskBand, error) {
	if cfg.BandsPath != "" {
		return catalog.LoadBands(cfg.BandsPath)
	}
	return catalog.DefaultBands()
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, startAssessment bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cat, bands, err := loadEngine(cfg)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	params := app.Params{
		Catalog:         cat,
		Bands:           bands,
		Responses:       st.ResponseRepo(),
		Results:         st.ResultRepo(),
		StartAssessment: startAssessment,
	}

	// Advice is optional; the assessment itself never depends on it.
	if adviser, err := buildAdviser(cmd, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Advice provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Results will omit personalized advice.")
	} else {
		params.Adviser = adviser
	}

	return app.Run(params)
}

// buildAdviser assembles the advice service from config and env. The
// config file selects the provider; keys come from the environment.
func buildAdviser(cmd *cobra.Command, cfg config.Config) (*advice.Service, error) {
	advCfg := advice.ConfigFromEnv()
	if cfg.Advice.Provider != "" {
		advCfg.Provider = cfg.Advice.Provider
	}
	if advCfg.Provider == "" || advCfg.Validate() != nil {
		// Fall back to probing the standard key env vars.
		discovered, ok := advice.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no advice provider API key found")
		}
		advCfg = discovered
	}
	if m := cfg.Advice.Model; m != "" {
		switch advCfg.Provider {
		case "anthropic":
			advCfg.Anthropic.Model = m
		case "openai":
			advCfg.OpenAI.Model = m
		case "gemini":
			advCfg.Gemini.Model = m
		case "openrouter":
			advCfg.OpenRouter.Model = m
		}
	}
	if err := advCfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	provider, err := advice.NewProvider(cmd.Context(), advCfg, logger)
	if err != nil {
		return nil, err
	}
	return advice.NewService(provider, advice.DefaultServiceConfig()), nil
}
