package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/riskscan/internal/config"
	"github.com/abhisek/riskscan/internal/quiz"
	"github.com/abhisek/riskscan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "riskscan",
	Short: "Terminal cancer risk self-assessment",
	Long:  "RiskScan is a branching questionnaire that estimates cancer risk factors and suggests next steps. Informational only, not a diagnosis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/riskscan/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RISKSCAN_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a question catalog JSON file (default: embedded)")
	rootCmd.PersistentFlags().String("bands", "", "Path to a risk band JSON file (default: embedded)")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers the config file, env overrides, and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	var err error

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	if p, _ := cmd.Flags().GetString("bands"); p != "" {
		cfg.BandsPath = p
	}

	return cfg, nil
}

// resolveDBPath returns the database path from config or the default
// XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// loadEngine builds the validated catalog and band table, from override
// files when configured and the embedded data otherwise.
func loadEngine(cfg config.Config) (*quiz.Catalog, []quiz.RiskBand, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	bands, err := loadBands(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := quiz.ValidateBands(bands, cat); err != nil {
		return nil, nil, fmt.Errorf("band table does not fit catalog: %w", err)
	}
	return cat, bands, nil
}
