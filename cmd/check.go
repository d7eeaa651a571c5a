package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/riskscan/internal/quiz"
)

var checkCmd = &cobra.Command{
	Use:   "check [catalog.json [bands.json]]",
	Short: "Validate the question catalog and risk bands",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) >= 1 {
			cfg.CatalogPath = args[0]
		}
		if len(args) == 2 {
			cfg.BandsPath = args[1]
		}

		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		bands, err := loadBands(cfg)
		if err != nil {
			return fmt.Errorf("bands: %w", err)
		}
		if err := quiz.ValidateBands(bands, cat); err != nil {
			return fmt.Errorf("bands: %w", err)
		}

		lo, hi := quiz.ScoreRange(cat)
		fmt.Printf("Catalog OK: %d questions, achievable scores %d to %d\n", cat.Len(), lo, hi)
		fmt.Printf("Bands OK: %d bands cover the full range\n", len(bands))
		return nil
	},
}
