package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/riskscan/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recent assessment results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		results, err := st.ResultRepo().Recent(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No completed assessments yet.")
			return nil
		}

		fmt.Printf("%-17s %6s  %-12s %s\n", "COMPLETED", "SCORE", "BAND", "WARNINGS")
		for _, r := range results {
			band := r.BandLabel
			if band == "" {
				band = "(none)"
			}
			fmt.Printf("%-17s %6d  %-12s %d\n",
				r.CompletedAt.Format("2006-01-02 15:04"), r.TotalScore, band, r.WarningCount)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of results to show")
}
