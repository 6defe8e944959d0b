package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded downloads",
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum entries to show")
}

func historyRun(cmd *cobra.Command, args []string) error {
	defer closeStore()

	if store == nil {
		return fmt.Errorf("history database is not available")
	}

	entries, err := store.List(cmd.Context(), flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No downloads recorded yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-4s  %s\n    %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Format, e.URL, e.Path)
	}
	return nil
}
