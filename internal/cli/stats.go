package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Store statistics",
		Run:   runStats,
	}
	cmd.Flags().Bool("journal", false, "Show recent write journal entries instead of totals")
	cmd.Flags().Int("limit", 20, "Journal entries to show")
	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	journal, _ := cmd.Flags().GetBool("journal")
	limit, _ := cmd.Flags().GetInt("limit")

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	if journal {
		entries, err := m.Journal(cmd.Context(), limit)
		if err != nil {
			exitErr("stats", err)
		}
		printJSON(entries)
		return
	}

	st, err := m.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}
	printJSON(st)
}
