package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "report <project>",
		Short: "Staleness report for a project",
		Args:  cobra.ExactArgs(1),
		Run:   runReport,
	}
	RootCmd.AddCommand(cmd)
}

func runReport(cmd *cobra.Command, args []string) {
	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	report, err := m.StalenessReport(cmd.Context(), args[0])
	if err != nil {
		exitErr("report", err)
	}
	printJSON(report)
}
