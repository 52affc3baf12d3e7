package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Score a record's quality",
		Long:  "Check completeness, staleness, and growth of a record. Read-only.",
		Run:   runValidate,
	}
	addrFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("validate", err)
	}

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	report, err := m.Validate(cmd.Context(), a)
	if err != nil {
		exitErr("validate", err)
	}
	printJSON(report)
}
