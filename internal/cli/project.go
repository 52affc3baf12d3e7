package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "project <name>",
		Short: "List a project's records across skills",
		Args:  cobra.ExactArgs(1),
		Run:   runProject,
	}
	RootCmd.AddCommand(cmd)
}

func runProject(cmd *cobra.Command, args []string) {
	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	entries, err := m.ByProject(cmd.Context(), args[0])
	if err != nil {
		exitErr("project", err)
	}
	printJSON(entries)
}
