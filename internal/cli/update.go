package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update [body]",
		Short: "Replace a record's body",
		Run:   runUpdate,
	}
	addrFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("update", err)
	}
	body, err := bodyFromArgs(args)
	if err != nil {
		exitErr("update", err)
	}

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	res, err := m.Update(cmd.Context(), a, body)
	if err != nil {
		exitErr("update", err)
	}
	printJSON(res)
}
