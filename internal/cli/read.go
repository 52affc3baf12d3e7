package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a record with its staleness",
		Run:   runRead,
	}
	addrFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runRead(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("read", err)
	}

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	res, err := m.Read(cmd.Context(), a)
	if err != nil {
		exitErr("read", err)
	}
	printJSON(res)
}
