package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "append [entry]",
		Short: "Append an entry to a record",
		Long:  "Append an entry to a record's body. Retention runs afterwards: overflow entries move to the archive record.",
		Run:   runAppend,
	}
	addrFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runAppend(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("append", err)
	}
	entry, err := bodyFromArgs(args)
	if err != nil {
		exitErr("append", err)
	}

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	res, err := m.Append(cmd.Context(), a, entry)
	if err != nil {
		exitErr("append", err)
	}
	printJSON(res)
}
