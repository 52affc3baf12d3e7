package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a record",
		Long:  "Delete a record. The companion archive record, if any, stays and must be removed separately.",
		Run:   runRm,
	}
	addrFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("rm", err)
	}

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	if err := m.Delete(cmd.Context(), a); err != nil {
		exitErr("rm", err)
	}
	fmt.Printf("deleted %s\n", a)
}
