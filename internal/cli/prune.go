package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Apply retention to a record",
		Long:  "Run the record's retention policy outside the append path: archive overflow, expire resolved entries, flag unverified ones.",
		Run:   runPrune,
	}
	addrFlags(cmd)
	cmd.Flags().String("policy", "", "Apply a named policy instead of the pattern match")
	RootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("prune", err)
	}
	override, _ := cmd.Flags().GetString("policy")

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	res, err := m.Prune(cmd.Context(), a, override)
	if err != nil {
		exitErr("prune", err)
	}
	printJSON(res)
}
