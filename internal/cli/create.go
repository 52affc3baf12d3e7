package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create [body]",
		Short: "Create a record",
		Long:  "Create a record at an address that does not exist yet. Body can be a positional arg or piped via stdin.",
		Run:   runCreate,
	}
	addrFlags(cmd)
	RootCmd.AddCommand(cmd)
}

// bodyFromArgs reads content from the positional args or stdin, the
// same way skills pipe generated markdown in.
func bodyFromArgs(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("body is required (positional arg or stdin)")
}

func runCreate(cmd *cobra.Command, args []string) {
	a, err := addrFromFlags(cmd)
	if err != nil {
		exitErr("create", err)
	}
	body, err := bodyFromArgs(args)
	if err != nil {
		exitErr("create", err)
	}

	m, closeStore, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeStore()

	res, err := m.Create(cmd.Context(), a, body)
	if err != nil {
		exitErr("create", err)
	}
	printJSON(res)
}
