package main

import (
	"os"

	"github.com/forgekit/skillmem/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
