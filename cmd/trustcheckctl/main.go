package main

import (
	"fmt"
	"os"

	"github.com/shreyanshbahuguna/trustcheck-backend/cmd/trustcheckctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
