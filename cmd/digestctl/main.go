package main

import (
	"fmt"
	"os"

	"dailydigest/internal/digestctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "digestctl: %v\n", err)
		os.Exit(1)
	}
}
