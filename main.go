// Package main is the entrypoint for the repoaudit CLI.
// It delegates all command handling to the cmd package.
package main

import (
	"fmt"
	"os"

	"github.com/repoaudit/repoaudit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
