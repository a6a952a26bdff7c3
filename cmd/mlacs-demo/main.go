// Package main is the entry point for the mlacs-demo CLI.
package main

import (
	"os"

	"github.com/finsuite/mlacs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
