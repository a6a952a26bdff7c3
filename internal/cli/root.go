// Package cli implements the mlacs-demo command line interface.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/finsuite/mlacs/internal/cli.version=1.2.3"
	version = "0.3.0"
	logo    = "\n" +
		"  __  __ _        _    ____ ____\n" +
		" |  \\/  | |      / \\  / ___/ ___|\n" +
		" | |\\/| | |     / _ \\| |   \\___ \\\n" +
		" | |  | | |___ / ___ \\ |___ ___) |\n" +
		" |_|  |_|_____/_/   \\_\\____|____/\n"
)

var rootCmd = &cobra.Command{
	Use:   "mlacs-demo",
	Short: "MLACS - Multi-Agent Communication System demo",
	Long:  color.CyanString(logo) + "\nAn in-process multi-agent communication framework written in Go.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(demoCmd)
}
