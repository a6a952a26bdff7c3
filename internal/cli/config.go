package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finsuite/mlacs"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ MLACS Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective framework configuration",
	Long:  "Resolves the framework configuration from MLACS_* environment variables on top of the built-in defaults and prints the result.",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("⚙️ MLACS Config")

		cfg, err := mlacs.ConfigFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Max Agents:             %d\n", cfg.MaxAgents)
		fmt.Printf("Max Queue Size:         %d\n", cfg.MaxQueueSize)
		fmt.Printf("Max Log Entries:        %d\n", cfg.MaxLogEntries)
		fmt.Printf("Heartbeat Interval:     %s\n", cfg.HeartbeatInterval)
		fmt.Printf("Security Level:         %s\n", cfg.SecurityLevel)
		fmt.Printf("Performance Monitoring: %s\n", statusMark(cfg.PerformanceMonitoring))
	},
}
