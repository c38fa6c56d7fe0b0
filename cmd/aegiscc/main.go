// Command aegiscc is the AegisCC v0 CLI: `aegiscc <input> [--emit
// ast|core|ir] [--mode safe|compat|unsafe] [--strict-init]`.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aegiscc <input>",
	Short: "Aegis C compiler front/middle end",
	Long:  "AegisCC compiles one Aegis C translation unit and emits its parse tree, Aegis Core, or AegisIR, or rejects it with diagnostics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.PersistentFlags().String("emit", "ir", "artifact to emit (ast|core|ir)")
	rootCmd.PersistentFlags().String("mode", "safe", "module default strictness (safe|compat|unsafe)")
	rootCmd.PersistentFlags().Bool("strict-init", true, "reject reads of possibly-uninitialized bindings")
	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Int("jobs", 0, "max concurrent per-function checks (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum diagnostics to collect before truncating")
	rootCmd.PersistentFlags().Bool("progress", false, "show a phase spinner while compiling (requires a terminal)")
	rootCmd.PersistentFlags().String("format", "pretty", "diagnostic output format (pretty|json)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the on-disk artifact cache")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
