package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shadercheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "shadercheck",
	Short: "Lightweight GDShader validator",
	Long: `shadercheck runs fast structural checks on Godot shader sources:
shader_type declaration, entry point and statement terminators.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(checkCmd, classifyCmd, fixCmd, initCmd, versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0=unlimited)")
	pf.String("config", "", "path to shadercheck.toml or .shadercheck.yaml (default: search upwards)")

	// диагностика самого инструмента
	pf.String("trace", "", "trace output file ('-' for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// Любая ошибка команды даёт код выхода 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
