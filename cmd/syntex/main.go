package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"syntex/internal/trace"
	"syntex/internal/version"
)

var traceCleanup = func() {}

var rootCmd = &cobra.Command{
	Use:   "syntex",
	Short: "Syntax extension expander",
	Long:  `syntex expands macro invocations and attribute extensions in serialized syntax trees`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		traceCleanup()
		traceCleanup = func() {}
	},
	SilenceUsage: true,
}

// main registers subcommands and persistent flags, then executes the root
// command. Any returned error exits with status 1.
func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(extsCmd)
	rootCmd.AddCommand(versionCmd)

	registerGlobalFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRun не вызывается при ошибке
		traceCleanup()
		os.Exit(1)
	}
}

func registerGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics to keep per file (0 = 256)")

	flags.String("trace", "", "trace output path (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for ring/both modes")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")

	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// dumpTraceOnPanic writes the ring buffer of the active tracer to stderr
// before re-panicking, so the last events before a crash are not lost.
func dumpTraceOnPanic(cmd *cobra.Command) {
	r := recover()
	if r == nil {
		return
	}
	if ring, ok := trace.FindRing(trace.FromContext(cmd.Context())); ok {
		fmt.Fprintf(os.Stderr, "panic: %v\n--- last trace events ---\n", r)
		_ = ring.Dump(os.Stderr, trace.FormatText)
		fmt.Fprintf(os.Stderr, "--- stack ---\n%s", debug.Stack())
	}
	panic(r)
}
