package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"syntex/internal/format"
	"syntex/internal/treeio"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.stx>",
	Short: "Render a tree file as text",
	Long:  `Dump decodes a serialized crate and prints it with the debug printer`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("marks", false, "show hygiene marks on identifiers")
	dumpCmd.Flags().Bool("tabs", false, "indent with tabs")
	dumpCmd.Flags().Int("indent", 4, "indent width in spaces")
}

func runDump(cmd *cobra.Command, args []string) error {
	marks, err := cmd.Flags().GetBool("marks")
	if err != nil {
		return fmt.Errorf("failed to get marks flag: %w", err)
	}
	tabs, err := cmd.Flags().GetBool("tabs")
	if err != nil {
		return fmt.Errorf("failed to get tabs flag: %w", err)
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}

	crate, _, err := treeio.ReadFile(args[0])
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(format.Crate(crate, format.Options{
		IndentWidth: indent,
		UseTabs:     tabs,
		Marks:       marks,
	}))
	return err
}
