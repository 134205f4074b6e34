package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"rebasic/internal/diagfmt"
	"rebasic/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.bas",
	Short: "Parse a BASIC source file and dump the syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], maxDiag)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	printDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		if err := diagfmt.FormatASTPretty(os.Stdout, result.Program, result.FileSet); err != nil {
			return err
		}
	case "json":
		if err := diagfmt.FormatASTJSON(os.Stdout, result.Program); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("%d error(s)", result.Bag.Len())
	}
	return nil
}
