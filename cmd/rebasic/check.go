package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"rebasic/internal/diagfmt"
	"rebasic/internal/driver"
	"rebasic/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.bas",
	Short: "Parse and semantically check a BASIC source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("check")
	result, err := driver.Check(args[0], maxDiag)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	timer.End(phase, args[0])

	result.Bag.Sort()
	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	case "json":
		if err := diagfmt.JSONDiag(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              maxDiag,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if showTimings(cmd) {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("%d diagnostic(s)", result.Bag.Len())
	}
	if !quiet(cmd) && format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", args[0])
	}
	return nil
}
