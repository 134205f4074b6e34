package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"rebasic/internal/driver"
	"rebasic/internal/observ"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file.bas",
	Short: "Compile a BASIC source file to target code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "write target code to file instead of stdout")
	compileCmd.Flags().Bool("map", false, "emit the source map as JSON to stderr")
}

func runCompile(cmd *cobra.Command, args []string) error {
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	emitMap, _ := cmd.Flags().GetBool("map")
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("compile")
	result, err := driver.Compile(cmd.Context(), args[0], maxDiag)
	if err != nil {
		return err
	}
	timer.End(phase, args[0])

	printDiagnostics(cmd, result.Bag, result.FileSet)
	if result.Artifact == nil {
		return fmt.Errorf("compilation aborted: %d diagnostic(s)", result.Bag.Len())
	}

	code := result.Artifact.TargetCode()
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(code), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d sections)\n", outPath, len(result.Artifact.Sections))
		}
	} else {
		fmt.Fprint(os.Stdout, code)
	}

	if emitMap {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Artifact.SourceMap()); err != nil {
			return err
		}
	}

	if showTimings(cmd) {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}
