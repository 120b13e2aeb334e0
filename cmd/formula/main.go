// Command formula is a small CLI front end for the formula package: it
// evaluates a single formula against an optional cell file, or drops into
// an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cellsFile  string
	humanizeOn bool
)

func main() {
	root := &cobra.Command{
		Use:   "formula",
		Short: "Parse and evaluate spreadsheet-style formulas",
	}
	root.PersistentFlags().StringVar(&cellsFile, "cells", "", "YAML file of cell values to load as the evaluation context")
	root.PersistentFlags().BoolVar(&humanizeOn, "humanize", false, "print results with thousands separators")

	root.AddCommand(newEvalCmd(), newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a single formula and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := loadCells(cellsFile)
			if err != nil {
				return err
			}
			runID := uuid.New()
			result, err := runEval(args[0], cells)
			if err != nil {
				return fmt.Errorf("[%s] %w", runID, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Result =", formatResult(result))
			return nil
		},
	}
}
