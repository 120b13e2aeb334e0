package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/caldyne/formula"
)

var (
	promptColor = color.New(color.FgCyan)
	resultColor = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive formula evaluation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cells, err := loadCells(cellsFile)
			if err != nil {
				return err
			}
			return runRepl(cmd.OutOrStdout(), cells)
		},
	}
}

func runRepl(w io.Writer, cells formula.MapCellSource) error {
	promptColor.Fprintln(w, "formula — type a formula, or .exit to quit")

	rl, err := readline.New("formula> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(w, "bye")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(w, "bye")
			return nil
		}
		rl.SaveHistory(line)
		evalAndPrint(w, line, cells)
	}
}

func evalAndPrint(w io.Writer, line string, cells formula.MapCellSource) {
	runID := uuid.New()
	result, err := formula.Eval(line, cells)
	if err != nil {
		errorColor.Fprintf(w, "Error: [%s] %v\n", runID, err)
		return
	}
	resultColor.Fprintln(w, "Result =", formatResult(result))
}
