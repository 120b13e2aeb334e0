package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/caldyne/formula"
)

// cellsConfig is the YAML shape accepted by --cells: a flat map of cell
// address text ("A1", "B12") to numeric value.
type cellsConfig map[string]float64

func loadCells(path string) (formula.MapCellSource, error) {
	cells := formula.MapCellSource{}
	if path == "" {
		return cells, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading cells file %q", path)
	}

	var cfg cellsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing cells file %q", path)
	}

	for addrText, value := range cfg {
		addr, err := parseCellAddr(addrText)
		if err != nil {
			return nil, errors.Wrapf(err, "cells file %q", path)
		}
		cells.Set(addr.Col, addr.Row, value)
	}
	return cells, nil
}

// parseCellAddr parses a bare address like "B12" outside of any formula
// text, using the same column-letter and row-number mapping as the
// engine's lexer. Unlike the lexer, it accepts upper-case letters only.
func parseCellAddr(text string) (formula.CellAddr, error) {
	i := 0
	for i < len(text) && i < 2 && isUpperLetter(text[i]) {
		i++
	}
	if i == 0 || i >= len(text) {
		return formula.CellAddr{}, errors.Errorf("invalid cell address %q", text)
	}
	letters := text[:i]
	digits := text[i:]

	col := 0
	if len(letters) == 1 {
		col = int(letters[0] - 'A')
	} else {
		col = 26 + int(letters[0]-'A')*26 + int(letters[1]-'A')
	}

	row := 0
	for _, d := range digits {
		if d < '0' || d > '9' {
			return formula.CellAddr{}, errors.Errorf("invalid cell address %q", text)
		}
		row = row*10 + int(d-'0')
	}
	return formula.CellAddr{Col: col, Row: row - 1}, nil
}

func isUpperLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

func runEval(expr string, cells formula.MapCellSource) (float64, error) {
	return formula.Eval(expr, cells)
}

func formatResult(v float64) string {
	if humanizeOn {
		return humanize.CommafWithDigits(v, 4)
	}
	return humanize.Ftoa(v)
}
