package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caldyne/formula"
)

func TestParseCellAddr(t *testing.T) {
	cases := []struct {
		text string
		want formula.CellAddr
	}{
		{"A1", formula.CellAddr{Col: 0, Row: 0}},
		{"B12", formula.CellAddr{Col: 1, Row: 11}},
		{"AA1", formula.CellAddr{Col: 26, Row: 0}},
	}
	for _, c := range cases {
		got, err := parseCellAddr(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.want, got, c.text)
	}
}

func TestParseCellAddrInvalid(t *testing.T) {
	for _, text := range []string{"", "1A", "A", "A1B"} {
		_, err := parseCellAddr(text)
		assert.Error(t, err, text)
	}
}

func TestLoadCellsEmptyPath(t *testing.T) {
	cells, err := loadCells("")
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestLoadCellsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cells.yaml")
	require.NoError(t, os.WriteFile(path, []byte("A1: 10\nB2: 32\n"), 0o644))

	cells, err := loadCells(path)
	require.NoError(t, err)

	v, ok := cells.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	v, ok = cells.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, 32.0, v)
}

func TestFormatResult(t *testing.T) {
	humanizeOn = false
	assert.Equal(t, "1234", formatResult(1234))

	humanizeOn = true
	assert.Equal(t, "1,234", formatResult(1234))
	humanizeOn = false
}
