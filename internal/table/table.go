// Package table provides a minimal on-disk table loader for the engine's
// Data() and GetDataVal() functions.
//
// Loading is deliberately simple compared to the importer this package is
// grounded on: one CSV file per named table, no type inference, no
// streaming batches, no compression handling. The formula engine only
// ever needs random-access reads of a handful of cells per call, not a
// bulk import pipeline.
package table

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/caldyne/formula/internal/engine"
)

// Grid is a static in-memory Table backed by a 2D slice of strings.
type Grid struct {
	rows [][]string
}

// Rows implements engine.Table.
func (g *Grid) Rows() int { return len(g.rows) }

// Cols implements engine.Table.
func (g *Grid) Cols() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0])
}

// At implements engine.Table.
func (g *Grid) At(row, col int) (string, error) {
	if row < 0 || row >= len(g.rows) {
		return "", errors.Errorf("row %d out of range", row)
	}
	cols := g.rows[row]
	if col < 0 || col >= len(cols) {
		return "", errors.Errorf("col %d out of range", col)
	}
	return cols[col], nil
}

// NewGrid builds a Grid directly from rows already in memory, mainly for
// tests and programmatic callers that don't want to go through a file.
func NewGrid(rows [][]string) *Grid {
	return &Grid{rows: rows}
}

// DirLoader is a TableLoader that resolves a table name to "<Dir>/<name>.csv"
// and caches the parsed result for the lifetime of the loader.
type DirLoader struct {
	Dir string

	mu    sync.Mutex
	cache map[string]*Grid
}

// NewDirLoader returns a loader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{Dir: dir, cache: make(map[string]*Grid)}
}

// Load implements engine.TableLoader.
func (l *DirLoader) Load(name string) (engine.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if g, ok := l.cache[name]; ok {
		return g, nil
	}

	path := filepath.Join(l.Dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening table %q", name)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing table %q", name)
	}

	g := &Grid{rows: records}
	l.cache[name] = g
	return g, nil
}
