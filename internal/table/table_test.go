package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridRowsColsAt(t *testing.T) {
	g := NewGrid([][]string{
		{"1", "2"},
		{"3", "4"},
		{"5", "6"},
	})
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 2, g.Cols())

	v, err := g.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestGridAtOutOfRange(t *testing.T) {
	g := NewGrid([][]string{{"1"}})
	_, err := g.At(5, 0)
	assert.Error(t, err)
	_, err = g.At(0, 5)
	assert.Error(t, err)
}

func TestGridEmpty(t *testing.T) {
	g := NewGrid(nil)
	assert.Equal(t, 0, g.Rows())
	assert.Equal(t, 0, g.Cols())
}

func TestDirLoaderLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.csv"), []byte("10,20\n30,40\n"), 0o644))

	l := NewDirLoader(dir)
	tbl, err := l.Load("widgets")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())

	v, err := tbl.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "20", v)

	// Second load must hit the cache, not re-read the file: removing it
	// afterward should not break a subsequent Load of the same name.
	require.NoError(t, os.Remove(filepath.Join(dir, "widgets.csv")))
	tbl2, err := l.Load("widgets")
	require.NoError(t, err)
	assert.Equal(t, tbl, tbl2)
}

func TestDirLoaderMissingFile(t *testing.T) {
	l := NewDirLoader(t.TempDir())
	_, err := l.Load("does-not-exist")
	assert.Error(t, err)
}
