package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialFunctions(t *testing.T) {
	assert.InDelta(t, 2684.11, evalFormula(t, "Pmt(0.05/12,360,500000)", nil), 0.01)
	assert.InDelta(t, 1000.0, evalFormula(t, "Fv(0,10,100)", nil), 1e-9)
	assert.InDelta(t, 1257.79, evalFormula(t, "Fv(0.05,10,100)", nil), 0.01)
	assert.InDelta(t, 613.91, evalFormula(t, "Pv(0.05,10,1000)", nil), 0.01)
}

func TestNpvIsReservedStub(t *testing.T) {
	assert.Equal(t, 0.0, evalFormula(t, "Npv(0.1,100,200,300)", nil))
}

func TestDataAggregatesAreReservedStubs(t *testing.T) {
	for _, formula := range []string{
		`DataSum("widgets")`, `DataAvg("widgets")`, `DataMin("widgets")`,
		`DataMax("widgets")`, `PutDataVal("widgets",0,0,1)`,
		`TimedGetDataVal("widgets",0,0)`, `TimedPutDataVal("widgets",0,0,1)`,
	} {
		assert.Equal(t, 0.0, evalFormula(t, formula, nil), formula)
	}
}

func TestDateRejectsNegativeArguments(t *testing.T) {
	tree, err := Parse("Date(-1,1,1)")
	require.NoError(t, err)
	_, err = (&Evaluator{}).Eval(tree)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestDateRejectsOutOfRangeMonth(t *testing.T) {
	tree, err := Parse("Date(2000,13,1)")
	require.NoError(t, err)
	_, err = (&Evaluator{}).Eval(tree)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestDateMatchesLiteralDateToken(t *testing.T) {
	literal := evalFormula(t, "1/15/2000", nil)
	fn := evalFormula(t, "Date(2000,1,15)", nil)
	assert.Equal(t, literal, fn)
}

type fakeTable struct{ rows [][]string }

func (f *fakeTable) Rows() int { return len(f.rows) }
func (f *fakeTable) Cols() int {
	if len(f.rows) == 0 {
		return 0
	}
	return len(f.rows[0])
}
func (f *fakeTable) At(row, col int) (string, error) { return f.rows[row][col], nil }

type fakeLoader struct{ t Table }

func (l *fakeLoader) Load(name string) (Table, error) { return l.t, nil }

func TestGetDataValMatchAndMiss(t *testing.T) {
	tbl := &fakeTable{rows: [][]string{{"east", "10"}, {"west", "20"}}}
	ev := &Evaluator{Tables: &fakeLoader{t: tbl}}

	tree, err := Parse(`GetDataVal("regions",0,"west",1)`)
	require.NoError(t, err)
	v, err := ev.Eval(tree)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	tree, err = Parse(`GetDataVal("regions",0,"north",1)`)
	require.NoError(t, err)
	v, err = ev.Eval(tree)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestDataReturnsCellCount(t *testing.T) {
	tbl := &fakeTable{rows: [][]string{{"1", "2", "3"}, {"4", "5", "6"}}}
	ev := &Evaluator{Tables: &fakeLoader{t: tbl}}

	tree, err := Parse(`Data("widgets")`)
	require.NoError(t, err)
	v, err := ev.Eval(tree)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}
