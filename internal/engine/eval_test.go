package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalFormula(t *testing.T, formula string, cells CellSource) float64 {
	t.Helper()
	tree, err := Parse(formula)
	require.NoError(t, err, formula)
	ev := &Evaluator{Cells: cells}
	v, err := ev.Eval(tree)
	require.NoError(t, err, formula)
	return v
}

func TestScenarioTable(t *testing.T) {
	cases := []struct {
		formula string
		want    float64
	}{
		{"3+4", 7.0},
		{"1+2*3", 7.0},
		{"Sum(1,2,3,4,5)", 15.0},
		{"If(3>4,1,0)", 0.0},
		{"If(2=2,10,20)", 10.0},
		{"Pi()", 3.141592654},
	}
	for _, c := range cases {
		got := evalFormula(t, c.formula, nil)
		assert.InDelta(t, c.want, got, 1e-9, c.formula)
	}
}

func TestPmtScenario(t *testing.T) {
	got := evalFormula(t, "Pmt(0.05/12,360,500000)", nil)
	assert.InDelta(t, 2684.11, got, 0.01)
}

func TestLeadingSigils(t *testing.T) {
	assert.InDelta(t, 7.0, evalFormula(t, "=3+4", nil), 1e-9)
	assert.InDelta(t, 3.0, evalFormula(t, "+3", nil), 1e-9)
}

func TestUnaryNegation(t *testing.T) {
	assert.InDelta(t, -5.0, evalFormula(t, "-5", nil), 1e-9)
	assert.InDelta(t, -1.0, evalFormula(t, "-5+4", nil), 1e-9)
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	assert.InDelta(t, 9.0, evalFormula(t, "(1+2)*3", nil), 1e-9)
}

func TestCellReferenceAndRange(t *testing.T) {
	cells := MapCellSource{}
	cells.Set(0, 0, 10) // A1
	cells.Set(0, 1, 20) // A2
	cells.Set(0, 2, 30) // A3

	assert.InDelta(t, 60.0, evalFormula(t, "Sum(A1:A3)", cells), 1e-9)
	assert.InDelta(t, 20.0, evalFormula(t, "Avg(A1:A3)", cells), 1e-9)
	assert.InDelta(t, 60.0, evalFormula(t, "A1+A2+A3", cells), 1e-9)
}

func TestMissingCellIsNaN(t *testing.T) {
	cells := MapCellSource{}
	got := evalFormula(t, "A9", cells)
	assert.True(t, got != got, "expected NaN for missing cell")
}

func TestDivisionByZeroIsSyntaxError(t *testing.T) {
	tree, err := Parse("1/0")
	require.NoError(t, err)
	ev := &Evaluator{}
	_, err = ev.Eval(tree)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestEmptyFormulaRejected(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func TestUnclosedParenRejected(t *testing.T) {
	_, err := Parse("(1+2")
	assert.Error(t, err)
}
