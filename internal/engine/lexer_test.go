package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenKinds(s string) []Kind {
	lx := newLexer(s)
	var kinds []Kind
	for {
		tok := lx.nextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == kindEOF {
			break
		}
	}
	return kinds
}

func TestLexerBasicArithmetic(t *testing.T) {
	kinds := tokenKinds("3+4*2")
	assert.Equal(t, []Kind{KindNumber, KindUnary, KindNumber, KindOperator, KindNumber, kindEOF}, kinds)
}

func TestLexerCellRef(t *testing.T) {
	lx := newLexer("A1")
	tok := lx.nextToken()
	assert.Equal(t, KindCellRef, tok.Kind)
	assert.Equal(t, CellAddr{Col: 0, Row: 0}, tok.Cell)
}

func TestLexerTwoLetterColumn(t *testing.T) {
	lx := newLexer("AA1")
	tok := lx.nextToken()
	assert.Equal(t, KindCellRef, tok.Kind)
	assert.Equal(t, 26, tok.Cell.Col)

	lx2 := newLexer("ZZ1")
	tok2 := lx2.nextToken()
	assert.Equal(t, KindCellRef, tok2.Kind)
	assert.Equal(t, 701, tok2.Cell.Col)
}

func TestLexerRange(t *testing.T) {
	lx := newLexer("A1:B2")
	tok := lx.nextToken()
	assert.Equal(t, KindRange, tok.Kind)
	assert.Equal(t, CellAddr{Col: 0, Row: 0}, tok.Rng.TopLeft)
	assert.Equal(t, CellAddr{Col: 1, Row: 1}, tok.Rng.BottomRight)
}

func TestLexerFunctionName(t *testing.T) {
	lx := newLexer("sum(")
	tok := lx.nextToken()
	assert.Equal(t, KindFunction, tok.Kind)
	assert.Equal(t, FuncSum, tok.Op)
}

func TestLexerComparisons(t *testing.T) {
	cases := map[string]Comparison{
		"=": CmpEq, ">": CmpGt, "<": CmpLt, ">=": CmpGe, "<=": CmpLe, "<>": CmpNe,
	}
	for text, want := range cases {
		lx := newLexer(text)
		tok := lx.nextToken()
		assert.Equal(t, KindComparison, tok.Kind, text)
		assert.Equal(t, want, tok.Cmp, text)
	}
}

func TestLexerDateToken(t *testing.T) {
	lx := newLexer("1/1/1900")
	tok := lx.nextToken()
	assert.Equal(t, KindDate, tok.Kind)
	assert.Equal(t, dayCount(1900, 1, 1), tok.Numeric)
}

func TestLexerStringFallback(t *testing.T) {
	lx := newLexer("hello)")
	tok := lx.nextToken()
	assert.Equal(t, KindString, tok.Kind)
	assert.Equal(t, "hello", tok.Text)
}
