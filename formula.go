// Package formula parses and evaluates spreadsheet-style formula strings.
//
// Formula evaluates expressions built from arithmetic operators, cell
// references and rectangular ranges, comparisons, and a fixed table of
// named functions (math, aggregate, financial, and date/time), resolving
// cell and range references through an injected CellSource.
//
// # Basic Usage
//
//	cells := formula.MapCellSource{}
//	cells.Set(0, 0, 10) // A1
//	cells.Set(0, 1, 32) // A2
//
//	result, err := formula.Eval("=Sum(A1:A2, 5)", cells)
//	// result == 47
//
// # Parsing Once, Evaluating Many Times
//
// Parse returns a reusable tree; Evaluator.Eval runs it against whatever
// collaborators the caller supplies:
//
//	tree, err := formula.Parse("=If(A1>A2,A1,A2)")
//	ev := &formula.Evaluator{Cells: cells}
//	result, err := ev.Eval(tree)
//
// # Collaborators
//
// Stock() needs a QuoteSource and Data()/GetDataVal() need a TableLoader.
// Without a QuoteSource, Stock() resolves to NaN; without a TableLoader,
// Data() and GetDataVal() fail with an error wrapping ErrIO.
package formula

import (
	"errors"

	"github.com/caldyne/formula/internal/engine"
)

// Node is the shared token/tree/sub-context record produced by Parse and
// walked by Evaluator.
type Node = engine.Node

// Evaluator ties a parsed tree to the collaborators it needs to resolve
// cell references, stock quotes, and named data tables.
type Evaluator = engine.Evaluator

// CellAddr is a zero-based (column, row) pair, as produced by parsing a
// cell reference like "B3".
type CellAddr = engine.CellAddr

// Range is a rectangular region of cells produced by parsing a reference
// like "A1:C10".
type Range = engine.Range

// CellSource resolves a cell address to a numeric value.
type CellSource = engine.CellSource

// QuoteSource fetches a stock quote for a symbol, for the Stock() function.
type QuoteSource = engine.QuoteSource

// Table is the minimal read surface the Data*() function family needs
// from a loaded data blob.
type Table = engine.Table

// TableLoader loads a named data blob into a Table, for the Data()
// function family.
type TableLoader = engine.TableLoader

// MapCellSource is a default, in-memory CellSource backed by a plain map.
type MapCellSource = engine.MapCellSource

// ParseError reports the cursor offset and near-text at the point a
// formula was rejected.
type ParseError = engine.ParseError

// ErrSyntax is the sentinel cause of every syntax-rejection error Parse
// and Eval return; use errors.Is(err, formula.ErrSyntax) to test for it.
var ErrSyntax = engine.ErrSyntax

// ErrIO is the sentinel cause of a failed collaborator call (a quote
// fetch or table load); such a failure ends the evaluation with an error.
var ErrIO = engine.ErrIO

// ErrorKind classifies an Error by which sentinel cause produced it.
type ErrorKind int

const (
	// KindSyntax marks an error caused by ErrSyntax: a rejected formula or
	// an evaluator-side domain check (a bad Date() argument, division by
	// zero).
	KindSyntax ErrorKind = iota
	// KindIO marks an error caused by ErrIO: a failed quote fetch or table
	// load.
	KindIO
)

func (k ErrorKind) String() string {
	if k == KindIO {
		return "IO"
	}
	return "Syntax"
}

// Error is the error type returned by Parse and Eval. It carries enough
// structure for a caller to test the failure kind with errors.Is against
// ErrSyntax/ErrIO without parsing the message text, while Error() returns
// just the message text, which the front end prints after "Error: ".
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is(err, formula.ErrSyntax) / errors.Is(err, formula.ErrIO)
// see through to the wrapped sentinel cause.
func (e *Error) Unwrap() error { return e.Cause }

func newError(err error) error {
	if err == nil {
		return nil
	}
	kind := KindSyntax
	if errors.Is(err, ErrIO) {
		kind = KindIO
	}
	return &Error{Kind: kind, Message: err.Error(), Cause: err}
}

// Parse compiles a formula string into a reusable Node tree. formula may
// optionally begin with "=" or "+", matching how a cell editor would
// accept it.
func Parse(formula string) (*Node, error) {
	tree, err := engine.Parse(formula)
	if err != nil {
		return nil, newError(err)
	}
	return tree, nil
}

// Eval parses and evaluates formula in one step against cells, with no
// quote or table collaborators configured.
func Eval(formula string, cells CellSource) (float64, error) {
	tree, err := Parse(formula)
	if err != nil {
		return 0, err
	}
	ev := &Evaluator{Cells: cells}
	v, err := ev.Eval(tree)
	if err != nil {
		return v, newError(err)
	}
	return v, nil
}

// MustEval is like Eval but panics on error; intended for tests and
// one-off tooling, not production call sites.
func MustEval(formula string, cells CellSource) float64 {
	v, err := Eval(formula, cells)
	if err != nil {
		panic(err)
	}
	return v
}
