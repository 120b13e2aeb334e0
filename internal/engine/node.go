// Package engine implements the formula parser and evaluator.
//
// What: a recursive-descent parser with precedence handling that turns a
// formula string into a tree of operand/operator sequences, and a
// tree-walking evaluator that reduces that tree to a float64.
// How: lexer, parser, and evaluator all operate on a single shared Node
// type, mirroring the "one record describes a token, a tree node, and a
// sub-context" design of the system this package reimplements.
// Why: keeping parser and evaluator on one node type avoids a second
// conversion pass between a token stream and an AST, at the cost of a
// wider struct — an acceptable trade for a formula language this small.
package engine

import "fmt"

// Kind tags the variant a Node represents. Most kinds appear only inside a
// finished parse tree; kindLParen, kindRParen, and kindEOF are transient —
// the lexer emits them but the parser never stores them in a tree.
type Kind int

const (
	KindNumber Kind = iota
	KindCellRef
	KindRange
	KindOperator
	KindUnary
	KindComparison
	KindFunction
	KindSubContext
	KindStartMarker
	KindEndMarker
	KindArgSep
	KindDate
	KindString

	kindLParen
	kindRParen
	kindEOF
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindCellRef:
		return "CellRef"
	case KindRange:
		return "Range"
	case KindOperator:
		return "Operator"
	case KindUnary:
		return "Unary"
	case KindComparison:
		return "Comparison"
	case KindFunction:
		return "Function"
	case KindSubContext:
		return "SubContext"
	case KindStartMarker:
		return "StartMarker"
	case KindEndMarker:
		return "EndMarker"
	case KindArgSep:
		return "ArgSep"
	case KindDate:
		return "Date"
	case KindString:
		return "String"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Opcode enumerates both infix operators (codes 0..4) and named functions
// (codes 5 and up). The numeric order matters: eval_worker and the parser's
// precedence-promotion rule both test "code >= 2" / "code < 2" to tell
// Add/Sub apart from Mul/Div/Pow.
type Opcode int

const (
	OpAdd Opcode = iota // 0
	OpSub               // 1
	OpMul               // 2
	OpDiv               // 3
	OpPow               // 4

	FuncSqrt
	FuncAbs
	FuncAcos
	FuncAsin
	FuncAtan
	FuncCeil
	FuncFloor
	FuncCos
	FuncCosh
	FuncExp
	FuncLog
	FuncRound
	FuncSign
	FuncSin
	FuncSinh
	FuncTan
	FuncTanh
	FuncTruncate
	FuncSum
	FuncAvg
	FuncPi
	FuncStock
	FuncToday
	FuncDate
	FuncPower
	FuncData
	FuncGetDataVal
	FuncPutDataVal
	FuncTimedGetDataVal
	FuncTimedPutDataVal
	FuncDataSum
	FuncDataAvg
	FuncDataMin
	FuncDataMax
	FuncPmt
	FuncFv
	FuncMax
	FuncMin
	FuncIf
	FuncPv
	FuncNpv

	// Operator codes seeded by openUnarySubContext for a prefix '~' or '!'
	// sigil. applyOperator leaves eval_worker's running result unchanged
	// for both, so ~x and !x evaluate to the synthetic leading zero. Their
	// values sit above OpMul, so handleOperator's precedence checks treat
	// them like Mul/Div/Pow.
	opComplement
	opLogicalNot
)

// UnaryCode identifies which of the four unary sigils a Unary-kind node
// carries before the parser demotes or seeds it.
type UnaryCode int

const (
	UnaryPos UnaryCode = iota
	UnaryNeg
	UnaryCompl
	UnaryNot
)

// Comparison enumerates the six comparison operators, in the textual order
// given by the spec.
type Comparison int

const (
	CmpEq Comparison = iota
	CmpGt
	CmpLt
	CmpGe
	CmpLe
	CmpNe
)

func (c Comparison) String() string {
	switch c {
	case CmpEq:
		return "="
	case CmpGt:
		return ">"
	case CmpLt:
		return "<"
	case CmpGe:
		return ">="
	case CmpLe:
		return "<="
	case CmpNe:
		return "<>"
	default:
		return "?"
	}
}

// CellAddr is a zero-based (column, row) pair.
type CellAddr struct {
	Col int
	Row int
}

// Orientation classifies a Range's shape.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
	Rectangular
	ThreeD // reserved, unused
)

// Range is a rectangular region of cells, normalized so TopLeft is at or
// above/left-of BottomRight. Cells holds the flat list of encoded
// addresses; Values is scratch space filled in once per evaluation by a
// CellSource, never mutated afterward.
type Range struct {
	TopLeft     CellAddr
	BottomRight CellAddr
	Orientation Orientation
	Cells       []uint64
	Values      []float64
}

// EncodeCell packs a (col, row) pair into the flat uint64 form Range.Cells
// uses: row in the high 32 bits, col in the low 32 bits.
func EncodeCell(col, row int) uint64 {
	return uint64(uint32(row))<<32 | uint64(uint32(col))
}

// DecodeCell unpacks a value produced by EncodeCell.
func DecodeCell(v uint64) (col, row int) {
	return int(uint32(v)), int(uint32(v >> 32))
}

// NewRange builds a normalized Range from two corners.
func NewRange(a, b CellAddr) *Range {
	tl := CellAddr{Col: min(a.Col, b.Col), Row: min(a.Row, b.Row)}
	br := CellAddr{Col: max(a.Col, b.Col), Row: max(a.Row, b.Row)}

	orient := Rectangular
	switch {
	case tl.Col == br.Col && tl.Row == br.Row:
		orient = Vertical
	case tl.Col == br.Col:
		orient = Vertical
	case tl.Row == br.Row:
		orient = Horizontal
	}

	r := &Range{TopLeft: tl, BottomRight: br, Orientation: orient}
	for row := tl.Row; row <= br.Row; row++ {
		for col := tl.Col; col <= br.Col; col++ {
			r.Cells = append(r.Cells, EncodeCell(col, row))
		}
	}
	return r
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Node is the single shared record used by the lexer (as a token), the
// parser (as a tree/sub-context node), and the evaluator (as the thing it
// walks). Only the fields relevant to Kind are populated; see the field
// table in the package-level design notes.
type Node struct {
	Kind Kind

	// Numeric holds the literal value for Number and Date nodes.
	Numeric float64

	// Op holds the operator/function code for Operator and Function nodes.
	Op Opcode

	// IsUnary marks an Operator node that originated as a seeded unary
	// sigil (+/-) rather than a demoted binary operator; eval_worker uses
	// this to choose the unary formula instead of the binary one.
	IsUnary bool

	// Unary holds the sigil code for Unary-kind tokens, before the parser
	// either seeds a sub-context with it or demotes it to an Operator.
	Unary UnaryCode

	// Cmp holds the comparison code for Comparison nodes.
	Cmp Comparison

	// Text holds the original textual form: string literals, identifiers,
	// function names, cell-address text.
	Text string

	// Cell holds the address for CellRef nodes.
	Cell CellAddr

	// Rng holds the range descriptor for Range nodes.
	Rng *Range

	// Operands and Operators are the two sequences owned by a SubContext
	// or Function node. Invariant: Operands never holds Operator or
	// Comparison nodes; Operators never holds Number, CellRef, Range, or
	// Function nodes.
	Operands  []*Node
	Operators []*Node
}
