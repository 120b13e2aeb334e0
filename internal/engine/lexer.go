// This file implements the lexer: a stateless-except-for-cursor scanner
// that hands the parser one token Node at a time. Probing attempts (date,
// number, cell address) save and restore the cursor on mismatch rather than
// raising an error — the lexer never fails, it falls back to a String
// token, matching tinySQL's lexer convention of preferring a fallback token
// over a thrown error.
package engine

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)

type lexer struct {
	s   string
	pos int
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (lx *lexer) peek() byte {
	if lx.pos >= len(lx.s) {
		return 0
	}
	return lx.s[lx.pos]
}

func (lx *lexer) next() byte {
	if lx.pos >= len(lx.s) {
		return 0
	}
	b := lx.s[lx.pos]
	lx.pos++
	return b
}

func (lx *lexer) skipWS() {
	for lx.pos < len(lx.s) && isSpace(lx.s[lx.pos]) {
		lx.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

// nextToken produces the next token Node. Trial order follows spec §4.1.
func (lx *lexer) nextToken() *Node {
	lx.skipWS()
	if lx.pos >= len(lx.s) {
		return &Node{Kind: kindEOF}
	}

	r := lx.peek()

	if r == ',' {
		lx.next()
		return &Node{Kind: KindArgSep}
	}
	if r == '(' {
		lx.next()
		return &Node{Kind: kindLParen}
	}
	if r == ')' {
		lx.next()
		return &Node{Kind: kindRParen}
	}
	if r == '+' || r == '-' || r == '~' || r == '!' {
		lx.next()
		return &Node{Kind: KindUnary, Unary: unaryCodeOf(r), Text: string(r)}
	}
	// Spec gap: §4.1 names only +,-,~,! as single-character sigils (rule 3)
	// but the grammar (§6) and eval_worker both require '*', '/' as binary
	// operators and '^' as the (parsed-but-never-evaluated) Pow operator.
	// Lexed directly as Operator tokens here so the documented grammar is
	// actually parseable; see DESIGN.md.
	if r == '*' {
		lx.next()
		return &Node{Kind: KindOperator, Op: OpMul, Text: "*"}
	}
	if r == '/' {
		lx.next()
		return &Node{Kind: KindOperator, Op: OpDiv, Text: "/"}
	}
	if r == '^' {
		lx.next()
		return &Node{Kind: KindOperator, Op: OpPow, Text: "^"}
	}
	if r == '=' || r == '>' || r == '<' {
		return lx.tokenizeComparison()
	}

	if tok := lx.tryDate(); tok != nil {
		return tok
	}
	if tok := lx.tryNumber(); tok != nil {
		return tok
	}
	if tok := lx.tryCellRefOrRange(); tok != nil {
		return tok
	}
	if tok := lx.tryFunction(); tok != nil {
		return tok
	}
	return lx.tokenizeString()
}

func unaryCodeOf(b byte) UnaryCode {
	switch b {
	case '+':
		return UnaryPos
	case '-':
		return UnaryNeg
	case '~':
		return UnaryCompl
	default: // '!'
		return UnaryNot
	}
}

func (lx *lexer) tokenizeComparison() *Node {
	a := lx.next()
	b := lx.peek()
	if (a == '>' && b == '=') || (a == '<' && (b == '=' || b == '>')) {
		lx.next()
		return &Node{Kind: KindComparison, Cmp: comparisonCodeOf(string(a) + string(b))}
	}
	return &Node{Kind: KindComparison, Cmp: comparisonCodeOf(string(a))}
}

func comparisonCodeOf(s string) Comparison {
	switch s {
	case "=":
		return CmpEq
	case ">":
		return CmpGt
	case "<":
		return CmpLt
	case ">=":
		return CmpGe
	case "<=":
		return CmpLe
	case "<>":
		return CmpNe
	default:
		return CmpEq
	}
}

// tryDate probes for M/D/YYYY or MM/DD/YYYY, rolling back on mismatch.
func (lx *lexer) tryDate() *Node {
	start := lx.pos
	fail := func() *Node { lx.pos = start; return nil }

	m, ok := lx.scanDigits(1, 2)
	if !ok || lx.peek() != '/' {
		return fail()
	}
	lx.next()
	d, ok := lx.scanDigits(1, 2)
	if !ok || lx.peek() != '/' {
		return fail()
	}
	lx.next()
	y, ok := lx.scanDigits(1, 4)
	if !ok {
		return fail()
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return fail()
	}
	if !lx.atValueBoundary() {
		return fail()
	}
	return &Node{Kind: KindDate, Numeric: dayCount(y, m, d), Text: lx.s[start:lx.pos]}
}

// scanDigits consumes between min and max digits and returns their integer
// value. Returns ok=false (without consuming) if fewer than min digits are
// available at the cursor.
func (lx *lexer) scanDigits(min, max int) (int, bool) {
	start := lx.pos
	n := 0
	for n < max && isDigit(lx.peek()) {
		lx.next()
		n++
	}
	if n < min {
		lx.pos = start
		return 0, false
	}
	v, _ := strconv.Atoi(lx.s[start:lx.pos])
	return v, true
}

// atValueBoundary reports whether the cursor sits at a position that can
// legally follow a numeric/date literal: end of input, whitespace, ',',
// ')', an operator/unary sigil, or a comparator.
func (lx *lexer) atValueBoundary() bool {
	if lx.pos >= len(lx.s) {
		return true
	}
	switch lx.s[lx.pos] {
	case ' ', '\t', '\n', '\r', ',', ')', '+', '-', '*', '/', '^', '~', '!', '=', '>', '<':
		return true
	default:
		return false
	}
}

// tryNumber probes for a decimal literal, rolling back if what follows it
// isn't a valid value boundary (spec treats such input as a string).
func (lx *lexer) tryNumber() *Node {
	start := lx.pos
	if !isDigit(lx.peek()) {
		return nil
	}
	for isDigit(lx.peek()) {
		lx.next()
	}
	if lx.peek() == '.' {
		lx.next()
		if !isDigit(lx.peek()) {
			lx.pos = start
			return nil
		}
		for isDigit(lx.peek()) {
			lx.next()
		}
	}
	if !lx.atValueBoundary() {
		lx.pos = start
		return nil
	}
	text := lx.s[start:lx.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		lx.pos = start
		return nil
	}
	return &Node{Kind: KindNumber, Numeric: v, Text: text}
}

// colValue converts a 1- or 2-letter column (A=0..Z=25, AA=26..ZZ=701).
func colValue(letters string) int {
	if len(letters) == 1 {
		return int(upperByte(letters[0]) - 'A')
	}
	x := int(upperByte(letters[0]) - 'A')
	y := int(upperByte(letters[1]) - 'A')
	return 26 + x*26 + y
}

// tryCellRefOrRange probes for "<1-2 letters><1-8 digits>", optionally
// followed by ":" and another such address to form a Range.
func (lx *lexer) tryCellRefOrRange() *Node {
	start := lx.pos
	addr, ok := lx.scanCellAddr()
	if !ok {
		lx.pos = start
		return nil
	}
	if lx.peek() == ':' {
		save := lx.pos
		lx.next()
		addr2, ok2 := lx.scanCellAddr()
		if ok2 {
			return &Node{Kind: KindRange, Rng: NewRange(addr, addr2), Text: lx.s[start:lx.pos]}
		}
		lx.pos = save
	}
	return &Node{Kind: KindCellRef, Cell: addr, Text: lx.s[start:lx.pos]}
}

func (lx *lexer) scanCellAddr() (CellAddr, bool) {
	start := lx.pos
	nLetters := 0
	for nLetters < 2 && isAlpha(lx.peek()) {
		lx.next()
		nLetters++
	}
	if nLetters == 0 {
		lx.pos = start
		return CellAddr{}, false
	}
	letters := lx.s[start:lx.pos]
	digitsStart := lx.pos
	nDigits := 0
	for nDigits < 8 && isDigit(lx.peek()) {
		lx.next()
		nDigits++
	}
	if nDigits == 0 {
		lx.pos = start
		return CellAddr{}, false
	}
	// A third letter (e.g. "AAA1") is not a valid column — reject.
	if isAlpha(lx.peek()) {
		lx.pos = start
		return CellAddr{}, false
	}
	row, _ := strconv.Atoi(lx.s[digitsStart:lx.pos])
	return CellAddr{Col: colValue(letters), Row: row - 1}, true
}

// functionTable maps an upper-cased function name to its opcode. Per spec
// §4.1 each entry "includes the trailing (" conceptually; operators 0..4
// are matched earlier via dedicated symbol rules (rule 3/3b above) and
// never reach this table, so it only ever holds function opcodes (>= 5).
var functionTable = map[string]Opcode{
	"SQRT": FuncSqrt, "ABS": FuncAbs, "ACOS": FuncAcos, "ASIN": FuncAsin,
	"ATAN": FuncAtan, "CEIL": FuncCeil, "FLOOR": FuncFloor, "COS": FuncCos,
	"COSH": FuncCosh, "EXP": FuncExp, "LOG": FuncLog, "ROUND": FuncRound,
	"SIGN": FuncSign, "SIN": FuncSin, "SINH": FuncSinh, "TAN": FuncTan,
	"TANH": FuncTanh, "TRUNCATE": FuncTruncate, "SUM": FuncSum, "AVG": FuncAvg,
	"PI": FuncPi, "STOCK": FuncStock, "TODAY": FuncToday, "DATE": FuncDate,
	"POW": FuncPower, "POWER": FuncPower, "DATA": FuncData, "GETDATAVAL": FuncGetDataVal,
	"PUTDATAVAL": FuncPutDataVal, "TIMEDGETDATAVAL": FuncTimedGetDataVal,
	"TIMEDPUTDATAVAL": FuncTimedPutDataVal, "DATASUM": FuncDataSum,
	"DATAAVG": FuncDataAvg, "DATAMIN": FuncDataMin, "DATAMAX": FuncDataMax,
	"PMT": FuncPmt, "FV": FuncFv, "MAX": FuncMax, "MIN": FuncMin,
	"IF": FuncIf, "PV": FuncPv, "NPV": FuncNpv,
}

// tryFunction probes for a case-insensitive function name immediately
// followed by "(".
func (lx *lexer) tryFunction() *Node {
	start := lx.pos
	for isAlpha(lx.peek()) || isDigit(lx.peek()) || lx.peek() == '_' {
		lx.next()
	}
	name := lx.s[start:lx.pos]
	if name == "" || lx.peek() != '(' {
		lx.pos = start
		return nil
	}
	op, ok := functionTable[upperCaser.String(name)]
	if !ok {
		lx.pos = start
		return nil
	}
	lx.next() // consume '('
	return &Node{Kind: KindFunction, Op: op, Text: name}
}

// tokenizeString is the lexer's non-failing fallback, per spec rule 9.
func (lx *lexer) tokenizeString() *Node {
	if lx.peek() == '"' {
		lx.next()
		start := lx.pos
		for lx.pos < len(lx.s) && lx.s[lx.pos] != '"' {
			lx.pos++
		}
		text := lx.s[start:lx.pos]
		if lx.pos < len(lx.s) {
			lx.pos++ // consume closing quote
		}
		return &Node{Kind: KindString, Text: text}
	}
	start := lx.pos
	for lx.pos < len(lx.s) {
		b := lx.s[lx.pos]
		if b == ')' || b == ',' || b == '"' {
			break
		}
		lx.pos++
	}
	return &Node{Kind: KindString, Text: lx.s[start:lx.pos]}
}
