// What: the builtin function table — one case per Opcode >= FuncSqrt,
// dispatched from evaluateFunction.
// How: a plain switch keyed on Node.Op, mirroring the dispatch-by-code
// shape of eval_worker's operator switch rather than a map of closures;
// cases are grouped by kind (math, aggregate, date, data, financial,
// conditional) rather than listed in the opcode order of node.go.
// Why: argument resolution (getArg, range reduction, collaborator calls)
// is identical in shape across every function, so sharing one method body
// keeps error wrapping (ErrSyntax/ErrIO) consistent.
package engine

import (
	"math"
	"strconv"
)

// evaluateFunction dispatches a Function node to its builtin implementation.
func (e *Evaluator) evaluateFunction(n *Node) (float64, error) {
	switch n.Op {
	case FuncSqrt:
		return e.unaryMath(n, math.Sqrt)
	case FuncAbs:
		return e.unaryMath(n, math.Abs)
	case FuncAcos:
		return e.unaryMath(n, math.Acos)
	case FuncAsin:
		return e.unaryMath(n, math.Asin)
	case FuncAtan:
		return e.unaryMath(n, math.Atan)
	case FuncCeil:
		return e.unaryMath(n, math.Ceil)
	case FuncFloor:
		return e.unaryMath(n, math.Floor)
	case FuncCos:
		return e.unaryMath(n, math.Cos)
	case FuncCosh:
		return e.unaryMath(n, math.Cosh)
	case FuncExp:
		return e.unaryMath(n, math.Exp)
	case FuncLog:
		return e.unaryMath(n, math.Log)
	case FuncRound:
		return e.unaryMath(n, math.Round)
	case FuncSign:
		return e.unaryMath(n, sign)
	case FuncSin:
		return e.unaryMath(n, math.Sin)
	case FuncSinh:
		return e.unaryMath(n, math.Sinh)
	case FuncTan:
		return e.unaryMath(n, math.Tan)
	case FuncTanh:
		return e.unaryMath(n, math.Tanh)
	case FuncTruncate:
		return e.unaryMath(n, math.Trunc)
	case FuncSum:
		return e.aggregate(n, ReduceSum)
	case FuncAvg:
		return e.aggregate(n, ReduceAvg)
	case FuncMax:
		return e.aggregate(n, ReduceMax)
	case FuncMin:
		return e.aggregate(n, ReduceMin)
	case FuncPi:
		// Preserved literal constant, not math.Pi — see package design notes.
		return 3.141592654, nil
	case FuncPower:
		return e.binaryMath(n, math.Pow)
	case FuncToday:
		return todayDayCount(), nil
	case FuncDate:
		return e.evalDate(n)
	case FuncStock:
		return e.evalStock(n)
	case FuncData:
		return e.evalDataRowCount(n)
	case FuncGetDataVal:
		return e.evalGetDataVal(n)
	case FuncPutDataVal:
		return 0, nil // Table is read-only; PutDataVal is a reserved no-op.
	case FuncTimedGetDataVal, FuncTimedPutDataVal:
		return 0, nil // reserved, never implemented upstream either.
	case FuncDataSum, FuncDataAvg, FuncDataMin, FuncDataMax:
		return 0, nil // reserved, never implemented upstream either.
	case FuncPmt:
		return e.evalPmt(n)
	case FuncFv:
		return e.evalFv(n)
	case FuncPv:
		return e.evalPv(n)
	case FuncNpv:
		return 0, nil // reserved stub.
	case FuncIf:
		return e.evalIf(n)
	default:
		return 0, syntaxf("%s: unknown function", n.Text)
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// argNode returns the node an argument sub-context wraps when it holds a
// single operand and no operators, and the argument itself otherwise.
func argNode(arg *Node) *Node {
	if arg.Kind == KindSubContext && len(arg.Operands) == 1 && len(arg.Operators) == 0 {
		return arg.Operands[0]
	}
	return arg
}

func (e *Evaluator) unaryMath(n *Node, f func(float64) float64) (float64, error) {
	v, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	return f(v), nil
}

func (e *Evaluator) binaryMath(n *Node, f func(a, b float64) float64) (float64, error) {
	a, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	b, err := e.getArg(n, 1)
	if err != nil {
		return 0, err
	}
	return f(a, b), nil
}

// aggregate folds Sum/Avg/Max/Min over a mixed list of scalar and Range
// arguments, e.g. Sum(1, A1:A10, 4).
func (e *Evaluator) aggregate(n *Node, op RangeReducer) (float64, error) {
	var (
		sum       float64
		count     int
		best      float64
		bestValid bool
	)
	switch op {
	case ReduceMin:
		best = math.Inf(1)
	case ReduceMax:
		best = math.Inf(-1)
	}

	consider := func(v float64) {
		if math.IsNaN(v) {
			return
		}
		sum += v
		count++
		switch op {
		case ReduceMin:
			if !bestValid || v < best {
				best, bestValid = v, true
			}
		case ReduceMax:
			if !bestValid || v > best {
				best, bestValid = v, true
			}
		}
	}

	for _, arg := range n.Operands {
		arg = argNode(arg)
		if arg.Kind == KindRange {
			if e.Cells == nil {
				continue
			}
			arg.Rng.Reduce(e.Cells, ReduceSum) // populate Values as scratch
			for _, v := range arg.Rng.Values {
				consider(v)
			}
			continue
		}
		v, err := e.getValue(arg)
		if err != nil {
			return 0, err
		}
		consider(v)
	}

	switch op {
	case ReduceSum:
		return sum, nil
	case ReduceAvg:
		if count == 0 {
			return math.NaN(), nil
		}
		return sum / float64(count), nil
	case ReduceMin, ReduceMax:
		if !bestValid {
			return math.NaN(), nil
		}
		return best, nil
	default:
		return math.NaN(), nil
	}
}

// evalDate implements Date(y, m, d) using the same calendar approximation
// the lexer applies to literal date tokens. Per spec, any argument < 0 is
// a Syntax Error; a month outside [1,12] is rejected the same way rather
// than indexing monthStart out of bounds.
func (e *Evaluator) evalDate(n *Node) (float64, error) {
	y, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	m, err := e.getArg(n, 1)
	if err != nil {
		return 0, err
	}
	d, err := e.getArg(n, 2)
	if err != nil {
		return 0, err
	}
	if y < 0 || m < 0 || d < 0 {
		return 0, syntaxf("Date: arguments must be >= 0")
	}
	mi := int(m)
	if mi < 1 || mi > 12 {
		return 0, syntaxf("Date: month %d out of range", mi)
	}
	return dayCount(int(y), mi, int(d)), nil
}

// evalStock implements Stock(symbol), where symbol is a String-kind
// operand. A failed fetch or unparseable quote yields NaN; the error is
// still surfaced to the caller wrapped in ErrIO.
func (e *Evaluator) evalStock(n *Node) (float64, error) {
	if len(n.Operands) == 0 {
		return 0, syntaxf("Stock: missing symbol argument")
	}
	if e.Quotes == nil {
		return math.NaN(), nil
	}
	symbol := argNode(n.Operands[0]).Text
	raw, err := e.Quotes.Quote(symbol)
	if err != nil {
		return math.NaN(), ioErrorf("Stock(%s): %v", symbol, err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN(), ioErrorf("Stock(%s): unparseable quote %q", symbol, raw)
	}
	return v, nil
}

func (e *Evaluator) loadTable(n *Node, nameArgIdx int) (Table, error) {
	if e.Tables == nil {
		return nil, ioErrorf("%s: no table loader configured", n.Text)
	}
	if len(n.Operands) <= nameArgIdx {
		return nil, syntaxf("%s: missing table name argument", n.Text)
	}
	name := argNode(n.Operands[nameArgIdx]).Text
	t, err := e.Tables.Load(name)
	if err != nil {
		return nil, ioErrorf("%s: loading %q: %v", n.Text, name, err)
	}
	return t, nil
}

// evalDataRowCount implements Data(name): the result is the number of
// table cells loaded, i.e. rows * cols.
func (e *Evaluator) evalDataRowCount(n *Node) (float64, error) {
	t, err := e.loadTable(n, 0)
	if err != nil {
		return math.NaN(), err
	}
	return float64(t.Rows() * t.Cols()), nil
}

// evalGetDataVal implements GetDataVal(cell, keyCol, key, col): for each
// row of the table named by arg 0, compare column keyCol (arg 1) against
// arg 2's text. The first match returns 1.0 (a placeholder for the
// looked-up cell, per spec); no match returns 0.0. arg 3 (col) is part of
// the function's signature but unused, same as upstream.
func (e *Evaluator) evalGetDataVal(n *Node) (float64, error) {
	t, err := e.loadTable(n, 0)
	if err != nil {
		return math.NaN(), err
	}
	keyCol, err := e.getArg(n, 1)
	if err != nil {
		return 0, err
	}
	if len(n.Operands) <= 2 {
		return 0, syntaxf("GetDataVal: missing key argument")
	}
	key := argNode(n.Operands[2]).Text
	for r := 0; r < t.Rows(); r++ {
		text, err := t.At(r, int(keyCol))
		if err != nil {
			continue
		}
		if text == key {
			return 1.0, nil
		}
	}
	return 0.0, nil
}

// evalPmt implements Pmt(rate, n, principal):
// (rate * principal) / (1 - (1 + rate) ^ -n).
func (e *Evaluator) evalPmt(n *Node) (float64, error) {
	rate, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	nper, err := e.getArg(n, 1)
	if err != nil {
		return 0, err
	}
	principal, err := e.getArg(n, 2)
	if err != nil {
		return 0, err
	}
	if rate == 0 {
		return principal / nper, nil
	}
	return (rate * principal) / (1 - math.Pow(1+rate, -nper)), nil
}

// evalFv implements Fv(rate, n, payment):
// payment * ((1 + rate)^n - 1) / rate.
func (e *Evaluator) evalFv(n *Node) (float64, error) {
	rate, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	nper, err := e.getArg(n, 1)
	if err != nil {
		return 0, err
	}
	payment, err := e.getArg(n, 2)
	if err != nil {
		return 0, err
	}
	if rate == 0 {
		return payment * nper, nil
	}
	return payment * (math.Pow(1+rate, nper) - 1) / rate, nil
}

// evalPv implements Pv(rate, n, payment): payment / (1 + rate)^n, the
// present value of a single future payment.
func (e *Evaluator) evalPv(n *Node) (float64, error) {
	rate, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	nper, err := e.getArg(n, 1)
	if err != nil {
		return 0, err
	}
	payment, err := e.getArg(n, 2)
	if err != nil {
		return 0, err
	}
	return payment / math.Pow(1+rate, nper), nil
}

// evalIf implements If(condition, trueValue, falseValue). condition is
// any node that yields a nonzero-is-true number, normally a Comparison.
func (e *Evaluator) evalIf(n *Node) (float64, error) {
	cond, err := e.getArg(n, 0)
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return e.getArg(n, 1)
	}
	return e.getArg(n, 2)
}
