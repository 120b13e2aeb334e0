// What: a tree-walking evaluator that reduces a parsed Node into a
// float64, resolving CellRef/Range nodes through an injected CellSource.
// How: eval_worker folds a SubContext's Operands left to right using its
// Operators, delegating to getValue for leaf nodes and evaluateFunction
// for Function nodes; evaluateLogical handles the Comparison special case
// where the last Operand is compared against the fold of the rest.
// Why: one fold routine shared by plain arithmetic and the left side of a
// comparison keeps the two cases from drifting out of sync.
package engine

import "math"

// Evaluator ties a parsed tree to the collaborators it needs to resolve
// cell references, stock quotes, and named data tables.
type Evaluator struct {
	Cells  CellSource
	Quotes QuoteSource
	Tables TableLoader
}

// Eval evaluates a fully parsed formula tree.
func (e *Evaluator) Eval(root *Node) (float64, error) {
	return e.getValue(root)
}

// getValue resolves any node kind to its numeric value.
func (e *Evaluator) getValue(n *Node) (float64, error) {
	switch n.Kind {
	case KindNumber, KindDate:
		return n.Numeric, nil
	case KindString:
		return 0, syntaxf("cannot evaluate string literal %q as a number", n.Text)
	case KindCellRef:
		if e.Cells == nil {
			return math.NaN(), nil
		}
		v, ok := e.Cells.Cell(n.Cell.Col, n.Cell.Row)
		if !ok {
			return math.NaN(), nil
		}
		return v, nil
	case KindRange:
		// A bare range outside an aggregate function reduces via Sum, the
		// same default a lone range takes when used as a scalar.
		if e.Cells == nil {
			return math.NaN(), nil
		}
		return n.Rng.Reduce(e.Cells, ReduceSum), nil
	case KindFunction:
		return e.evaluateFunction(n)
	case KindComparison:
		return e.evaluateLogical(n)
	case KindSubContext:
		return e.evalWorker(n)
	default:
		return 0, syntaxf("cannot evaluate node of kind %s", n.Kind)
	}
}

// evalWorker folds a SubContext's Operands left to right using its
// Operators. A node with a single operand and no operators (the common
// case for a parenthesized group wrapping one value) just resolves that
// operand. A prefix + (an IsUnary Add) yields the absolute value of its
// operand; the other IsUnary operator nodes apply their operator to a
// synthetic leading zero, giving -x and the (inert) ~x/!x forms their
// documented behavior.
func (e *Evaluator) evalWorker(n *Node) (float64, error) {
	if len(n.Operands) == 0 {
		return 0, syntaxf("empty sub-expression")
	}
	acc, err := e.getValue(n.Operands[0])
	if err != nil {
		return 0, err
	}
	for i, op := range n.Operators {
		if i+1 >= len(n.Operands) {
			break
		}
		rhs, err := e.getValue(n.Operands[i+1])
		if err != nil {
			return 0, err
		}
		if op.IsUnary && op.Op == OpAdd {
			acc = math.Abs(rhs)
			continue
		}
		acc, err = applyOperator(acc, op.Op, rhs)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// applyOperator folds one binary step. Per spec §9, Pow (code 4) is parsed
// and stored but eval_worker's documented switch never reaches a case for
// it — '^' silently leaves the accumulator unchanged, an intentionally
// preserved gap rather than a fix to make '^' actually exponentiate.
func applyOperator(lhs float64, op Opcode, rhs float64) (float64, error) {
	switch op {
	case OpAdd:
		return lhs + rhs, nil
	case OpSub:
		return lhs - rhs, nil
	case OpMul:
		return lhs * rhs, nil
	case OpDiv:
		if rhs == 0 {
			return 0, syntaxf("division by zero")
		}
		return lhs / rhs, nil
	case OpPow:
		return lhs, nil
	case opComplement, opLogicalNot:
		return lhs, nil
	default:
		return lhs, nil
	}
}

// evaluateLogical evaluates a Comparison node: the fold of every Operand
// but the last (using Operators) against the last Operand, per Cmp.
func (e *Evaluator) evaluateLogical(n *Node) (float64, error) {
	if len(n.Operands) < 2 {
		return 0, syntaxf("comparison requires two sides")
	}
	left := &Node{Kind: KindSubContext, Operands: n.Operands[:len(n.Operands)-1], Operators: n.Operators}
	lhs, err := e.evalWorker(left)
	if err != nil {
		return 0, err
	}
	rhs, err := e.getValue(n.Operands[len(n.Operands)-1])
	if err != nil {
		return 0, err
	}

	var truth bool
	switch n.Cmp {
	case CmpEq:
		truth = lhs == rhs
	case CmpGt:
		truth = lhs > rhs
	case CmpLt:
		truth = lhs < rhs
	case CmpGe:
		truth = lhs >= rhs
	case CmpLe:
		truth = lhs <= rhs
	case CmpNe:
		truth = lhs != rhs
	}
	if truth {
		return 1, nil
	}
	return 0, nil
}

// getArg resolves the i'th argument of a Function node's Operands.
func (e *Evaluator) getArg(n *Node, i int) (float64, error) {
	if i >= len(n.Operands) {
		return 0, syntaxf("%s: missing argument %d", n.Text, i+1)
	}
	return e.getValue(n.Operands[i])
}
