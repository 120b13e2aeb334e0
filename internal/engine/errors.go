package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrSyntax is the sentinel cause for formulas rejected by the parser or by
// an evaluator-side domain check (e.g. a negative year passed to DATE()).
var ErrSyntax = errors.New("syntax error")

// ErrIO is the sentinel cause for a failed injected collaborator call (a
// quote fetch or table load). The offending function returns NaN together
// with an error wrapping ErrIO, and that error propagates up and ends the
// evaluation; it is not recorded separately, and evaluation does not
// continue past it.
var ErrIO = errors.New("io error")

// syntaxf wraps ErrSyntax with a formatted message, the way the rest of
// this corpus wraps its sentinel errors with github.com/pkg/errors.
func syntaxf(format string, args ...any) error {
	return errors.Wrapf(ErrSyntax, format, args...)
}

func ioErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrIO, format, args...)
}

// ParseError reports the cursor offset and near-text at the point a formula
// was rejected, alongside the wrapped sentinel cause.
type ParseError struct {
	Pos  int
	Near string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%v (at offset %d)", e.Err, e.Pos)
	}
	return fmt.Sprintf("%v near %q (at offset %d)", e.Err, e.Near, e.Pos)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Cause() error { return errors.Cause(e.Err) }
