package expand

import (
	"errors"
	"fmt"

	"syntex/internal/diag"
	"syntex/internal/source"
)

var (
	ErrRecursionLimit  = errors.New("recursion limit reached")
	ErrModifierArity   = errors.New("modifier must produce exactly one node")
	ErrInvariant       = errors.New("expansion invariant violated")
	ErrExpansionFailed = errors.New("expansion failed")
)

// FatalError aborts a run. Err is one of the sentinels above.
type FatalError struct {
	Code diag.Code
	Span source.Span
	Msg  string
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err aborted the run before a tree was produced.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
