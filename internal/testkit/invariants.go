// Package testkit holds tree checks shared by tests of the expander, the
// driver and the codecs.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"syntex/internal/ast"
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

// CheckSpans runs a minimal set of span invariants on a tree:
// 1) every span is ordered (Start <= End)
// 2) a span pointing into a file lies within the file content
// 3) a span tagged with an expansion refers to a recorded one (skipped when expns is nil)
func CheckSpans(c *ast.Crate, fs *source.FileSet, expns *hygiene.ExpnTable) error {
	if c == nil {
		return fmt.Errorf("nil crate")
	}
	var firstErr error
	ast.Inspect(c, func(n ast.Node) bool {
		if firstErr != nil {
			return false
		}
		firstErr = checkSpan(n.NodeSpan(), fs, expns)
		if firstErr != nil {
			firstErr = fmt.Errorf("%T: %w", n, firstErr)
		}
		return firstErr == nil
	})
	return firstErr
}

func checkSpan(sp source.Span, fs *source.FileSet, expns *hygiene.ExpnTable) error {
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.File != 0 && fs != nil {
		f := fs.Get(sp.File)
		if f == nil {
			return fmt.Errorf("span %v points to unknown file %d", sp, sp.File)
		}
		lenContent, err := safecast.Conv[uint32](len(f.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		if sp.End > lenContent {
			return fmt.Errorf("span end beyond content: %d > %d", sp.End, lenContent)
		}
	}
	if sp.FromExpansion() && expns != nil {
		if _, ok := expns.Get(sp.Expn); !ok {
			return fmt.Errorf("span %v refers to unknown expansion %d", sp, sp.Expn)
		}
	}
	return nil
}

// CheckFullyExpanded fails on any placeholder left in the tree and, unless
// allowInvocations is set (permissive runs), on any remaining invocation.
func CheckFullyExpanded(c *ast.Crate, allowInvocations bool) error {
	if c == nil {
		return fmt.Errorf("nil crate")
	}
	var firstErr error
	ast.Inspect(c, func(n ast.Node) bool {
		if firstErr != nil {
			return false
		}
		if inv, ok := ast.IsPlaceholder(n); ok {
			firstErr = fmt.Errorf("placeholder for invocation %d left at %v", inv, n.NodeSpan())
			return false
		}
		if !allowInvocations && ast.IsInvocation(n) {
			firstErr = fmt.Errorf("unexpanded invocation %T at %v", n, n.NodeSpan())
			return false
		}
		return true
	})
	return firstErr
}
