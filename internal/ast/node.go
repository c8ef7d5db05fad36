package ast

import "syntex/internal/source"

// Node is anything with a source location.
type Node interface {
	NodeSpan() source.Span
}

// Mac is a function-like invocation `path!(args)`. Args stay unparsed until
// the extension consumes them.
type Mac struct {
	Path  Path
	Args  []TokenTree
	Delim Delim
	Span  source.Span
}

func (m *Mac) NodeSpan() source.Span { return m.Span }

// Name is the invoked extension name as written.
func (m *Mac) Name() string { return m.Path.String() }
