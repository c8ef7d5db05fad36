package ast

import "syntex/internal/source"

type Pat interface {
	Node
	patBase() *PatBase
}

type PatBase struct {
	ID   NodeID
	Span source.Span
}

func (b *PatBase) NodeSpan() source.Span { return b.Span }
func (b *PatBase) patBase() *PatBase     { return b }

type (
	IdentPat struct {
		PatBase
		Name    Ident
		Mutable bool
	}
	WildPat struct {
		PatBase
	}
	LitPat struct {
		PatBase
		Lit Lit
	}
	TuplePat struct {
		PatBase
		Elems []Pat
	}
	PathPat struct {
		PatBase
		Path Path
	}
	MacPat struct {
		PatBase
		Mac *Mac
	}
	PlaceholderPat struct {
		PatBase
		Inv InvocationID
	}
)
