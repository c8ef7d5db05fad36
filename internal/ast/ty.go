package ast

import "syntex/internal/source"

type Ty interface {
	Node
	tyBase() *TyBase
}

type TyBase struct {
	ID   NodeID
	Span source.Span
}

func (b *TyBase) NodeSpan() source.Span { return b.Span }
func (b *TyBase) tyBase() *TyBase       { return b }

type (
	PathTy struct {
		TyBase
		Path Path
	}
	RefTy struct {
		TyBase
		Mutable bool
		Elem    Ty
	}
	TupleTy struct {
		TyBase
		Elems []Ty
	}
	// InferTy is `_`; also the result of a failed type-position expansion.
	InferTy struct {
		TyBase
	}
	MacTy struct {
		TyBase
		Mac *Mac
	}
	PlaceholderTy struct {
		TyBase
		Inv InvocationID
	}
)
