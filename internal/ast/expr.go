package ast

import "syntex/internal/source"

// Expr is a closed set of expression nodes.
type Expr interface {
	Node
	base() *ExprBase
}

type ExprBase struct {
	ID    NodeID
	Attrs []*Attribute
	Span  source.Span
}

func (b *ExprBase) NodeSpan() source.Span { return b.Span }
func (b *ExprBase) base() *ExprBase       { return b }

// ExprAttrs returns the attributes attached to an expression.
func ExprAttrs(e Expr) []*Attribute { return e.base().Attrs }

type (
	LitExpr struct {
		ExprBase
		Lit Lit
	}
	PathExpr struct {
		ExprBase
		Path Path
	}
	// CallExpr arguments are optional-expression positions: a
	// conditionally-compiled or expanded-to-nothing argument disappears.
	CallExpr struct {
		ExprBase
		Fn   Expr
		Args []Expr
	}
	BinaryExpr struct {
		ExprBase
		Op    string
		Left  Expr
		Right Expr
	}
	UnaryExpr struct {
		ExprBase
		Op      string
		Operand Expr
	}
	BlockExpr struct {
		ExprBase
		Block *Block
	}
	// TupleExpr elements are optional-expression positions.
	TupleExpr struct {
		ExprBase
		Elems []Expr
	}
	IfExpr struct {
		ExprBase
		Cond Expr
		Then *Block
		Else Expr // nil, *BlockExpr or *IfExpr
	}
	MacExpr struct {
		ExprBase
		Mac *Mac
	}
	PlaceholderExpr struct {
		ExprBase
		Inv InvocationID
	}
	// ErrExpr stands in for an expression that failed to expand.
	ErrExpr struct {
		ExprBase
	}
)

// WithExprAttrs returns a shallow copy of e carrying attrs.
func WithExprAttrs(e Expr, attrs []*Attribute) Expr {
	switch x := e.(type) {
	case *LitExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *PathExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *CallExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *BinaryExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *UnaryExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *BlockExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *TupleExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *IfExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *MacExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *PlaceholderExpr:
		c := *x
		c.Attrs = attrs
		return &c
	case *ErrExpr:
		c := *x
		c.Attrs = attrs
		return &c
	default:
		panic("ast: unknown expression node")
	}
}
