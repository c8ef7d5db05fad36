package ast

import "syntex/internal/source"

type Stmt interface {
	Node
	stmtBase() *StmtBase
}

type StmtBase struct {
	ID   NodeID
	Span source.Span
}

func (b *StmtBase) NodeSpan() source.Span { return b.Span }
func (b *StmtBase) stmtBase() *StmtBase   { return b }

// MacStmtStyle records how a statement invocation was terminated.
type MacStmtStyle uint8

const (
	MacStmtNoBraces  MacStmtStyle = iota // foo!(..) as a block tail
	MacStmtSemicolon                     // foo!(..);
	MacStmtBraces                        // foo! { .. }
)

type (
	LetStmt struct {
		StmtBase
		Attrs []*Attribute
		Pat   Pat
		Ty    Ty   // optional
		Init  Expr // optional
	}
	// ExprStmt without Semi is the value of the enclosing block when last.
	ExprStmt struct {
		StmtBase
		Expr Expr
		Semi bool
	}
	ItemStmt struct {
		StmtBase
		Item *Item
	}
	MacStmt struct {
		StmtBase
		Attrs []*Attribute
		Mac   *Mac
		Style MacStmtStyle
	}
	// PlaceholderStmt remembers whether the invocation it replaced was
	// terminated with `;` so the last produced statement can inherit it.
	PlaceholderStmt struct {
		StmtBase
		Inv  InvocationID
		Semi bool
	}
)

type Block struct {
	ID    NodeID
	Stmts []Stmt
	Span  source.Span
}

func (b *Block) NodeSpan() source.Span { return b.Span }

// StmtAttrs returns the outer attributes of a statement.
func StmtAttrs(s Stmt) []*Attribute {
	switch x := s.(type) {
	case *LetStmt:
		return x.Attrs
	case *ExprStmt:
		return ExprAttrs(x.Expr)
	case *ItemStmt:
		return x.Item.Attrs
	case *MacStmt:
		return x.Attrs
	default:
		return nil
	}
}

// WithTrailingSemicolon returns s terminated by `;`. Statements that cannot
// take one are returned unchanged.
func WithTrailingSemicolon(s Stmt) Stmt {
	switch x := s.(type) {
	case *ExprStmt:
		if x.Semi {
			return x
		}
		c := *x
		c.Semi = true
		return &c
	case *MacStmt:
		if x.Style == MacStmtSemicolon {
			return x
		}
		c := *x
		c.Style = MacStmtSemicolon
		return &c
	case *PlaceholderStmt:
		c := *x
		c.Semi = true
		return &c
	default:
		return s
	}
}
