package ast

import (
	"strconv"

	"syntex/internal/source"
)

// Constructors for synthesized nodes. Extensions use them to build their
// output; every node gets the span passed in.

func StrExpr(sp source.Span, s string) *LitExpr {
	return &LitExpr{ExprBase: ExprBase{Span: sp}, Lit: Lit{Kind: LitStr, Value: s}}
}

func IntExpr(sp source.Span, v int64) *LitExpr {
	return &LitExpr{ExprBase: ExprBase{Span: sp}, Lit: Lit{Kind: LitInt, Value: strconv.FormatInt(v, 10)}}
}

func BoolExpr(sp source.Span, v bool) *LitExpr {
	return &LitExpr{ExprBase: ExprBase{Span: sp}, Lit: Lit{Kind: LitBool, Value: strconv.FormatBool(v)}}
}

func PathExprOf(sp source.Span, names ...string) *PathExpr {
	return &PathExpr{ExprBase: ExprBase{Span: sp}, Path: SimplePath(sp, names...)}
}

func CallExprOf(sp source.Span, fn Expr, args ...Expr) *CallExpr {
	return &CallExpr{ExprBase: ExprBase{Span: sp}, Fn: fn, Args: args}
}

func BinaryExprOf(sp source.Span, op string, l, r Expr) *BinaryExpr {
	return &BinaryExpr{ExprBase: ExprBase{Span: sp}, Op: op, Left: l, Right: r}
}

func BlockExprOf(sp source.Span, stmts ...Stmt) *BlockExpr {
	return &BlockExpr{ExprBase: ExprBase{Span: sp}, Block: &Block{Stmts: stmts, Span: sp}}
}

func TupleExprOf(sp source.Span, elems ...Expr) *TupleExpr {
	return &TupleExpr{ExprBase: ExprBase{Span: sp}, Elems: elems}
}

// NewMac builds `name!(args)`.
func NewMac(sp source.Span, name string, args ...TokenTree) *Mac {
	return &Mac{Path: SimplePath(sp, name), Args: args, Delim: DelimParen, Span: sp}
}

func MacExprOf(m *Mac) *MacExpr {
	return &MacExpr{ExprBase: ExprBase{Span: m.Span}, Mac: m}
}

func IdentTok(sp source.Span, name string) *Token {
	return &Token{Kind: TokIdent, Ident: NewIdent(name, sp), Span: sp}
}

func StrTok(sp source.Span, s string) *Token {
	return &Token{Kind: TokLit, Lit: Lit{Kind: LitStr, Value: s}, Span: sp}
}

func IntTok(sp source.Span, v int64) *Token {
	return &Token{Kind: TokLit, Lit: Lit{Kind: LitInt, Value: strconv.FormatInt(v, 10)}, Span: sp}
}

func PunctTok(sp source.Span, p string) *Token {
	return &Token{Kind: TokPunct, Punct: p, Span: sp}
}

func Group(sp source.Span, d Delim, trees ...TokenTree) *Delimited {
	return &Delimited{Delim: d, Trees: trees, Span: sp}
}

// ExprStmtOf wraps e into a statement; semi selects `e;` over a block tail.
func ExprStmtOf(e Expr, semi bool) *ExprStmt {
	return &ExprStmt{StmtBase: StmtBase{Span: e.NodeSpan()}, Expr: e, Semi: semi}
}

func LetStmtOf(sp source.Span, name string, init Expr) *LetStmt {
	return &LetStmt{
		StmtBase: StmtBase{Span: sp},
		Pat:      &IdentPat{PatBase: PatBase{Span: sp}, Name: NewIdent(name, sp)},
		Init:     init,
	}
}

func MacStmtOf(m *Mac, style MacStmtStyle) *MacStmt {
	return &MacStmt{StmtBase: StmtBase{Span: m.Span}, Mac: m, Style: style}
}

func ItemStmtOf(it *Item) *ItemStmt {
	return &ItemStmt{StmtBase: StmtBase{Span: it.Span}, Item: it}
}

func PathTyOf(sp source.Span, names ...string) *PathTy {
	return &PathTy{TyBase: TyBase{Span: sp}, Path: SimplePath(sp, names...)}
}

func IdentPatOf(sp source.Span, name string) *IdentPat {
	return &IdentPat{PatBase: PatBase{Span: sp}, Name: NewIdent(name, sp)}
}

func FnItemOf(sp source.Span, name string, stmts ...Stmt) *Item {
	return &Item{
		Name: NewIdent(name, sp),
		Kind: &FnItem{Body: &Block{Stmts: stmts, Span: sp}},
		Span: sp,
	}
}

func StructItemOf(sp source.Span, name string, fields ...*Field) *Item {
	return &Item{Name: NewIdent(name, sp), Kind: &StructItem{Fields: fields}, Span: sp}
}

func FieldOf(sp source.Span, name string, ty Ty) *Field {
	return &Field{Name: NewIdent(name, sp), Ty: ty, Span: sp}
}

func ConstItemOf(sp source.Span, name string, ty Ty, value Expr) *Item {
	return &Item{Name: NewIdent(name, sp), Kind: &ConstItem{Ty: ty, Value: value}, Span: sp}
}

func ModItemOf(sp source.Span, name string, items ...*Item) *Item {
	return &Item{Name: NewIdent(name, sp), Kind: &ModItem{Items: items}, Span: sp}
}

// MacItemOf builds an item-position invocation. ident may be empty.
func MacItemOf(m *Mac, ident string) *Item {
	return &Item{Name: NewIdent(ident, m.Span), Kind: &MacItem{Mac: m}, Span: m.Span}
}

func ImplItemMethod(sp source.Span, name string, stmts ...Stmt) *ImplItem {
	return &ImplItem{
		Name: NewIdent(name, sp),
		Kind: &ImplMethod{Body: &Block{Stmts: stmts, Span: sp}},
		Span: sp,
	}
}

// MustAttr parses an attribute body and panics on malformed input. Intended
// for literals in extensions and tests.
func MustAttr(src string) *Attribute {
	m, err := ParseMeta(src)
	if err != nil {
		panic(err)
	}
	return NewAttr(m)
}

// WithAttrs returns a copy of it carrying attrs appended to its own.
func WithAttrs(it *Item, attrs ...*Attribute) *Item {
	c := *it
	c.Attrs = append(append([]*Attribute(nil), it.Attrs...), attrs...)
	return &c
}
