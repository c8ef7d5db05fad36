package ext

import (
	"syntex/internal/ast"
	"syntex/internal/source"
)

// Result is what a function-like extension returns. The expander asks for
// the node category the invocation position needs; a result that cannot
// provide it is a kind mismatch.
type Result interface {
	// MakeOptExpr returns (nil, true) when the result is explicitly empty.
	MakeOptExpr() (ast.Expr, bool)
	MakeExpr() (ast.Expr, bool)
	MakePat() (ast.Pat, bool)
	MakeTy() (ast.Ty, bool)
	MakeStmts() ([]ast.Stmt, bool)
	MakeItems() ([]*ast.Item, bool)
	MakeTraitItems() ([]*ast.TraitItem, bool)
	MakeImplItems() ([]*ast.ImplItem, bool)
}

type resultSet uint8

const (
	hasExpr resultSet = 1 << iota
	hasPat
	hasTy
	hasStmts
	hasItems
	hasTraitItems
	hasImplItems
	isEmpty
)

// Eager is a Result built from already constructed nodes.
type Eager struct {
	set        resultSet
	expr       ast.Expr
	pat        ast.Pat
	ty         ast.Ty
	stmts      []ast.Stmt
	items      []*ast.Item
	traitItems []*ast.TraitItem
	implItems  []*ast.ImplItem
}

func ExprResult(e ast.Expr) *Eager          { return &Eager{set: hasExpr, expr: e} }
func PatResult(p ast.Pat) *Eager            { return &Eager{set: hasPat, pat: p} }
func TyResult(t ast.Ty) *Eager              { return &Eager{set: hasTy, ty: t} }
func StmtsResult(ss ...ast.Stmt) *Eager     { return &Eager{set: hasStmts, stmts: ss} }
func ItemsResult(items ...*ast.Item) *Eager { return &Eager{set: hasItems, items: items} }
func TraitItemsResult(items ...*ast.TraitItem) *Eager {
	return &Eager{set: hasTraitItems, traitItems: items}
}
func ImplItemsResult(items ...*ast.ImplItem) *Eager {
	return &Eager{set: hasImplItems, implItems: items}
}

// EmptyResult expands to nothing. It fits optional-expression and every
// sequence position.
func EmptyResult() *Eager { return &Eager{set: isEmpty} }

func (r *Eager) MakeOptExpr() (ast.Expr, bool) {
	if r.set&isEmpty != 0 {
		return nil, true
	}
	return r.MakeExpr()
}

func (r *Eager) MakeExpr() (ast.Expr, bool) {
	return r.expr, r.set&hasExpr != 0
}

// MakePat also accepts a literal expression, `lit!()` may stand in a
// pattern.
func (r *Eager) MakePat() (ast.Pat, bool) {
	if r.set&hasPat != 0 {
		return r.pat, true
	}
	if lit, ok := r.expr.(*ast.LitExpr); ok {
		return &ast.LitPat{PatBase: ast.PatBase{Span: lit.Span}, Lit: lit.Lit}, true
	}
	return nil, false
}

func (r *Eager) MakeTy() (ast.Ty, bool) {
	return r.ty, r.set&hasTy != 0
}

// MakeStmts accepts statements, items and a single expression (as the block
// tail). A nil item or expression stays a nil statement.
func (r *Eager) MakeStmts() ([]ast.Stmt, bool) {
	switch {
	case r.set&isEmpty != 0:
		return nil, true
	case r.set&hasStmts != 0:
		return r.stmts, true
	case r.set&hasItems != 0:
		out := make([]ast.Stmt, len(r.items))
		for i, it := range r.items {
			if it != nil {
				out[i] = ast.ItemStmtOf(it)
			}
		}
		return out, true
	case r.set&hasExpr != 0:
		if r.expr == nil {
			return []ast.Stmt{nil}, true
		}
		return []ast.Stmt{ast.ExprStmtOf(r.expr, false)}, true
	}
	return nil, false
}

func (r *Eager) MakeItems() ([]*ast.Item, bool) {
	if r.set&isEmpty != 0 {
		return nil, true
	}
	return r.items, r.set&hasItems != 0
}

func (r *Eager) MakeTraitItems() ([]*ast.TraitItem, bool) {
	if r.set&isEmpty != 0 {
		return nil, true
	}
	return r.traitItems, r.set&hasTraitItems != 0
}

func (r *Eager) MakeImplItems() ([]*ast.ImplItem, bool) {
	if r.set&isEmpty != 0 {
		return nil, true
	}
	return r.implItems, r.set&hasImplItems != 0
}

// Dummy fits every position with a neutral error node. Extensions return it
// after reporting an error through ExtCtxt.
type Dummy struct {
	Span source.Span
}

func DummyResult(sp source.Span) Dummy { return Dummy{Span: sp} }

func (d Dummy) MakeOptExpr() (ast.Expr, bool) { return d.MakeExpr() }
func (d Dummy) MakeExpr() (ast.Expr, bool) {
	return ast.KindExpr.Dummy(d.Span).(*ast.ExprFragment).Expr, true
}
func (d Dummy) MakePat() (ast.Pat, bool) {
	return ast.KindPat.Dummy(d.Span).(*ast.PatFragment).Pat, true
}
func (d Dummy) MakeTy() (ast.Ty, bool) { return ast.KindTy.Dummy(d.Span).(*ast.TyFragment).Ty, true }
func (d Dummy) MakeStmts() ([]ast.Stmt, bool) {
	return ast.KindStmts.Dummy(d.Span).(*ast.StmtsFragment).Stmts, true
}
func (Dummy) MakeItems() ([]*ast.Item, bool)           { return nil, true }
func (Dummy) MakeTraitItems() ([]*ast.TraitItem, bool) { return nil, true }
func (Dummy) MakeImplItems() ([]*ast.ImplItem, bool)   { return nil, true }
