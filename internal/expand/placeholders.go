package expand

import (
	"fmt"
	"slices"

	"syntex/internal/ast"
)

// placeholderExpander substitutes stored results into their placeholders.
// Results are added deepest-first and already have their own placeholders
// replaced, so each result is folded exactly once.
type placeholderExpander struct {
	ast.FoldBase
	results map[ast.InvocationID]ast.Fragment
	err     error
}

func newPlaceholderExpander() *placeholderExpander {
	p := &placeholderExpander{results: make(map[ast.InvocationID]ast.Fragment)}
	p.Self = p
	return p
}

func (p *placeholderExpander) add(id ast.InvocationID, fr ast.Fragment) {
	if _, dup := p.results[id]; dup {
		p.fail(fmt.Errorf("invocation #%d produced two results", id))
		return
	}
	p.results[id] = fr
}

func (p *placeholderExpander) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// take removes the result of id. Each result is consumed once.
func (p *placeholderExpander) take(id ast.InvocationID) (ast.Fragment, bool) {
	fr, ok := p.results[id]
	if !ok {
		p.fail(fmt.Errorf("no result for invocation #%d", id))
		return nil, false
	}
	delete(p.results, id)
	return fr, true
}

// leftover returns the smallest id whose result was never substituted.
func (p *placeholderExpander) leftover() (ast.InvocationID, bool) {
	if len(p.results) == 0 {
		return 0, false
	}
	ids := make([]ast.InvocationID, 0, len(p.results))
	for id := range p.results {
		ids = append(ids, id)
	}
	return slices.Min(ids), true
}

func (p *placeholderExpander) mismatch(id ast.InvocationID, fr ast.Fragment, want ast.ExpansionKind) {
	p.fail(fmt.Errorf("invocation #%d produced %s for a %s placeholder", id, fr.Kind(), want))
}

func (p *placeholderExpander) FoldExpr(e ast.Expr) ast.Expr {
	ph, ok := e.(*ast.PlaceholderExpr)
	if !ok {
		return ast.WalkExpr(p, e)
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return e
	}
	switch f := fr.(type) {
	case *ast.ExprFragment:
		return f.Expr
	case *ast.OptExprFragment:
		if f.Expr != nil {
			return f.Expr
		}
	}
	p.mismatch(ph.Inv, fr, ast.KindExpr)
	return e
}

func (p *placeholderExpander) FoldOptExpr(e ast.Expr) ast.Expr {
	ph, ok := e.(*ast.PlaceholderExpr)
	if !ok {
		return ast.WalkExpr(p, e)
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return e
	}
	switch f := fr.(type) {
	case *ast.OptExprFragment:
		return f.Expr
	case *ast.ExprFragment:
		return f.Expr
	}
	p.mismatch(ph.Inv, fr, ast.KindOptExpr)
	return e
}

func (p *placeholderExpander) FoldPat(pat ast.Pat) ast.Pat {
	ph, ok := pat.(*ast.PlaceholderPat)
	if !ok {
		return ast.WalkPat(p, pat)
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return pat
	}
	if f, ok := fr.(*ast.PatFragment); ok {
		return f.Pat
	}
	p.mismatch(ph.Inv, fr, ast.KindPat)
	return pat
}

func (p *placeholderExpander) FoldTy(t ast.Ty) ast.Ty {
	ph, ok := t.(*ast.PlaceholderTy)
	if !ok {
		return ast.WalkTy(p, t)
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return t
	}
	if f, ok := fr.(*ast.TyFragment); ok {
		return f.Ty
	}
	p.mismatch(ph.Inv, fr, ast.KindTy)
	return t
}

func (p *placeholderExpander) FoldStmt(s ast.Stmt) []ast.Stmt {
	ph, ok := s.(*ast.PlaceholderStmt)
	if !ok {
		return ast.WalkStmt(p, s)
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return []ast.Stmt{s}
	}
	f, ok := fr.(*ast.StmtsFragment)
	if !ok {
		p.mismatch(ph.Inv, fr, ast.KindStmts)
		return []ast.Stmt{s}
	}
	stmts := slices.Clone(f.Stmts)
	if ph.Semi && len(stmts) > 0 {
		stmts[len(stmts)-1] = ast.WithTrailingSemicolon(stmts[len(stmts)-1])
	}
	return stmts
}

func (p *placeholderExpander) FoldItem(it *ast.Item) []*ast.Item {
	ph, ok := it.Kind.(*ast.PlaceholderItem)
	if !ok {
		return []*ast.Item{ast.WalkItem(p, it)}
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return []*ast.Item{it}
	}
	if f, ok := fr.(*ast.ItemsFragment); ok {
		return f.Items
	}
	p.mismatch(ph.Inv, fr, ast.KindItems)
	return []*ast.Item{it}
}

func (p *placeholderExpander) FoldTraitItem(it *ast.TraitItem) []*ast.TraitItem {
	ph, ok := it.Kind.(*ast.TraitPlaceholder)
	if !ok {
		return []*ast.TraitItem{ast.WalkTraitItem(p, it)}
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return []*ast.TraitItem{it}
	}
	if f, ok := fr.(*ast.TraitItemsFragment); ok {
		return f.Items
	}
	p.mismatch(ph.Inv, fr, ast.KindTraitItems)
	return []*ast.TraitItem{it}
}

func (p *placeholderExpander) FoldImplItem(it *ast.ImplItem) []*ast.ImplItem {
	ph, ok := it.Kind.(*ast.ImplPlaceholder)
	if !ok {
		return []*ast.ImplItem{ast.WalkImplItem(p, it)}
	}
	fr, ok := p.take(ph.Inv)
	if !ok {
		return []*ast.ImplItem{it}
	}
	if f, ok := fr.(*ast.ImplItemsFragment); ok {
		return f.Items
	}
	p.mismatch(ph.Inv, fr, ast.KindImplItems)
	return []*ast.ImplItem{it}
}
