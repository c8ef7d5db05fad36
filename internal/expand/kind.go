package expand

import (
	"slices"

	"syntex/internal/ast"
	"syntex/internal/ext"
)

// makeFragment asks r for the category kind needs.
func makeFragment(kind ast.ExpansionKind, r ext.Result) (ast.Fragment, bool) {
	if r == nil {
		return nil, false
	}
	switch kind {
	case ast.KindOptExpr:
		e, ok := r.MakeOptExpr()
		if !ok {
			return nil, false
		}
		return &ast.OptExprFragment{Expr: e}, true
	case ast.KindExpr:
		e, ok := r.MakeExpr()
		if !ok || e == nil {
			return nil, false
		}
		return &ast.ExprFragment{Expr: e}, true
	case ast.KindPat:
		p, ok := r.MakePat()
		if !ok || p == nil {
			return nil, false
		}
		return &ast.PatFragment{Pat: p}, true
	case ast.KindTy:
		t, ok := r.MakeTy()
		if !ok || t == nil {
			return nil, false
		}
		return &ast.TyFragment{Ty: t}, true
	case ast.KindStmts:
		ss, ok := r.MakeStmts()
		if !ok {
			return nil, false
		}
		return &ast.StmtsFragment{Stmts: ss}, true
	case ast.KindItems:
		items, ok := r.MakeItems()
		if !ok {
			return nil, false
		}
		return &ast.ItemsFragment{Items: items}, true
	case ast.KindTraitItems:
		items, ok := r.MakeTraitItems()
		if !ok {
			return nil, false
		}
		return &ast.TraitItemsFragment{Items: items}, true
	case ast.KindImplItems:
		items, ok := r.MakeImplItems()
		if !ok {
			return nil, false
		}
		return &ast.ImplItemsFragment{Items: items}, true
	default:
		return nil, false
	}
}

// hasHole reports a nil node inside a sequence fragment.
func hasHole(fr ast.Fragment) bool {
	switch fr := fr.(type) {
	case *ast.StmtsFragment:
		return slices.Contains(fr.Stmts, nil)
	case *ast.ItemsFragment:
		return slices.Contains(fr.Items, nil)
	case *ast.TraitItemsFragment:
		return slices.Contains(fr.Items, nil)
	case *ast.ImplItemsFragment:
		return slices.Contains(fr.Items, nil)
	}
	return false
}

// singleFragment wraps one annotatable node of kind.
func singleFragment(kind ast.ExpansionKind, nodes ...ast.Annotatable) ast.Fragment {
	fr, err := ast.FragmentFromAnnotatables(kind, nodes)
	if err != nil {
		// callers only pass nodes of kind
		panic(err)
	}
	return fr
}
