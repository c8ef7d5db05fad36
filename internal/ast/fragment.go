package ast

// Fragment is a typed expansion result; its concrete type always matches
// Kind().
type Fragment interface {
	Kind() ExpansionKind
	// Fold runs f over the fragment's nodes and returns the rebuilt fragment.
	Fold(f Folder) Fragment
}

type (
	// OptExprFragment may hold a nil Expr: the expression was removed.
	OptExprFragment struct{ Expr Expr }
	ExprFragment    struct{ Expr Expr }
	PatFragment     struct{ Pat Pat }
	TyFragment      struct{ Ty Ty }
	StmtsFragment   struct{ Stmts []Stmt }
	ItemsFragment   struct{ Items []*Item }

	TraitItemsFragment struct{ Items []*TraitItem }
	ImplItemsFragment  struct{ Items []*ImplItem }
)

func (*OptExprFragment) Kind() ExpansionKind    { return KindOptExpr }
func (*ExprFragment) Kind() ExpansionKind       { return KindExpr }
func (*PatFragment) Kind() ExpansionKind        { return KindPat }
func (*TyFragment) Kind() ExpansionKind         { return KindTy }
func (*StmtsFragment) Kind() ExpansionKind      { return KindStmts }
func (*ItemsFragment) Kind() ExpansionKind      { return KindItems }
func (*TraitItemsFragment) Kind() ExpansionKind { return KindTraitItems }
func (*ImplItemsFragment) Kind() ExpansionKind  { return KindImplItems }

func (fr *OptExprFragment) Fold(f Folder) Fragment {
	if fr.Expr == nil {
		return &OptExprFragment{}
	}
	return &OptExprFragment{Expr: f.FoldOptExpr(fr.Expr)}
}

func (fr *ExprFragment) Fold(f Folder) Fragment {
	return &ExprFragment{Expr: f.FoldExpr(fr.Expr)}
}

func (fr *PatFragment) Fold(f Folder) Fragment {
	return &PatFragment{Pat: f.FoldPat(fr.Pat)}
}

func (fr *TyFragment) Fold(f Folder) Fragment {
	return &TyFragment{Ty: f.FoldTy(fr.Ty)}
}

func (fr *StmtsFragment) Fold(f Folder) Fragment {
	return &StmtsFragment{Stmts: foldStmts(f, fr.Stmts)}
}

func (fr *ItemsFragment) Fold(f Folder) Fragment {
	return &ItemsFragment{Items: foldItems(f, fr.Items)}
}

func (fr *TraitItemsFragment) Fold(f Folder) Fragment {
	return &TraitItemsFragment{Items: foldTraitItems(f, fr.Items)}
}

func (fr *ImplItemsFragment) Fold(f Folder) Fragment {
	return &ImplItemsFragment{Items: foldImplItems(f, fr.Items)}
}

// FragmentLen counts the top-level nodes of a fragment.
func FragmentLen(fr Fragment) int {
	switch x := fr.(type) {
	case *OptExprFragment:
		if x.Expr == nil {
			return 0
		}
		return 1
	case *StmtsFragment:
		return len(x.Stmts)
	case *ItemsFragment:
		return len(x.Items)
	case *TraitItemsFragment:
		return len(x.Items)
	case *ImplItemsFragment:
		return len(x.Items)
	default:
		return 1
	}
}
