package ast

import "syntex/internal/source"

// ExpansionKind is the syntactic category an invocation must produce.
type ExpansionKind uint8

const (
	KindOptExpr ExpansionKind = iota + 1 // expression that may disappear
	KindExpr
	KindPat
	KindTy
	KindStmts
	KindItems
	KindTraitItems
	KindImplItems
)

// Kinds lists every expansion kind in declaration order.
var Kinds = []ExpansionKind{KindOptExpr, KindExpr, KindPat, KindTy, KindStmts, KindItems, KindTraitItems, KindImplItems}

// Name is the human-readable category used in diagnostics.
func (k ExpansionKind) Name() string {
	switch k {
	case KindOptExpr, KindExpr:
		return "expression"
	case KindPat:
		return "pattern"
	case KindTy:
		return "type"
	case KindStmts:
		return "statement"
	case KindItems:
		return "item"
	case KindTraitItems:
		return "trait item"
	case KindImplItems:
		return "impl item"
	default:
		return "unknown"
	}
}

func (k ExpansionKind) String() string {
	if k == KindOptExpr {
		return "optional expression"
	}
	return k.Name()
}

// IsSequence reports whether the kind expands to zero or more nodes.
func (k ExpansionKind) IsSequence() bool {
	return k >= KindStmts
}

// Placeholder builds the stand-in node that occupies the invocation's
// position until its result is substituted.
func (k ExpansionKind) Placeholder(inv InvocationID, sp source.Span) Fragment {
	switch k {
	case KindOptExpr:
		return &OptExprFragment{Expr: &PlaceholderExpr{ExprBase: ExprBase{Span: sp}, Inv: inv}}
	case KindExpr:
		return &ExprFragment{Expr: &PlaceholderExpr{ExprBase: ExprBase{Span: sp}, Inv: inv}}
	case KindPat:
		return &PatFragment{Pat: &PlaceholderPat{PatBase: PatBase{Span: sp}, Inv: inv}}
	case KindTy:
		return &TyFragment{Ty: &PlaceholderTy{TyBase: TyBase{Span: sp}, Inv: inv}}
	case KindStmts:
		return &StmtsFragment{Stmts: []Stmt{&PlaceholderStmt{StmtBase: StmtBase{Span: sp}, Inv: inv}}}
	case KindItems:
		return &ItemsFragment{Items: []*Item{{Kind: &PlaceholderItem{Inv: inv}, Span: sp}}}
	case KindTraitItems:
		return &TraitItemsFragment{Items: []*TraitItem{{Kind: &TraitPlaceholder{Inv: inv}, Span: sp}}}
	case KindImplItems:
		return &ImplItemsFragment{Items: []*ImplItem{{Kind: &ImplPlaceholder{Inv: inv}, Span: sp}}}
	default:
		panic("ast: placeholder for unknown expansion kind")
	}
}

// Dummy builds the neutral error result used when an invocation cannot be
// expanded. The tree stays well-formed: expressions become ErrExpr, patterns
// `_`, types `_`, statements a single error expression, item kinds nothing.
func (k ExpansionKind) Dummy(sp source.Span) Fragment {
	switch k {
	case KindOptExpr:
		return &OptExprFragment{Expr: &ErrExpr{ExprBase: ExprBase{Span: sp}}}
	case KindExpr:
		return &ExprFragment{Expr: &ErrExpr{ExprBase: ExprBase{Span: sp}}}
	case KindPat:
		return &PatFragment{Pat: &WildPat{PatBase: PatBase{Span: sp}}}
	case KindTy:
		return &TyFragment{Ty: &InferTy{TyBase: TyBase{Span: sp}}}
	case KindStmts:
		return &StmtsFragment{Stmts: []Stmt{&ExprStmt{StmtBase: StmtBase{Span: sp}, Expr: &ErrExpr{ExprBase: ExprBase{Span: sp}}}}}
	case KindItems:
		return &ItemsFragment{}
	case KindTraitItems:
		return &TraitItemsFragment{}
	case KindImplItems:
		return &ImplItemsFragment{}
	default:
		panic("ast: dummy for unknown expansion kind")
	}
}
