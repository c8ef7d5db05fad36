package ast

// Inspect visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Inspect(n Node, fn func(Node) bool) {
	in := &inspector{fn: fn}
	in.Self = in
	switch x := n.(type) {
	case *Crate:
		WalkCrate(in, x)
	case Expr:
		in.FoldExpr(x)
	case Pat:
		in.FoldPat(x)
	case Ty:
		in.FoldTy(x)
	case Stmt:
		in.FoldStmt(x)
	case *Block:
		in.FoldBlock(x)
	case *Item:
		in.FoldItem(x)
	case *TraitItem:
		in.FoldTraitItem(x)
	case *ImplItem:
		in.FoldImplItem(x)
	case *Mac:
		in.FoldMac(x)
	}
}

// InspectFragment runs Inspect over every top-level node of fr.
func InspectFragment(fr Fragment, fn func(Node) bool) {
	in := &inspector{fn: fn}
	in.Self = in
	fr.Fold(in)
}

type inspector struct {
	FoldBase
	fn func(Node) bool
}

func (in *inspector) FoldExpr(e Expr) Expr {
	if !in.fn(e) {
		return e
	}
	return WalkExpr(in, e)
}

func (in *inspector) FoldPat(p Pat) Pat {
	if !in.fn(p) {
		return p
	}
	return WalkPat(in, p)
}

func (in *inspector) FoldTy(t Ty) Ty {
	if !in.fn(t) {
		return t
	}
	return WalkTy(in, t)
}

func (in *inspector) FoldStmt(s Stmt) []Stmt {
	if !in.fn(s) {
		return []Stmt{s}
	}
	return WalkStmt(in, s)
}

func (in *inspector) FoldBlock(b *Block) *Block {
	if b == nil || !in.fn(b) {
		return b
	}
	return WalkBlock(in, b)
}

func (in *inspector) FoldItem(it *Item) []*Item {
	if !in.fn(it) {
		return []*Item{it}
	}
	return []*Item{WalkItem(in, it)}
}

func (in *inspector) FoldTraitItem(it *TraitItem) []*TraitItem {
	if !in.fn(it) {
		return []*TraitItem{it}
	}
	return []*TraitItem{WalkTraitItem(in, it)}
}

func (in *inspector) FoldImplItem(it *ImplItem) []*ImplItem {
	if !in.fn(it) {
		return []*ImplItem{it}
	}
	return []*ImplItem{WalkImplItem(in, it)}
}

func (in *inspector) FoldMac(m *Mac) *Mac {
	if !in.fn(m) {
		return m
	}
	return WalkMac(in, m)
}

type cloner struct{ FoldBase }

func newCloner() *cloner {
	c := &cloner{}
	c.Self = c
	return c
}

// CloneCrate returns a deep copy of c.
func CloneCrate(c *Crate) *Crate { return WalkCrate(newCloner(), c) }

// CloneFragment returns a deep copy of fr.
func CloneFragment(fr Fragment) Fragment { return fr.Fold(newCloner()) }

// IsPlaceholder reports whether n is a placeholder node of any kind.
func IsPlaceholder(n Node) (InvocationID, bool) {
	switch x := n.(type) {
	case *PlaceholderExpr:
		return x.Inv, true
	case *PlaceholderPat:
		return x.Inv, true
	case *PlaceholderTy:
		return x.Inv, true
	case *PlaceholderStmt:
		return x.Inv, true
	case *Item:
		if p, ok := x.Kind.(*PlaceholderItem); ok {
			return p.Inv, true
		}
	case *TraitItem:
		if p, ok := x.Kind.(*TraitPlaceholder); ok {
			return p.Inv, true
		}
	case *ImplItem:
		if p, ok := x.Kind.(*ImplPlaceholder); ok {
			return p.Inv, true
		}
	}
	return 0, false
}

// IsInvocation reports whether n is an unexpanded function-like invocation.
func IsInvocation(n Node) bool {
	switch x := n.(type) {
	case *MacExpr, *MacPat, *MacTy, *MacStmt:
		return true
	case *Item:
		_, ok := x.Kind.(*MacItem)
		return ok
	case *TraitItem:
		_, ok := x.Kind.(*TraitMac)
		return ok
	case *ImplItem:
		_, ok := x.Kind.(*ImplMac)
		return ok
	}
	return false
}
