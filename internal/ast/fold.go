package ast

import (
	"slices"

	"syntex/internal/source"
)

// Folder rebuilds a tree. Folding is pure: implementations return new nodes
// and never modify their input, so a folded tree may share nothing mutable
// with the original. Sequence positions return slices so a node may be
// replaced by zero or more nodes.
type Folder interface {
	FoldExpr(Expr) Expr
	// FoldOptExpr may return nil to drop the expression.
	FoldOptExpr(Expr) Expr
	FoldPat(Pat) Pat
	FoldTy(Ty) Ty
	FoldStmt(Stmt) []Stmt
	FoldBlock(*Block) *Block
	FoldItem(*Item) []*Item
	FoldTraitItem(*TraitItem) []*TraitItem
	FoldImplItem(*ImplItem) []*ImplItem
	FoldMac(*Mac) *Mac
	FoldIdent(Ident) Ident
	FoldSpan(source.Span) source.Span
	FoldNodeID(NodeID) NodeID
}

// FoldBase implements every Folder method with the structural walk. Embed it
// and set Self to the embedding folder so that overridden methods are
// reached from nested positions.
type FoldBase struct {
	Self Folder
}

func (b FoldBase) FoldExpr(e Expr) Expr       { return WalkExpr(b.Self, e) }
func (b FoldBase) FoldOptExpr(e Expr) Expr    { return b.Self.FoldExpr(e) }
func (b FoldBase) FoldPat(p Pat) Pat          { return WalkPat(b.Self, p) }
func (b FoldBase) FoldTy(t Ty) Ty             { return WalkTy(b.Self, t) }
func (b FoldBase) FoldStmt(s Stmt) []Stmt     { return WalkStmt(b.Self, s) }
func (b FoldBase) FoldBlock(bl *Block) *Block { return WalkBlock(b.Self, bl) }
func (b FoldBase) FoldItem(it *Item) []*Item  { return []*Item{WalkItem(b.Self, it)} }
func (b FoldBase) FoldTraitItem(it *TraitItem) []*TraitItem {
	return []*TraitItem{WalkTraitItem(b.Self, it)}
}
func (b FoldBase) FoldImplItem(it *ImplItem) []*ImplItem { return []*ImplItem{WalkImplItem(b.Self, it)} }
func (b FoldBase) FoldMac(m *Mac) *Mac                   { return WalkMac(b.Self, m) }
func (b FoldBase) FoldIdent(id Ident) Ident              { return WalkIdent(b.Self, id) }
func (FoldBase) FoldSpan(sp source.Span) source.Span     { return sp }
func (FoldBase) FoldNodeID(id NodeID) NodeID             { return id }

func walkExprBase(f Folder, b ExprBase) ExprBase {
	b.ID = f.FoldNodeID(b.ID)
	b.Span = f.FoldSpan(b.Span)
	b.Attrs = slices.Clone(b.Attrs)
	return b
}

func WalkExpr(f Folder, e Expr) Expr {
	switch x := e.(type) {
	case *LitExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		return &c
	case *PathExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Path = WalkPath(f, c.Path)
		return &c
	case *CallExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Fn = f.FoldExpr(c.Fn)
		c.Args = foldOptExprs(f, c.Args)
		return &c
	case *BinaryExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Left = f.FoldExpr(c.Left)
		c.Right = f.FoldExpr(c.Right)
		return &c
	case *UnaryExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Operand = f.FoldExpr(c.Operand)
		return &c
	case *BlockExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Block = f.FoldBlock(c.Block)
		return &c
	case *TupleExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Elems = foldOptExprs(f, c.Elems)
		return &c
	case *IfExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Cond = f.FoldExpr(c.Cond)
		c.Then = f.FoldBlock(c.Then)
		if c.Else != nil {
			c.Else = f.FoldExpr(c.Else)
		}
		return &c
	case *MacExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		c.Mac = f.FoldMac(c.Mac)
		return &c
	case *PlaceholderExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		return &c
	case *ErrExpr:
		c := *x
		c.ExprBase = walkExprBase(f, c.ExprBase)
		return &c
	default:
		panic("ast: unknown expression node")
	}
}

func foldOptExprs(f Folder, es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, 0, len(es))
	for _, e := range es {
		if r := f.FoldOptExpr(e); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func walkPatBase(f Folder, b PatBase) PatBase {
	b.ID = f.FoldNodeID(b.ID)
	b.Span = f.FoldSpan(b.Span)
	return b
}

func WalkPat(f Folder, p Pat) Pat {
	switch x := p.(type) {
	case *IdentPat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		c.Name = f.FoldIdent(c.Name)
		return &c
	case *WildPat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		return &c
	case *LitPat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		return &c
	case *TuplePat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		c.Elems = make([]Pat, len(x.Elems))
		for i, el := range x.Elems {
			c.Elems[i] = f.FoldPat(el)
		}
		return &c
	case *PathPat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		c.Path = WalkPath(f, c.Path)
		return &c
	case *MacPat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		c.Mac = f.FoldMac(c.Mac)
		return &c
	case *PlaceholderPat:
		c := *x
		c.PatBase = walkPatBase(f, c.PatBase)
		return &c
	default:
		panic("ast: unknown pattern node")
	}
}

func walkTyBase(f Folder, b TyBase) TyBase {
	b.ID = f.FoldNodeID(b.ID)
	b.Span = f.FoldSpan(b.Span)
	return b
}

func WalkTy(f Folder, t Ty) Ty {
	switch x := t.(type) {
	case *PathTy:
		c := *x
		c.TyBase = walkTyBase(f, c.TyBase)
		c.Path = WalkPath(f, c.Path)
		return &c
	case *RefTy:
		c := *x
		c.TyBase = walkTyBase(f, c.TyBase)
		c.Elem = f.FoldTy(c.Elem)
		return &c
	case *TupleTy:
		c := *x
		c.TyBase = walkTyBase(f, c.TyBase)
		c.Elems = make([]Ty, len(x.Elems))
		for i, el := range x.Elems {
			c.Elems[i] = f.FoldTy(el)
		}
		return &c
	case *InferTy:
		c := *x
		c.TyBase = walkTyBase(f, c.TyBase)
		return &c
	case *MacTy:
		c := *x
		c.TyBase = walkTyBase(f, c.TyBase)
		c.Mac = f.FoldMac(c.Mac)
		return &c
	case *PlaceholderTy:
		c := *x
		c.TyBase = walkTyBase(f, c.TyBase)
		return &c
	default:
		panic("ast: unknown type node")
	}
}

func foldOptTy(f Folder, t Ty) Ty {
	if t == nil {
		return nil
	}
	return f.FoldTy(t)
}

func foldOptExpr(f Folder, e Expr) Expr {
	if e == nil {
		return nil
	}
	return f.FoldExpr(e)
}

func walkStmtBase(f Folder, b StmtBase) StmtBase {
	b.ID = f.FoldNodeID(b.ID)
	b.Span = f.FoldSpan(b.Span)
	return b
}

// WalkStmt folds the children of s. An item statement whose item folds to
// several items becomes several statements.
func WalkStmt(f Folder, s Stmt) []Stmt {
	switch x := s.(type) {
	case *LetStmt:
		c := *x
		c.StmtBase = walkStmtBase(f, c.StmtBase)
		c.Attrs = slices.Clone(c.Attrs)
		c.Pat = f.FoldPat(c.Pat)
		c.Ty = foldOptTy(f, c.Ty)
		c.Init = foldOptExpr(f, c.Init)
		return []Stmt{&c}
	case *ExprStmt:
		c := *x
		c.StmtBase = walkStmtBase(f, c.StmtBase)
		c.Expr = f.FoldExpr(c.Expr)
		return []Stmt{&c}
	case *ItemStmt:
		base := walkStmtBase(f, x.StmtBase)
		items := f.FoldItem(x.Item)
		out := make([]Stmt, 0, len(items))
		for i, it := range items {
			id := base.ID
			if i > 0 {
				id = f.FoldNodeID(DummyNodeID)
			}
			out = append(out, &ItemStmt{StmtBase: StmtBase{ID: id, Span: it.Span}, Item: it})
		}
		return out
	case *MacStmt:
		c := *x
		c.StmtBase = walkStmtBase(f, c.StmtBase)
		c.Attrs = slices.Clone(c.Attrs)
		c.Mac = f.FoldMac(c.Mac)
		return []Stmt{&c}
	case *PlaceholderStmt:
		c := *x
		c.StmtBase = walkStmtBase(f, c.StmtBase)
		return []Stmt{&c}
	default:
		panic("ast: unknown statement node")
	}
}

func foldStmts(f Folder, ss []Stmt) []Stmt {
	out := make([]Stmt, 0, len(ss))
	for _, s := range ss {
		out = append(out, f.FoldStmt(s)...)
	}
	return out
}

func WalkBlock(f Folder, b *Block) *Block {
	if b == nil {
		return nil
	}
	return &Block{
		ID:    f.FoldNodeID(b.ID),
		Stmts: foldStmts(f, b.Stmts),
		Span:  f.FoldSpan(b.Span),
	}
}

func walkFnDecl(f Folder, d FnDecl) FnDecl {
	out := FnDecl{Ret: foldOptTy(f, d.Ret)}
	if d.Params != nil {
		out.Params = make([]*Param, len(d.Params))
		for i, p := range d.Params {
			out.Params[i] = &Param{
				ID:   f.FoldNodeID(p.ID),
				Pat:  f.FoldPat(p.Pat),
				Ty:   f.FoldTy(p.Ty),
				Span: f.FoldSpan(p.Span),
			}
		}
	}
	return out
}

// WalkField folds a struct or variant field.
func WalkField(f Folder, fl *Field) *Field {
	c := *fl
	c.ID = f.FoldNodeID(c.ID)
	if !c.Name.IsInvalid() {
		c.Name = f.FoldIdent(c.Name)
	}
	c.Attrs = slices.Clone(c.Attrs)
	c.Ty = f.FoldTy(c.Ty)
	c.Span = f.FoldSpan(c.Span)
	return &c
}

func walkFields(f Folder, fs []*Field) []*Field {
	if fs == nil {
		return nil
	}
	out := make([]*Field, len(fs))
	for i, fl := range fs {
		out[i] = WalkField(f, fl)
	}
	return out
}

func foldItems(f Folder, items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		out = append(out, f.FoldItem(it)...)
	}
	return out
}

func foldTraitItems(f Folder, items []*TraitItem) []*TraitItem {
	out := make([]*TraitItem, 0, len(items))
	for _, it := range items {
		out = append(out, f.FoldTraitItem(it)...)
	}
	return out
}

func foldImplItems(f Folder, items []*ImplItem) []*ImplItem {
	out := make([]*ImplItem, 0, len(items))
	for _, it := range items {
		out = append(out, f.FoldImplItem(it)...)
	}
	return out
}

// WalkItem folds one item's children and returns a new item.
func WalkItem(f Folder, it *Item) *Item {
	c := *it
	c.ID = f.FoldNodeID(c.ID)
	if !c.Name.IsInvalid() {
		c.Name = f.FoldIdent(c.Name)
	}
	c.Attrs = slices.Clone(c.Attrs)
	c.Span = f.FoldSpan(c.Span)
	c.Kind = walkItemKind(f, c.Kind)
	return &c
}

func walkItemKind(f Folder, k ItemKind) ItemKind {
	switch x := k.(type) {
	case *FnItem:
		return &FnItem{Decl: walkFnDecl(f, x.Decl), Body: f.FoldBlock(x.Body)}
	case *StructItem:
		return &StructItem{Fields: walkFields(f, x.Fields)}
	case *EnumItem:
		out := &EnumItem{Variants: make([]*Variant, len(x.Variants))}
		for i, v := range x.Variants {
			c := *v
			c.ID = f.FoldNodeID(c.ID)
			c.Name = f.FoldIdent(c.Name)
			c.Attrs = slices.Clone(c.Attrs)
			c.Fields = walkFields(f, c.Fields)
			c.Span = f.FoldSpan(c.Span)
			out.Variants[i] = &c
		}
		return out
	case *ConstItem:
		return &ConstItem{Ty: foldOptTy(f, x.Ty), Value: f.FoldExpr(x.Value)}
	case *TypeItem:
		return &TypeItem{Ty: f.FoldTy(x.Ty)}
	case *UseItem:
		return &UseItem{Path: WalkPath(f, x.Path)}
	case *ModItem:
		return &ModItem{Items: foldItems(f, x.Items)}
	case *TraitDecl:
		return &TraitDecl{Items: foldTraitItems(f, x.Items)}
	case *ImplDecl:
		out := &ImplDecl{Self: f.FoldTy(x.Self), Items: foldImplItems(f, x.Items)}
		if x.Trait != nil {
			p := WalkPath(f, *x.Trait)
			out.Trait = &p
		}
		return out
	case *MacItem:
		return &MacItem{Mac: f.FoldMac(x.Mac)}
	case *PlaceholderItem:
		c := *x
		return &c
	default:
		panic("ast: unknown item kind")
	}
}

func WalkTraitItem(f Folder, it *TraitItem) *TraitItem {
	c := *it
	c.ID = f.FoldNodeID(c.ID)
	if !c.Name.IsInvalid() {
		c.Name = f.FoldIdent(c.Name)
	}
	c.Attrs = slices.Clone(c.Attrs)
	c.Span = f.FoldSpan(c.Span)
	switch x := c.Kind.(type) {
	case *TraitMethod:
		c.Kind = &TraitMethod{Decl: walkFnDecl(f, x.Decl), Body: f.FoldBlock(x.Body)}
	case *TraitConst:
		c.Kind = &TraitConst{Ty: f.FoldTy(x.Ty), Default: foldOptExpr(f, x.Default)}
	case *TraitType:
		c.Kind = &TraitType{}
	case *TraitMac:
		c.Kind = &TraitMac{Mac: f.FoldMac(x.Mac)}
	case *TraitPlaceholder:
		k := *x
		c.Kind = &k
	default:
		panic("ast: unknown trait item kind")
	}
	return &c
}

func WalkImplItem(f Folder, it *ImplItem) *ImplItem {
	c := *it
	c.ID = f.FoldNodeID(c.ID)
	if !c.Name.IsInvalid() {
		c.Name = f.FoldIdent(c.Name)
	}
	c.Attrs = slices.Clone(c.Attrs)
	c.Span = f.FoldSpan(c.Span)
	switch x := c.Kind.(type) {
	case *ImplMethod:
		c.Kind = &ImplMethod{Decl: walkFnDecl(f, x.Decl), Body: f.FoldBlock(x.Body)}
	case *ImplConst:
		c.Kind = &ImplConst{Ty: f.FoldTy(x.Ty), Value: f.FoldExpr(x.Value)}
	case *ImplType:
		c.Kind = &ImplType{Ty: f.FoldTy(x.Ty)}
	case *ImplMac:
		c.Kind = &ImplMac{Mac: f.FoldMac(x.Mac)}
	case *ImplPlaceholder:
		k := *x
		c.Kind = &k
	default:
		panic("ast: unknown impl item kind")
	}
	return &c
}

// WalkMac folds the invocation path and the identifiers inside its
// arguments.
func WalkMac(f Folder, m *Mac) *Mac {
	c := *m
	c.Path = WalkPath(f, c.Path)
	c.Args = WalkTokenTrees(f, c.Args)
	c.Span = f.FoldSpan(c.Span)
	return &c
}

func WalkTokenTrees(f Folder, tts []TokenTree) []TokenTree {
	if tts == nil {
		return nil
	}
	out := make([]TokenTree, len(tts))
	for i, tt := range tts {
		switch t := tt.(type) {
		case *Token:
			c := *t
			if c.Kind == TokIdent {
				c.Ident = f.FoldIdent(c.Ident)
			}
			c.Span = f.FoldSpan(c.Span)
			out[i] = &c
		case *Delimited:
			out[i] = &Delimited{Delim: t.Delim, Trees: WalkTokenTrees(f, t.Trees), Span: f.FoldSpan(t.Span)}
		}
	}
	return out
}

func WalkPath(f Folder, p Path) Path {
	out := Path{Global: p.Global, Span: f.FoldSpan(p.Span)}
	if p.Segments != nil {
		out.Segments = make([]PathSegment, len(p.Segments))
		for i, seg := range p.Segments {
			ns := PathSegment{Ident: f.FoldIdent(seg.Ident)}
			if seg.Generics != nil {
				ns.Generics = make([]Ty, len(seg.Generics))
				for j, g := range seg.Generics {
					ns.Generics[j] = f.FoldTy(g)
				}
			}
			out.Segments[i] = ns
		}
	}
	return out
}

func WalkIdent(f Folder, id Ident) Ident {
	id.Span = f.FoldSpan(id.Span)
	return id
}

// WalkCrate folds the crate's items.
func WalkCrate(f Folder, c *Crate) *Crate {
	return &Crate{
		Name:  c.Name,
		Attrs: slices.Clone(c.Attrs),
		Items: foldItems(f, c.Items),
		Span:  f.FoldSpan(c.Span),
	}
}
