package treeio

import (
	"fmt"

	"syntex/internal/ast"
)

// decodeError aborts decoding from deep inside the tree; decodeCrate turns
// it back into an error.
type decodeError struct{ err error }

type decoder struct{}

func (decoder) fail(format string, args ...any) {
	panic(decodeError{fmt.Errorf(format, args...)})
}

func (d decoder) crate(c *crate) (out *ast.Crate, err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(decodeError)
			if !ok {
				panic(r)
			}
			out, err = nil, de.err
		}
	}()
	if c == nil {
		return nil, fmt.Errorf("%w: missing crate", ErrMalformed)
	}
	return &ast.Crate{Name: c.Name, Attrs: d.attrs(c.Attrs), Items: d.items(c.Items), Span: c.Span.toSpan()}, nil
}

func (decoder) lit(l *lit) ast.Lit {
	if l == nil {
		return ast.Lit{}
	}
	return ast.Lit{Kind: ast.LitKind(l.Kind), Value: l.Value}
}

func (d decoder) meta(m *meta) *ast.MetaItem {
	if m == nil {
		d.fail("%w: attribute without meta item", ErrMalformed)
	}
	out := &ast.MetaItem{Name: m.Name, Kind: ast.MetaKind(m.Kind), Span: m.Span.toSpan()}
	switch out.Kind {
	case ast.MetaWord:
	case ast.MetaList:
		out.List = make([]*ast.MetaItem, len(m.List))
		for i, sub := range m.List {
			out.List[i] = d.meta(sub)
		}
	case ast.MetaNameValue:
		out.Value = d.lit(m.Lit)
	default:
		d.fail("%w: meta item kind %d", ErrMalformed, m.Kind)
	}
	return out
}

func (d decoder) attrs(as []*attr) []*ast.Attribute {
	if len(as) == 0 {
		return nil
	}
	out := make([]*ast.Attribute, len(as))
	for i, a := range as {
		out[i] = &ast.Attribute{Style: ast.AttrStyle(a.Style), Meta: d.meta(a.Meta), Span: a.Span.toSpan()}
	}
	return out
}

func (d decoder) path(p *path) ast.Path {
	if p == nil {
		return ast.Path{}
	}
	out := ast.Path{Global: p.Global, Segments: make([]ast.PathSegment, len(p.Segments)), Span: p.Span.toSpan()}
	for i, seg := range p.Segments {
		out.Segments[i] = ast.PathSegment{Ident: seg.Ident.toIdent()}
		for _, g := range seg.Generics {
			out.Segments[i].Generics = append(out.Segments[i].Generics, d.ty(g))
		}
	}
	return out
}

func (d decoder) mac(m *mac) *ast.Mac {
	if m == nil {
		d.fail("%w: invocation without call", ErrMalformed)
	}
	return &ast.Mac{Path: d.path(&m.Path), Args: d.tokens(m.Args), Delim: ast.Delim(m.Delim), Span: m.Span.toSpan()}
}

func (d decoder) tokens(ns []*node) []ast.TokenTree {
	if len(ns) == 0 {
		return nil
	}
	out := make([]ast.TokenTree, len(ns))
	for i, n := range ns {
		switch d.need(n, "token tree").K {
		case kToken:
			t := &ast.Token{Kind: ast.TokenKind(n.Num), Span: n.Span.toSpan()}
			switch t.Kind {
			case ast.TokIdent:
				t.Ident = d.name(n)
			case ast.TokLit:
				t.Lit = d.lit(n.Lit)
			case ast.TokPunct:
				t.Punct = n.Str
			default:
				d.fail("%w: token kind %d", ErrMalformed, n.Num)
			}
			out[i] = t
		case kDelimited:
			out[i] = &ast.Delimited{Delim: ast.Delim(n.Num), Trees: d.tokens(n.List), Span: n.Span.toSpan()}
		default:
			d.fail("%w: node kind %d in token position", ErrMalformed, n.K)
		}
	}
	return out
}

func (d decoder) need(n *node, what string) *node {
	if n == nil {
		d.fail("%w: missing %s", ErrMalformed, what)
	}
	return n
}

func (decoder) name(n *node) ast.Ident {
	if n.Name == nil {
		return ast.Ident{}
	}
	return n.Name.toIdent()
}

// kid returns position i of n.Kids, nil when absent.
func kid(n *node, i int) *node {
	if i < len(n.Kids) {
		return n.Kids[i]
	}
	return nil
}

func (d decoder) optExpr(n *node) ast.Expr {
	if n == nil {
		return nil
	}
	return d.expr(n)
}

func (d decoder) expr(n *node) ast.Expr {
	d.need(n, "expression")
	b := ast.ExprBase{ID: ast.NodeID(n.ID), Attrs: d.attrs(n.Attrs), Span: n.Span.toSpan()}
	switch n.K {
	case kLitExpr:
		return &ast.LitExpr{ExprBase: b, Lit: d.lit(n.Lit)}
	case kPathExpr:
		return &ast.PathExpr{ExprBase: b, Path: d.path(n.Path)}
	case kCallExpr:
		return &ast.CallExpr{ExprBase: b, Fn: d.expr(kid(n, 0)), Args: d.exprs(n.List)}
	case kBinaryExpr:
		return &ast.BinaryExpr{ExprBase: b, Op: n.Str, Left: d.expr(kid(n, 0)), Right: d.expr(kid(n, 1))}
	case kUnaryExpr:
		return &ast.UnaryExpr{ExprBase: b, Op: n.Str, Operand: d.expr(kid(n, 0))}
	case kBlockExpr:
		return &ast.BlockExpr{ExprBase: b, Block: d.block(kid(n, 0))}
	case kTupleExpr:
		return &ast.TupleExpr{ExprBase: b, Elems: d.exprs(n.List)}
	case kIfExpr:
		return &ast.IfExpr{ExprBase: b, Cond: d.expr(kid(n, 0)), Then: d.block(kid(n, 1)), Else: d.optExpr(kid(n, 2))}
	case kMacExpr:
		return &ast.MacExpr{ExprBase: b, Mac: d.mac(n.Mac)}
	case kPlaceholderExpr:
		return &ast.PlaceholderExpr{ExprBase: b, Inv: ast.InvocationID(n.Num)}
	case kErrExpr:
		return &ast.ErrExpr{ExprBase: b}
	}
	d.fail("%w: node kind %d in expression position", ErrMalformed, n.K)
	return nil
}

func (d decoder) exprs(ns []*node) []ast.Expr {
	if len(ns) == 0 {
		return nil
	}
	out := make([]ast.Expr, len(ns))
	for i, n := range ns {
		out[i] = d.expr(n)
	}
	return out
}

func (d decoder) pat(n *node) ast.Pat {
	d.need(n, "pattern")
	b := ast.PatBase{ID: ast.NodeID(n.ID), Span: n.Span.toSpan()}
	switch n.K {
	case kIdentPat:
		return &ast.IdentPat{PatBase: b, Name: d.name(n), Mutable: n.Flag}
	case kWildPat:
		return &ast.WildPat{PatBase: b}
	case kLitPat:
		return &ast.LitPat{PatBase: b, Lit: d.lit(n.Lit)}
	case kTuplePat:
		p := &ast.TuplePat{PatBase: b}
		for _, el := range n.List {
			p.Elems = append(p.Elems, d.pat(el))
		}
		return p
	case kPathPat:
		return &ast.PathPat{PatBase: b, Path: d.path(n.Path)}
	case kMacPat:
		return &ast.MacPat{PatBase: b, Mac: d.mac(n.Mac)}
	case kPlaceholderPat:
		return &ast.PlaceholderPat{PatBase: b, Inv: ast.InvocationID(n.Num)}
	}
	d.fail("%w: node kind %d in pattern position", ErrMalformed, n.K)
	return nil
}

func (d decoder) optTy(n *node) ast.Ty {
	if n == nil {
		return nil
	}
	return d.ty(n)
}

func (d decoder) ty(n *node) ast.Ty {
	d.need(n, "type")
	b := ast.TyBase{ID: ast.NodeID(n.ID), Span: n.Span.toSpan()}
	switch n.K {
	case kPathTy:
		return &ast.PathTy{TyBase: b, Path: d.path(n.Path)}
	case kRefTy:
		return &ast.RefTy{TyBase: b, Mutable: n.Flag, Elem: d.ty(kid(n, 0))}
	case kTupleTy:
		t := &ast.TupleTy{TyBase: b}
		for _, el := range n.List {
			t.Elems = append(t.Elems, d.ty(el))
		}
		return t
	case kInferTy:
		return &ast.InferTy{TyBase: b}
	case kMacTy:
		return &ast.MacTy{TyBase: b, Mac: d.mac(n.Mac)}
	case kPlaceholderTy:
		return &ast.PlaceholderTy{TyBase: b, Inv: ast.InvocationID(n.Num)}
	}
	d.fail("%w: node kind %d in type position", ErrMalformed, n.K)
	return nil
}

func (d decoder) stmt(n *node) ast.Stmt {
	d.need(n, "statement")
	b := ast.StmtBase{ID: ast.NodeID(n.ID), Span: n.Span.toSpan()}
	switch n.K {
	case kLetStmt:
		return &ast.LetStmt{StmtBase: b, Attrs: d.attrs(n.Attrs), Pat: d.pat(kid(n, 0)), Ty: d.optTy(kid(n, 1)), Init: d.optExpr(kid(n, 2))}
	case kExprStmt:
		return &ast.ExprStmt{StmtBase: b, Expr: d.expr(kid(n, 0)), Semi: n.Flag}
	case kItemStmt:
		return &ast.ItemStmt{StmtBase: b, Item: d.item(kid(n, 0))}
	case kMacStmt:
		return &ast.MacStmt{StmtBase: b, Attrs: d.attrs(n.Attrs), Mac: d.mac(n.Mac), Style: ast.MacStmtStyle(n.Num)}
	case kPlaceholderStmt:
		return &ast.PlaceholderStmt{StmtBase: b, Inv: ast.InvocationID(n.Num), Semi: n.Flag}
	}
	d.fail("%w: node kind %d in statement position", ErrMalformed, n.K)
	return nil
}

func (d decoder) block(n *node) *ast.Block {
	if n == nil {
		return nil
	}
	if n.K != kBlock {
		d.fail("%w: node kind %d in block position", ErrMalformed, n.K)
	}
	b := &ast.Block{ID: ast.NodeID(n.ID), Span: n.Span.toSpan()}
	for _, s := range n.List {
		b.Stmts = append(b.Stmts, d.stmt(s))
	}
	return b
}

// fnDecl reads parameters from List and the return type from the first kid.
func (d decoder) fnDecl(n *node) ast.FnDecl {
	var decl ast.FnDecl
	for _, p := range n.List {
		if d.need(p, "parameter").K != kParam {
			d.fail("%w: node kind %d in parameter position", ErrMalformed, p.K)
		}
		decl.Params = append(decl.Params, &ast.Param{ID: ast.NodeID(p.ID), Pat: d.pat(kid(p, 0)), Ty: d.ty(kid(p, 1)), Span: p.Span.toSpan()})
	}
	decl.Ret = d.optTy(kid(n, 0))
	return decl
}

func (d decoder) fields(ns []*node, present bool) []*ast.Field {
	if !present {
		return nil
	}
	out := make([]*ast.Field, len(ns))
	for i, n := range ns {
		if d.need(n, "field").K != kField {
			d.fail("%w: node kind %d in field position", ErrMalformed, n.K)
		}
		out[i] = &ast.Field{ID: ast.NodeID(n.ID), Name: d.name(n), Vis: ast.Visibility(n.Vis), Attrs: d.attrs(n.Attrs),
			Ty: d.ty(kid(n, 0)), Span: n.Span.toSpan()}
	}
	return out
}

func (d decoder) items(ns []*node) []*ast.Item {
	if len(ns) == 0 {
		return nil
	}
	out := make([]*ast.Item, len(ns))
	for i, n := range ns {
		out[i] = d.item(n)
	}
	return out
}

func (d decoder) item(n *node) *ast.Item {
	d.need(n, "item")
	it := &ast.Item{ID: ast.NodeID(n.ID), Name: d.name(n), Attrs: d.attrs(n.Attrs), Vis: ast.Visibility(n.Vis), Span: n.Span.toSpan()}
	switch n.K {
	case kFnItem:
		it.Kind = &ast.FnItem{Decl: d.fnDecl(n), Body: d.block(kid(n, 1))}
	case kStructItem:
		it.Kind = &ast.StructItem{Fields: d.fields(n.List, n.Flag)}
	case kEnumItem:
		en := &ast.EnumItem{}
		for _, v := range n.List {
			if d.need(v, "variant").K != kVariant {
				d.fail("%w: node kind %d in variant position", ErrMalformed, v.K)
			}
			en.Variants = append(en.Variants, &ast.Variant{ID: ast.NodeID(v.ID), Name: d.name(v), Attrs: d.attrs(v.Attrs),
				Fields: d.fields(v.List, v.Flag), Span: v.Span.toSpan()})
		}
		it.Kind = en
	case kConstItem:
		it.Kind = &ast.ConstItem{Ty: d.optTy(kid(n, 0)), Value: d.expr(kid(n, 1))}
	case kTypeItem:
		it.Kind = &ast.TypeItem{Ty: d.ty(kid(n, 0))}
	case kUseItem:
		it.Kind = &ast.UseItem{Path: d.path(n.Path)}
	case kModItem:
		it.Kind = &ast.ModItem{Items: d.items(n.List)}
	case kTraitDecl:
		tr := &ast.TraitDecl{}
		for _, ti := range n.List {
			tr.Items = append(tr.Items, d.traitItem(ti))
		}
		it.Kind = tr
	case kImplDecl:
		im := &ast.ImplDecl{Self: d.ty(kid(n, 0))}
		if n.Path != nil {
			p := d.path(n.Path)
			im.Trait = &p
		}
		for _, ii := range n.List {
			im.Items = append(im.Items, d.implItem(ii))
		}
		it.Kind = im
	case kMacItem:
		it.Kind = &ast.MacItem{Mac: d.mac(n.Mac)}
	case kPlaceholderItem:
		it.Kind = &ast.PlaceholderItem{Inv: ast.InvocationID(n.Num)}
	default:
		d.fail("%w: node kind %d in item position", ErrMalformed, n.K)
	}
	return it
}

func (d decoder) traitItem(n *node) *ast.TraitItem {
	d.need(n, "trait item")
	it := &ast.TraitItem{ID: ast.NodeID(n.ID), Name: d.name(n), Attrs: d.attrs(n.Attrs), Span: n.Span.toSpan()}
	switch n.K {
	case kTraitMethod:
		it.Kind = &ast.TraitMethod{Decl: d.fnDecl(n), Body: d.block(kid(n, 1))}
	case kTraitConst:
		it.Kind = &ast.TraitConst{Ty: d.ty(kid(n, 0)), Default: d.optExpr(kid(n, 1))}
	case kTraitType:
		it.Kind = &ast.TraitType{}
	case kTraitMac:
		it.Kind = &ast.TraitMac{Mac: d.mac(n.Mac)}
	case kTraitPlaceholder:
		it.Kind = &ast.TraitPlaceholder{Inv: ast.InvocationID(n.Num)}
	default:
		d.fail("%w: node kind %d in trait item position", ErrMalformed, n.K)
	}
	return it
}

func (d decoder) implItem(n *node) *ast.ImplItem {
	d.need(n, "impl item")
	it := &ast.ImplItem{ID: ast.NodeID(n.ID), Name: d.name(n), Attrs: d.attrs(n.Attrs), Vis: ast.Visibility(n.Vis), Span: n.Span.toSpan()}
	switch n.K {
	case kImplMethod:
		it.Kind = &ast.ImplMethod{Decl: d.fnDecl(n), Body: d.block(kid(n, 1))}
	case kImplConst:
		it.Kind = &ast.ImplConst{Ty: d.ty(kid(n, 0)), Value: d.expr(kid(n, 1))}
	case kImplType:
		it.Kind = &ast.ImplType{Ty: d.ty(kid(n, 0))}
	case kImplMac:
		it.Kind = &ast.ImplMac{Mac: d.mac(n.Mac)}
	case kImplPlaceholder:
		it.Kind = &ast.ImplPlaceholder{Inv: ast.InvocationID(n.Num)}
	default:
		d.fail("%w: node kind %d in impl item position", ErrMalformed, n.K)
	}
	return it
}
