package treeio

import (
	"fmt"

	"syntex/internal/ast"
)

// encoder flattens a crate into wire nodes. Unknown node types are a
// programming error in the caller and abort the encoding.
type encoder struct{}

func (e encoder) crate(c *ast.Crate) *crate {
	return &crate{Name: c.Name, Attrs: e.attrs(c.Attrs), Items: e.items(c.Items), Span: fromSpan(c.Span)}
}

func (encoder) lit(l ast.Lit) *lit { return &lit{Kind: uint8(l.Kind), Value: l.Value} }

func (e encoder) meta(m *ast.MetaItem) *meta {
	if m == nil {
		return nil
	}
	out := &meta{Name: m.Name, Kind: uint8(m.Kind), Span: fromSpan(m.Span)}
	if m.Kind == ast.MetaNameValue {
		out.Lit = e.lit(m.Value)
	}
	for _, sub := range m.List {
		out.List = append(out.List, e.meta(sub))
	}
	return out
}

func (e encoder) attrs(as []*ast.Attribute) []*attr {
	if len(as) == 0 {
		return nil
	}
	out := make([]*attr, len(as))
	for i, a := range as {
		out[i] = &attr{Style: uint8(a.Style), Meta: e.meta(a.Meta), Span: fromSpan(a.Span)}
	}
	return out
}

func (e encoder) path(p ast.Path) *path {
	out := &path{Global: p.Global, Segments: make([]segment, len(p.Segments)), Span: fromSpan(p.Span)}
	for i, seg := range p.Segments {
		out.Segments[i] = segment{Ident: fromIdent(seg.Ident)}
		for _, g := range seg.Generics {
			out.Segments[i].Generics = append(out.Segments[i].Generics, e.ty(g))
		}
	}
	return out
}

func (e encoder) mac(m *ast.Mac) *mac {
	out := &mac{Path: *e.path(m.Path), Delim: uint8(m.Delim), Span: fromSpan(m.Span)}
	out.Args = e.tokens(m.Args)
	return out
}

func (e encoder) tokens(tts []ast.TokenTree) []*node {
	if len(tts) == 0 {
		return nil
	}
	out := make([]*node, len(tts))
	for i, tt := range tts {
		switch t := tt.(type) {
		case *ast.Token:
			n := &node{K: kToken, Span: fromSpan(t.Span), Num: uint32(t.Kind)}
			switch t.Kind {
			case ast.TokIdent:
				id := fromIdent(t.Ident)
				n.Name = &id
			case ast.TokLit:
				n.Lit = e.lit(t.Lit)
			default:
				n.Str = t.Punct
			}
			out[i] = n
		case *ast.Delimited:
			out[i] = &node{K: kDelimited, Span: fromSpan(t.Span), Num: uint32(t.Delim), List: e.tokens(t.Trees)}
		default:
			panic(fmt.Sprintf("treeio: unknown token tree %T", tt))
		}
	}
	return out
}

func withName(n *node, id ast.Ident) *node {
	w := fromIdent(id)
	n.Name = &w
	return n
}

func (e encoder) expr(x ast.Expr) *node {
	if x == nil {
		return nil
	}
	switch v := x.(type) {
	case *ast.LitExpr:
		n := e.exprBase(kLitExpr, &v.ExprBase)
		n.Lit = e.lit(v.Lit)
		return n
	case *ast.PathExpr:
		n := e.exprBase(kPathExpr, &v.ExprBase)
		n.Path = e.path(v.Path)
		return n
	case *ast.CallExpr:
		n := e.exprBase(kCallExpr, &v.ExprBase)
		n.Kids = []*node{e.expr(v.Fn)}
		n.List = e.exprs(v.Args)
		return n
	case *ast.BinaryExpr:
		n := e.exprBase(kBinaryExpr, &v.ExprBase)
		n.Str = v.Op
		n.Kids = []*node{e.expr(v.Left), e.expr(v.Right)}
		return n
	case *ast.UnaryExpr:
		n := e.exprBase(kUnaryExpr, &v.ExprBase)
		n.Str = v.Op
		n.Kids = []*node{e.expr(v.Operand)}
		return n
	case *ast.BlockExpr:
		n := e.exprBase(kBlockExpr, &v.ExprBase)
		n.Kids = []*node{e.block(v.Block)}
		return n
	case *ast.TupleExpr:
		n := e.exprBase(kTupleExpr, &v.ExprBase)
		n.List = e.exprs(v.Elems)
		return n
	case *ast.IfExpr:
		n := e.exprBase(kIfExpr, &v.ExprBase)
		n.Kids = []*node{e.expr(v.Cond), e.block(v.Then), e.expr(v.Else)}
		return n
	case *ast.MacExpr:
		n := e.exprBase(kMacExpr, &v.ExprBase)
		n.Mac = e.mac(v.Mac)
		return n
	case *ast.PlaceholderExpr:
		n := e.exprBase(kPlaceholderExpr, &v.ExprBase)
		n.Num = uint32(v.Inv)
		return n
	case *ast.ErrExpr:
		return e.exprBase(kErrExpr, &v.ExprBase)
	}
	panic(fmt.Sprintf("treeio: unknown expression %T", x))
}

func (e encoder) exprBase(k kind, b *ast.ExprBase) *node {
	return &node{K: k, ID: uint32(b.ID), Span: fromSpan(b.Span), Attrs: e.attrs(b.Attrs)}
}

func (e encoder) exprs(xs []ast.Expr) []*node {
	if len(xs) == 0 {
		return nil
	}
	out := make([]*node, len(xs))
	for i, x := range xs {
		out[i] = e.expr(x)
	}
	return out
}

func (e encoder) pat(p ast.Pat) *node {
	if p == nil {
		return nil
	}
	switch v := p.(type) {
	case *ast.IdentPat:
		n := withName(patNode(kIdentPat, &v.PatBase), v.Name)
		n.Flag = v.Mutable
		return n
	case *ast.WildPat:
		return patNode(kWildPat, &v.PatBase)
	case *ast.LitPat:
		n := patNode(kLitPat, &v.PatBase)
		n.Lit = e.lit(v.Lit)
		return n
	case *ast.TuplePat:
		n := patNode(kTuplePat, &v.PatBase)
		for _, el := range v.Elems {
			n.List = append(n.List, e.pat(el))
		}
		return n
	case *ast.PathPat:
		n := patNode(kPathPat, &v.PatBase)
		n.Path = e.path(v.Path)
		return n
	case *ast.MacPat:
		n := patNode(kMacPat, &v.PatBase)
		n.Mac = e.mac(v.Mac)
		return n
	case *ast.PlaceholderPat:
		n := patNode(kPlaceholderPat, &v.PatBase)
		n.Num = uint32(v.Inv)
		return n
	}
	panic(fmt.Sprintf("treeio: unknown pattern %T", p))
}

func patNode(k kind, b *ast.PatBase) *node {
	return &node{K: k, ID: uint32(b.ID), Span: fromSpan(b.Span)}
}

func (e encoder) ty(t ast.Ty) *node {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.PathTy:
		n := tyNode(kPathTy, &v.TyBase)
		n.Path = e.path(v.Path)
		return n
	case *ast.RefTy:
		n := tyNode(kRefTy, &v.TyBase)
		n.Flag = v.Mutable
		n.Kids = []*node{e.ty(v.Elem)}
		return n
	case *ast.TupleTy:
		n := tyNode(kTupleTy, &v.TyBase)
		for _, el := range v.Elems {
			n.List = append(n.List, e.ty(el))
		}
		return n
	case *ast.InferTy:
		return tyNode(kInferTy, &v.TyBase)
	case *ast.MacTy:
		n := tyNode(kMacTy, &v.TyBase)
		n.Mac = e.mac(v.Mac)
		return n
	case *ast.PlaceholderTy:
		n := tyNode(kPlaceholderTy, &v.TyBase)
		n.Num = uint32(v.Inv)
		return n
	}
	panic(fmt.Sprintf("treeio: unknown type %T", t))
}

func tyNode(k kind, b *ast.TyBase) *node {
	return &node{K: k, ID: uint32(b.ID), Span: fromSpan(b.Span)}
}

func (e encoder) stmt(s ast.Stmt) *node {
	switch v := s.(type) {
	case *ast.LetStmt:
		n := stmtNode(kLetStmt, &v.StmtBase)
		n.Attrs = e.attrs(v.Attrs)
		n.Kids = []*node{e.pat(v.Pat), e.ty(v.Ty), e.expr(v.Init)}
		return n
	case *ast.ExprStmt:
		n := stmtNode(kExprStmt, &v.StmtBase)
		n.Flag = v.Semi
		n.Kids = []*node{e.expr(v.Expr)}
		return n
	case *ast.ItemStmt:
		n := stmtNode(kItemStmt, &v.StmtBase)
		n.Kids = []*node{e.item(v.Item)}
		return n
	case *ast.MacStmt:
		n := stmtNode(kMacStmt, &v.StmtBase)
		n.Attrs = e.attrs(v.Attrs)
		n.Mac = e.mac(v.Mac)
		n.Num = uint32(v.Style)
		return n
	case *ast.PlaceholderStmt:
		n := stmtNode(kPlaceholderStmt, &v.StmtBase)
		n.Num = uint32(v.Inv)
		n.Flag = v.Semi
		return n
	}
	panic(fmt.Sprintf("treeio: unknown statement %T", s))
}

func stmtNode(k kind, b *ast.StmtBase) *node {
	return &node{K: k, ID: uint32(b.ID), Span: fromSpan(b.Span)}
}

func (e encoder) block(b *ast.Block) *node {
	if b == nil {
		return nil
	}
	n := &node{K: kBlock, ID: uint32(b.ID), Span: fromSpan(b.Span)}
	for _, s := range b.Stmts {
		n.List = append(n.List, e.stmt(s))
	}
	return n
}

// fnDecl stores parameters in List and the return type as the first kid.
func (e encoder) fnDecl(n *node, d ast.FnDecl) {
	for _, p := range d.Params {
		n.List = append(n.List, &node{K: kParam, ID: uint32(p.ID), Span: fromSpan(p.Span), Kids: []*node{e.pat(p.Pat), e.ty(p.Ty)}})
	}
	n.Kids = append(n.Kids, e.ty(d.Ret))
}

func (e encoder) fields(fs []*ast.Field) []*node {
	if fs == nil {
		return nil
	}
	out := make([]*node, len(fs))
	for i, f := range fs {
		out[i] = withName(&node{K: kField, ID: uint32(f.ID), Span: fromSpan(f.Span), Vis: uint8(f.Vis),
			Attrs: e.attrs(f.Attrs), Kids: []*node{e.ty(f.Ty)}}, f.Name)
	}
	return out
}

func (e encoder) items(items []*ast.Item) []*node {
	if len(items) == 0 {
		return nil
	}
	out := make([]*node, len(items))
	for i, it := range items {
		out[i] = e.item(it)
	}
	return out
}

func (e encoder) item(it *ast.Item) *node {
	n := withName(&node{ID: uint32(it.ID), Span: fromSpan(it.Span), Vis: uint8(it.Vis), Attrs: e.attrs(it.Attrs)}, it.Name)
	switch k := it.Kind.(type) {
	case *ast.FnItem:
		n.K = kFnItem
		e.fnDecl(n, k.Decl)
		n.Kids = append(n.Kids, e.block(k.Body))
	case *ast.StructItem:
		n.K = kStructItem
		n.List = e.fields(k.Fields)
		// unit struct и struct без полей различаются
		n.Flag = k.Fields != nil
	case *ast.EnumItem:
		n.K = kEnumItem
		for _, v := range k.Variants {
			vn := withName(&node{K: kVariant, ID: uint32(v.ID), Span: fromSpan(v.Span), Attrs: e.attrs(v.Attrs),
				List: e.fields(v.Fields), Flag: v.Fields != nil}, v.Name)
			n.List = append(n.List, vn)
		}
	case *ast.ConstItem:
		n.K = kConstItem
		n.Kids = []*node{e.ty(k.Ty), e.expr(k.Value)}
	case *ast.TypeItem:
		n.K = kTypeItem
		n.Kids = []*node{e.ty(k.Ty)}
	case *ast.UseItem:
		n.K = kUseItem
		n.Path = e.path(k.Path)
	case *ast.ModItem:
		n.K = kModItem
		n.List = e.items(k.Items)
	case *ast.TraitDecl:
		n.K = kTraitDecl
		for _, ti := range k.Items {
			n.List = append(n.List, e.traitItem(ti))
		}
	case *ast.ImplDecl:
		n.K = kImplDecl
		if k.Trait != nil {
			n.Path = e.path(*k.Trait)
		}
		n.Kids = []*node{e.ty(k.Self)}
		for _, ii := range k.Items {
			n.List = append(n.List, e.implItem(ii))
		}
	case *ast.MacItem:
		n.K = kMacItem
		n.Mac = e.mac(k.Mac)
	case *ast.PlaceholderItem:
		n.K = kPlaceholderItem
		n.Num = uint32(k.Inv)
	default:
		panic(fmt.Sprintf("treeio: unknown item kind %T", it.Kind))
	}
	return n
}

func (e encoder) traitItem(it *ast.TraitItem) *node {
	n := withName(&node{ID: uint32(it.ID), Span: fromSpan(it.Span), Attrs: e.attrs(it.Attrs)}, it.Name)
	switch k := it.Kind.(type) {
	case *ast.TraitMethod:
		n.K = kTraitMethod
		e.fnDecl(n, k.Decl)
		n.Kids = append(n.Kids, e.block(k.Body))
	case *ast.TraitConst:
		n.K = kTraitConst
		n.Kids = []*node{e.ty(k.Ty), e.expr(k.Default)}
	case *ast.TraitType:
		n.K = kTraitType
	case *ast.TraitMac:
		n.K = kTraitMac
		n.Mac = e.mac(k.Mac)
	case *ast.TraitPlaceholder:
		n.K = kTraitPlaceholder
		n.Num = uint32(k.Inv)
	default:
		panic(fmt.Sprintf("treeio: unknown trait item kind %T", it.Kind))
	}
	return n
}

func (e encoder) implItem(it *ast.ImplItem) *node {
	n := withName(&node{ID: uint32(it.ID), Span: fromSpan(it.Span), Vis: uint8(it.Vis), Attrs: e.attrs(it.Attrs)}, it.Name)
	switch k := it.Kind.(type) {
	case *ast.ImplMethod:
		n.K = kImplMethod
		e.fnDecl(n, k.Decl)
		n.Kids = append(n.Kids, e.block(k.Body))
	case *ast.ImplConst:
		n.K = kImplConst
		n.Kids = []*node{e.ty(k.Ty), e.expr(k.Value)}
	case *ast.ImplType:
		n.K = kImplType
		n.Kids = []*node{e.ty(k.Ty)}
	case *ast.ImplMac:
		n.K = kImplMac
		n.Mac = e.mac(k.Mac)
	case *ast.ImplPlaceholder:
		n.K = kImplPlaceholder
		n.Num = uint32(k.Inv)
	default:
		panic(fmt.Sprintf("treeio: unknown impl item kind %T", it.Kind))
	}
	return n
}
