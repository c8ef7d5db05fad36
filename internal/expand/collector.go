package expand

import (
	"slices"
	"strings"

	"syntex/internal/ast"
)

// collector replaces every invocation of a fragment with a placeholder and
// queues it. It also applies cfg stripping and, in monotonic mode, assigns
// node ids, so every node is visited once per depth.
type collector struct {
	ast.FoldBase
	x      *expander
	depth  int
	module []string
	invs   []*Invocation
}

func (x *expander) collect(fr ast.Fragment, depth int, module []string) (ast.Fragment, []*Invocation) {
	c := &collector{x: x, depth: depth, module: slices.Clip(module)}
	c.Self = c
	out := fr.Fold(c)
	return out, c.invs
}

func (c *collector) push(inv *Invocation) ast.Fragment {
	inv.ID = c.x.nextInvocationID()
	inv.Depth = c.depth
	inv.Scope = slices.Clone(c.module)
	c.invs = append(c.invs, inv)
	return inv.Kind.Placeholder(inv.ID, inv.Span)
}

func (c *collector) collectBang(mac *ast.Mac, attrs []*ast.Attribute, ident *ast.Ident, kind ast.ExpansionKind, orig ast.Fragment) ast.Fragment {
	return c.push(&Invocation{
		Kind:   kind,
		Origin: OriginBang,
		Span:   mac.Span,
		Mac:    mac,
		Ident:  ident,
		Attrs:  attrs,
		Orig:   orig,
	})
}

// collectAttr queues node when one of its attributes is an extension
// attribute. The attribute is removed from the node handed to the extension.
func (c *collector) collectAttr(node ast.Annotatable) (ast.Fragment, bool) {
	attrs := node.Attributes()
	idx, cond, spec := c.x.findAttrInvocation(c.scope(), attrs)
	if idx < 0 {
		return nil, false
	}
	kind := ast.AnnotatableKind(node)
	orig, err := ast.FragmentFromAnnotatables(kind, []ast.Annotatable{node})
	if err != nil {
		return nil, false
	}
	attr := attrs[idx]
	return c.push(&Invocation{
		Kind:      kind,
		Origin:    OriginAttr,
		Span:      attr.Span,
		Attr:      attr,
		AttrIndex: idx,
		Cond:      cond,
		Spec:      spec,
		Item:      node.WithAttributes(ast.RemoveAttr(attrs, idx)),
		Orig:      orig,
	}), true
}

func (c *collector) scope() string { return strings.Join(c.module, "::") }

func (c *collector) FoldNodeID(id ast.NodeID) ast.NodeID {
	if c.x.cfg.Monotonic && id == ast.DummyNodeID {
		return c.x.nextNodeID()
	}
	return id
}

func (c *collector) FoldExpr(e ast.Expr) ast.Expr {
	e = c.x.configureExpr(e)
	if m, ok := e.(*ast.MacExpr); ok {
		fr := c.collectBang(m.Mac, m.Attrs, nil, ast.KindExpr, &ast.ExprFragment{Expr: m})
		return fr.(*ast.ExprFragment).Expr
	}
	return ast.WalkExpr(c, e)
}

func (c *collector) FoldOptExpr(e ast.Expr) ast.Expr {
	e, keep := c.x.configureOptExpr(e)
	if !keep {
		return nil
	}
	if m, ok := e.(*ast.MacExpr); ok {
		fr := c.collectBang(m.Mac, m.Attrs, nil, ast.KindOptExpr, &ast.OptExprFragment{Expr: m})
		return fr.(*ast.OptExprFragment).Expr
	}
	return ast.WalkExpr(c, e)
}

func (c *collector) FoldPat(p ast.Pat) ast.Pat {
	if m, ok := p.(*ast.MacPat); ok {
		fr := c.collectBang(m.Mac, nil, nil, ast.KindPat, &ast.PatFragment{Pat: m})
		return fr.(*ast.PatFragment).Pat
	}
	return ast.WalkPat(c, p)
}

func (c *collector) FoldTy(t ast.Ty) ast.Ty {
	if m, ok := t.(*ast.MacTy); ok {
		fr := c.collectBang(m.Mac, nil, nil, ast.KindTy, &ast.TyFragment{Ty: m})
		return fr.(*ast.TyFragment).Ty
	}
	return ast.WalkTy(c, t)
}

func (c *collector) FoldStmt(s ast.Stmt) []ast.Stmt {
	s, keep := c.x.configureStmt(s)
	if !keep {
		return nil
	}
	if x, ok := s.(*ast.MacStmt); ok {
		fr := c.collectBang(x.Mac, x.Attrs, nil, ast.KindStmts, &ast.StmtsFragment{Stmts: []ast.Stmt{x}})
		stmts := fr.(*ast.StmtsFragment).Stmts
		if x.Style == ast.MacStmtSemicolon {
			stmts[len(stmts)-1] = ast.WithTrailingSemicolon(stmts[len(stmts)-1])
		}
		return stmts
	}
	return ast.WalkStmt(c, s)
}

func (c *collector) FoldItem(it *ast.Item) []*ast.Item {
	it, keep := c.x.configureItem(it)
	if !keep {
		return nil
	}
	if fr, ok := c.collectAttr(it); ok {
		return fr.(*ast.ItemsFragment).Items
	}
	switch k := it.Kind.(type) {
	case *ast.MacItem:
		// `macro_rules!`-style definitions without a path are left alone
		if k.Mac.Path.IsEmpty() {
			return []*ast.Item{it}
		}
		var ident *ast.Ident
		if !it.Name.IsInvalid() {
			id := it.Name
			ident = &id
		}
		fr := c.collectBang(k.Mac, it.Attrs, ident, ast.KindItems, &ast.ItemsFragment{Items: []*ast.Item{it}})
		return fr.(*ast.ItemsFragment).Items
	case *ast.ModItem:
		c.module = append(slices.Clip(c.module), it.Name.Name)
		out := ast.WalkItem(c, it)
		c.module = c.module[:len(c.module)-1]
		return []*ast.Item{out}
	}
	return []*ast.Item{ast.WalkItem(c, it)}
}

func (c *collector) FoldTraitItem(it *ast.TraitItem) []*ast.TraitItem {
	it, keep := c.x.configureTraitItem(it)
	if !keep {
		return nil
	}
	if fr, ok := c.collectAttr(it); ok {
		return fr.(*ast.TraitItemsFragment).Items
	}
	if k, ok := it.Kind.(*ast.TraitMac); ok {
		fr := c.collectBang(k.Mac, it.Attrs, nil, ast.KindTraitItems, &ast.TraitItemsFragment{Items: []*ast.TraitItem{it}})
		return fr.(*ast.TraitItemsFragment).Items
	}
	return []*ast.TraitItem{ast.WalkTraitItem(c, it)}
}

func (c *collector) FoldImplItem(it *ast.ImplItem) []*ast.ImplItem {
	it, keep := c.x.configureImplItem(it)
	if !keep {
		return nil
	}
	if fr, ok := c.collectAttr(it); ok {
		return fr.(*ast.ImplItemsFragment).Items
	}
	if k, ok := it.Kind.(*ast.ImplMac); ok {
		fr := c.collectBang(k.Mac, it.Attrs, nil, ast.KindImplItems, &ast.ImplItemsFragment{Items: []*ast.ImplItem{it}})
		return fr.(*ast.ImplItemsFragment).Items
	}
	return []*ast.ImplItem{ast.WalkImplItem(c, it)}
}
