package expand

import (
	"syntex/internal/ast"
	"syntex/internal/cfg"
	"syntex/internal/diag"
)

// Conditional compilation in CfgStrip mode. Every configure* helper returns
// the node with honoured cfg and cfg_attr attributes resolved and whether
// the node survives. In CfgPreserve mode they return their input.

// processAttrs expands cfg_attr and evaluates cfg. Malformed predicates are
// reported and keep the node.
func (x *expander) processAttrs(attrs []*ast.Attribute) ([]*ast.Attribute, bool) {
	if x.cfg.CfgMode != CfgStrip || len(attrs) == 0 {
		return attrs, true
	}
	expanded := make([]*ast.Attribute, 0, len(attrs))
	var expandAttr func(a *ast.Attribute)
	expandAttr = func(a *ast.Attribute) {
		cond, spec, ok, err := cfg.SplitAttr(a)
		if err != nil {
			x.reportCfgError(err, a.Span)
			expanded = append(expanded, a)
			return
		}
		if !ok {
			expanded = append(expanded, a)
			return
		}
		if x.cfgMatches(cond) {
			// cfg_attr may nest
			expandAttr(&ast.Attribute{Style: a.Style, Meta: spec, Span: a.Span})
		}
	}
	for _, a := range attrs {
		expandAttr(a)
	}

	out := make([]*ast.Attribute, 0, len(expanded))
	keep := true
	for _, a := range expanded {
		if !cfg.IsCfg(a) {
			out = append(out, a)
			continue
		}
		pred, err := cfg.Predicate(a)
		if err != nil {
			x.reportCfgError(err, a.Span)
			continue
		}
		if !x.cfgMatches(pred) {
			keep = false
		}
	}
	return out, keep
}

func (x *expander) cfgMatches(pred *ast.MetaItem) bool {
	ok, err := x.cfgSet.Matches(pred)
	if err != nil {
		x.reportCfgError(err, pred.Span)
		return true
	}
	return ok
}

// configureExpr handles an expression in a position that cannot drop it.
// A disabled expression there is an error and is kept.
func (x *expander) configureExpr(e ast.Expr) ast.Expr {
	attrs := ast.ExprAttrs(e)
	if x.cfg.CfgMode != CfgStrip || len(attrs) == 0 {
		return e
	}
	out, keep := x.processAttrs(attrs)
	if !keep {
		x.error(diag.CfgExprNotRemovable, e.NodeSpan(), "removing an expression is not supported in this position").Emit()
	}
	return ast.WithExprAttrs(e, out)
}

func (x *expander) configureOptExpr(e ast.Expr) (ast.Expr, bool) {
	attrs := ast.ExprAttrs(e)
	if x.cfg.CfgMode != CfgStrip || len(attrs) == 0 {
		return e, true
	}
	out, keep := x.processAttrs(attrs)
	if !keep {
		return nil, false
	}
	return ast.WithExprAttrs(e, out), true
}

// configureStmt drops disabled statements. Item statements are configured
// by FoldItem.
func (x *expander) configureStmt(s ast.Stmt) (ast.Stmt, bool) {
	if x.cfg.CfgMode != CfgStrip {
		return s, true
	}
	switch st := s.(type) {
	case *ast.LetStmt:
		attrs, keep := x.processAttrs(st.Attrs)
		if !keep {
			return nil, false
		}
		c := *st
		c.Attrs = attrs
		return &c, true
	case *ast.MacStmt:
		attrs, keep := x.processAttrs(st.Attrs)
		if !keep {
			return nil, false
		}
		c := *st
		c.Attrs = attrs
		return &c, true
	case *ast.ExprStmt:
		if len(ast.ExprAttrs(st.Expr)) == 0 {
			return s, true
		}
		attrs, keep := x.processAttrs(ast.ExprAttrs(st.Expr))
		if !keep {
			return nil, false
		}
		c := *st
		c.Expr = ast.WithExprAttrs(st.Expr, attrs)
		return &c, true
	default:
		return s, true
	}
}

func (x *expander) configureItem(it *ast.Item) (*ast.Item, bool) {
	if x.cfg.CfgMode != CfgStrip {
		return it, true
	}
	attrs, keep := x.processAttrs(it.Attrs)
	if !keep {
		return nil, false
	}
	c := *it
	c.Attrs = attrs
	switch k := it.Kind.(type) {
	case *ast.StructItem:
		c.Kind = &ast.StructItem{Fields: x.configureFields(k.Fields)}
	case *ast.EnumItem:
		variants := make([]*ast.Variant, 0, len(k.Variants))
		for _, v := range k.Variants {
			vattrs, vkeep := x.processAttrs(v.Attrs)
			if !vkeep {
				continue
			}
			vc := *v
			vc.Attrs = vattrs
			vc.Fields = x.configureFields(v.Fields)
			variants = append(variants, &vc)
		}
		c.Kind = &ast.EnumItem{Variants: variants}
	}
	return &c, true
}

func (x *expander) configureFields(fields []*ast.Field) []*ast.Field {
	if fields == nil {
		return nil
	}
	out := make([]*ast.Field, 0, len(fields))
	for _, f := range fields {
		attrs, keep := x.processAttrs(f.Attrs)
		if !keep {
			continue
		}
		c := *f
		c.Attrs = attrs
		out = append(out, &c)
	}
	return out
}

func (x *expander) configureTraitItem(it *ast.TraitItem) (*ast.TraitItem, bool) {
	if x.cfg.CfgMode != CfgStrip {
		return it, true
	}
	attrs, keep := x.processAttrs(it.Attrs)
	if !keep {
		return nil, false
	}
	c := *it
	c.Attrs = attrs
	return &c, true
}

func (x *expander) configureImplItem(it *ast.ImplItem) (*ast.ImplItem, bool) {
	if x.cfg.CfgMode != CfgStrip {
		return it, true
	}
	attrs, keep := x.processAttrs(it.Attrs)
	if !keep {
		return nil, false
	}
	c := *it
	c.Attrs = attrs
	return &c, true
}
