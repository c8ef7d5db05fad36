package expand

import (
	"testing"

	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/ext"
)

func stripWith(words ...string) func(*Config) {
	return func(c *Config) {
		c.CfgMode = CfgStrip
		for _, w := range words {
			c.Cfg = append(c.Cfg, ast.MetaWordItem(w, at(0)))
		}
	}
}

func exprWith(e ast.Expr, attrs ...string) ast.Expr {
	out := make([]*ast.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, ast.MustAttr(a))
	}
	return ast.WithExprAttrs(e, out)
}

func itemNames(items []*ast.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name.Name)
	}
	return out
}

func TestCfgPreserveKeepsEverything(t *testing.T) {
	crate := crateOf(structWith("A", "cfg(off)"), structWith("B", "cfg_attr(off, inline)"))
	res, err := run(t, crate, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, itemNames(res.Crate.Items))
	require.Equal(t, []string{"cfg(off)"}, attrNames(res.Crate.Items[0].Attrs))
	require.Equal(t, []string{"cfg_attr(off, inline)"}, attrNames(res.Crate.Items[1].Attrs))
}

func TestCfgStripItemsAndAttrs(t *testing.T) {
	s := ast.StructItemOf(at(1), "S",
		ast.FieldOf(at(2), "a", ast.PathTyOf(at(2), "u8")),
		ast.FieldOf(at(3), "b", ast.PathTyOf(at(3), "u8")),
	)
	s.Kind.(*ast.StructItem).Fields[1].Attrs = []*ast.Attribute{ast.MustAttr("cfg(not(on))")}

	crate := crateOf(
		structWith("A", "cfg(on)", "repr(C)"),
		structWith("B", "cfg(off)"),
		structWith("C", "cfg_attr(on, inline)", "cfg_attr(off, cold)"),
		structWith("D", "cfg_attr(on, cfg_attr(all(on, not(off)), hot))"),
		structWith("E", "cfg(any(off, on))"),
		s,
	)
	res, err := run(t, crate, nil, stripWith("on"))
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics.Items())

	items := res.Crate.Items
	require.Equal(t, []string{"A", "C", "D", "E", "S"}, itemNames(items))
	require.Equal(t, []string{"repr(C)"}, attrNames(items[0].Attrs))
	require.Equal(t, []string{"inline"}, attrNames(items[1].Attrs))
	require.Equal(t, []string{"hot"}, attrNames(items[2].Attrs))
	require.Empty(t, items[3].Attrs)

	fields := items[4].Kind.(*ast.StructItem).Fields
	require.Len(t, fields, 1)
	require.Equal(t, "a", fields[0].Name.Name)
}

func TestCfgStripStatementsAndOptionalExprs(t *testing.T) {
	let := ast.LetStmtOf(at(2), "x", ast.IntExpr(at(2), 1))
	let.Attrs = []*ast.Attribute{ast.MustAttr("cfg(off)")}
	call := ast.CallExprOf(at(4), ast.PathExprOf(at(4), "f"),
		ast.IntExpr(at(5), 1),
		exprWith(ast.IntExpr(at(6), 2), "cfg(off)"),
		exprWith(ast.IntExpr(at(7), 3), "cfg(on)"),
	)
	fn := ast.FnItemOf(at(1), "main",
		let,
		ast.ExprStmtOf(exprWith(ast.IntExpr(at(3), 0), "cfg(off)"), true),
		ast.ExprStmtOf(call, true),
	)
	res, err := run(t, crateOf(fn), nil, stripWith("on"))
	require.NoError(t, err)

	stmts := fnBody(t, res.Crate.Items[0])
	require.Len(t, stmts, 1)
	got := stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	require.Len(t, got.Args, 2)
	require.Equal(t, "1", got.Args[0].(*ast.LitExpr).Lit.Value)
	require.Equal(t, "3", got.Args[1].(*ast.LitExpr).Lit.Value)
	require.Empty(t, ast.ExprAttrs(got.Args[1]))
}

func TestCfgMandatoryExprIsKept(t *testing.T) {
	c := constOf("X", exprWith(ast.IntExpr(at(3), 7), "cfg(off)"))
	res, err := run(t, crateOf(c), nil, stripWith())
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.Equal(t, []diag.Code{diag.CfgExprNotRemovable}, codes(res.Diagnostics))
	v := constValue(t, res.Crate.Items[0])
	require.Equal(t, "7", v.(*ast.LitExpr).Lit.Value)
	require.Empty(t, ast.ExprAttrs(v))
}

func TestCfgMalformedPredicateKeepsNode(t *testing.T) {
	res, err := run(t, crateOf(structWith("A", "cfg(frob(x))"), structWith("B", "cfg_attr(on)")), nil, stripWith("on"))
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.Equal(t, []diag.Code{diag.CfgUnknownOperator, diag.CfgMalformedAttr}, codes(res.Diagnostics))
	require.Equal(t, []string{"A", "B"}, itemNames(res.Crate.Items))
	require.Equal(t, []string{"cfg_attr(on)"}, attrNames(res.Crate.Items[1].Attrs))
}

func TestCfgAttrEnablesDecorator(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterDecorator("twin", siblingStruct("Twin")))

	crate := crateOf(structWith("A", "cfg_attr(on, twin)"), structWith("B", "cfg_attr(off, twin)"))
	res, err := run(t, crate, reg, stripWith("on"))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "ATwin", "B"}, itemNames(res.Crate.Items))
	require.Empty(t, res.Crate.Items[2].Attrs)
}

func TestConditionalDecoratorInPreserveMode(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterDecorator("twin", siblingStruct("Twin")))
	require.NoError(t, reg.RegisterDecorator("derive_Clone", siblingStruct("Clone")))

	crate := crateOf(structWith("A", "cfg_attr(feat, twin)"), structWith("B", "cfg_attr(feat, derive(Clone))"))
	res, err := run(t, crate, reg, nil)
	require.NoError(t, err)

	items := res.Crate.Items
	require.Equal(t, []string{"A", "ATwin", "B", "BClone"}, itemNames(items))
	require.Empty(t, items[0].Attrs)
	require.Equal(t, []string{"cfg(feat)"}, attrNames(items[1].Attrs))
	require.Empty(t, items[2].Attrs)
	require.Equal(t, []string{"cfg(feat)"}, attrNames(items[3].Attrs))
}
