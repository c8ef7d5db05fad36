package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/builtin"
	"syntex/internal/diag"
	"syntex/internal/expand"
	"syntex/internal/source"
)

func at(n uint32) source.Span { return source.Span{File: 1, Start: n, End: n + 1} }

func constMac(name string, m *ast.Mac) *ast.Item {
	return ast.ConstItemOf(at(1), name, ast.PathTyOf(at(1), "T"), ast.MacExprOf(m))
}

func expandItems(t *testing.T, adjust func(*expand.Config), items ...*ast.Item) (*expand.Result, error) {
	t.Helper()
	conf := expand.DefaultConfig("test")
	if adjust != nil {
		adjust(&conf)
	}
	crate := &ast.Crate{Name: "test", Items: items, Span: at(0)}
	return expand.Run(context.Background(), crate, builtin.NewRegistry(), conf)
}

func litValue(t *testing.T, it *ast.Item) ast.Lit {
	t.Helper()
	c, ok := it.Kind.(*ast.ConstItem)
	require.True(t, ok, "expected const, got %T", it.Kind)
	lit, ok := c.Value.(*ast.LitExpr)
	require.True(t, ok, "expected literal, got %T", c.Value)
	return lit.Lit
}

func TestStringify(t *testing.T) {
	m := ast.NewMac(at(5), "stringify",
		ast.IdentTok(at(6), "a"), ast.PunctTok(at(7), "+"), ast.IntTok(at(8), 1),
		ast.PunctTok(at(9), ","), ast.Group(at(10), ast.DelimParen, ast.IdentTok(at(11), "b")),
	)
	res, err := expandItems(t, nil, constMac("S", m))
	require.NoError(t, err)
	require.Equal(t, ast.Lit{Kind: ast.LitStr, Value: "a + 1, (b)"}, litValue(t, res.Crate.Items[0]))
}

func TestConcat(t *testing.T) {
	boolTok := &ast.Token{Kind: ast.TokLit, Lit: ast.Lit{Kind: ast.LitBool, Value: "true"}, Span: at(9)}
	m := ast.NewMac(at(5), "concat",
		ast.StrTok(at(6), "a"), ast.PunctTok(at(7), ","), ast.IntTok(at(8), 1), ast.PunctTok(at(8), ","), boolTok,
	)
	res, err := expandItems(t, nil, constMac("S", m))
	require.NoError(t, err)
	require.Equal(t, "a1true", litValue(t, res.Crate.Items[0]).Value)
}

func TestConcatRejectsNonLiterals(t *testing.T) {
	m := ast.NewMac(at(5), "concat", ast.StrTok(at(6), "a"), ast.PunctTok(at(7), ","), ast.IdentTok(at(8), "x"))
	res, err := expandItems(t, nil, constMac("S", m))
	require.ErrorIs(t, err, expand.ErrExpansionFailed)

	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	require.Equal(t, diag.ExpExtensionError, items[0].Code)
	require.Equal(t, "concat! expects literals, found `x`", items[0].Message)
	require.Equal(t, at(8), items[0].Primary)
}

func TestModulePath(t *testing.T) {
	inner := constMac("P", ast.NewMac(at(5), "module_path"))
	res, err := expandItems(t, nil,
		constMac("R", ast.NewMac(at(2), "module_path")),
		ast.ModItemOf(at(3), "net", ast.ModItemOf(at(4), "http", inner)),
	)
	require.NoError(t, err)
	require.Equal(t, "test", litValue(t, res.Crate.Items[0]).Value)

	net := res.Crate.Items[1].Kind.(*ast.ModItem)
	http := net.Items[0].Kind.(*ast.ModItem)
	require.Equal(t, "test::net::http", litValue(t, http.Items[0]).Value)
}

func TestCfgMacro(t *testing.T) {
	cases := []struct {
		name string
		args []ast.TokenTree
		want string
	}{
		{"word", []ast.TokenTree{ast.IdentTok(at(6), "unix")}, "true"},
		{"missing", []ast.TokenTree{ast.IdentTok(at(6), "windows")}, "false"},
		{"pair", []ast.TokenTree{ast.IdentTok(at(6), "target_os"), ast.PunctTok(at(7), "="), ast.StrTok(at(8), "linux")}, "true"},
		{"not", []ast.TokenTree{ast.IdentTok(at(6), "not"), ast.Group(at(7), ast.DelimParen, ast.IdentTok(at(8), "windows"))}, "true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := expandItems(t, func(c *expand.Config) {
				c.Cfg = []*ast.MetaItem{
					ast.MetaWordItem("unix", at(0)),
					ast.MetaNameValueItem("target_os", ast.Lit{Kind: ast.LitStr, Value: "linux"}, at(0)),
				}
			}, constMac("C", ast.NewMac(at(5), "cfg", tc.args...)))
			require.NoError(t, err)
			require.Equal(t, ast.Lit{Kind: ast.LitBool, Value: tc.want}, litValue(t, res.Crate.Items[0]))
		})
	}
}

func TestCompileError(t *testing.T) {
	res, err := expandItems(t, nil, constMac("E", ast.NewMac(at(5), "compile_error", ast.StrTok(at(6), "unsupported target"))))
	require.ErrorIs(t, err, expand.ErrExpansionFailed)
	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	require.Equal(t, "unsupported target", items[0].Message)
}

func TestConstStr(t *testing.T) {
	m := ast.NewMac(at(5), "const_str", ast.Group(at(6), ast.DelimParen,
		ast.StrTok(at(7), "v"), ast.PunctTok(at(8), ","), ast.IntTok(at(9), 2)))
	res, err := expandItems(t, nil, ast.MacItemOf(m, "VERSION"))
	require.NoError(t, err)

	require.Len(t, res.Crate.Items, 1)
	it := res.Crate.Items[0]
	require.Equal(t, "VERSION", it.Name.Name)
	require.Equal(t, "v2", litValue(t, it).Value)
	_, ok := it.Kind.(*ast.ConstItem).Ty.(*ast.RefTy)
	require.True(t, ok)
}

func TestConstStrNeedsIdent(t *testing.T) {
	res, err := expandItems(t, nil, ast.MacItemOf(ast.NewMac(at(5), "const_str", ast.StrTok(at(6), "v")), ""))
	require.ErrorIs(t, err, expand.ErrExpansionFailed)
	require.Equal(t, diag.ExpMissingIdent, res.Diagnostics.Items()[0].Code)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := builtin.NewRegistry()
	require.Error(t, builtin.Register(reg))
	require.Len(t, reg.Extensions(), 6)
}
