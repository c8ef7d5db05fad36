package expand

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/ext"
	"syntex/internal/source"
)

func at(n uint32) source.Span { return source.Span{File: 1, Start: n, End: n + 1} }

func crateOf(items ...*ast.Item) *ast.Crate {
	return &ast.Crate{Name: "test", Items: items, Span: at(0)}
}

func run(t *testing.T, crate *ast.Crate, reg *ext.Registry, adjust func(*Config)) (*Result, error) {
	t.Helper()
	conf := DefaultConfig("test")
	if adjust != nil {
		adjust(&conf)
	}
	return Run(context.Background(), crate, reg, conf)
}

func fnLike(t *testing.T, reg *ext.Registry, name string, fn ext.FunctionLikeFunc) {
	t.Helper()
	require.NoError(t, reg.RegisterFunctionLike(name, fn))
}

// constOf wraps e as the value of `const NAME: T = e;`.
func constOf(name string, e ast.Expr) *ast.Item {
	return ast.ConstItemOf(at(1), name, ast.PathTyOf(at(2), "T"), e)
}

func constValue(t *testing.T, it *ast.Item) ast.Expr {
	t.Helper()
	c, ok := it.Kind.(*ast.ConstItem)
	require.True(t, ok, "expected const item, got %T", it.Kind)
	return c.Value
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func attrNames(attrs []*ast.Attribute) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Meta.String())
	}
	return out
}

func fnBody(t *testing.T, it *ast.Item) []ast.Stmt {
	t.Helper()
	fn, ok := it.Kind.(*ast.FnItem)
	require.True(t, ok, "expected fn item, got %T", it.Kind)
	return fn.Body.Stmts
}
