package builtin

import (
	"strings"

	"syntex/internal/ast"
	"syntex/internal/ext"
	"syntex/internal/source"
)

func stringify(cx *ext.ExtCtxt, sp source.Span, args []ast.TokenTree) ext.Result {
	return ext.ExprResult(ast.StrExpr(sp, ast.TokensString(args)))
}

func concat(cx *ext.ExtCtxt, sp source.Span, args []ast.TokenTree) ext.Result {
	s, ok := joinLiterals(cx, "concat", args)
	if !ok {
		return ext.DummyResult(sp)
	}
	return ext.ExprResult(ast.StrExpr(sp, s))
}

// constStr expands `const_str! NAME("a", 1)` into `const NAME: &str = "a1";`.
func constStr(cx *ext.ExtCtxt, sp source.Span, ident ast.Ident, args []ast.TokenTree) ext.Result {
	if len(args) == 1 {
		if g, ok := args[0].(*ast.Delimited); ok {
			args = g.Trees
		}
	}
	s, ok := joinLiterals(cx, "const_str", args)
	if !ok {
		return ext.DummyResult(sp)
	}
	ty := &ast.RefTy{TyBase: ast.TyBase{Span: sp}, Elem: ast.PathTyOf(sp, "str")}
	it := ast.ConstItemOf(sp, ident.Name, ty, ast.StrExpr(sp, s))
	it.Name = ident
	return ext.ItemsResult(it)
}

// joinLiterals concatenates comma separated literal tokens. Anything else is
// reported once per offending argument.
func joinLiterals(cx *ext.ExtCtxt, who string, args []ast.TokenTree) (string, bool) {
	var b strings.Builder
	ok := true
	for _, group := range ast.SplitComma(args) {
		tok, single := singleToken(group)
		if !single || tok.Kind != ast.TokLit {
			cx.Errorf(group[0].TreeSpan(), "%s! expects literals, found `%s`", who, ast.TokensString(group))
			ok = false
			continue
		}
		b.WriteString(tok.Lit.Value)
	}
	return b.String(), ok
}

func singleToken(group []ast.TokenTree) (*ast.Token, bool) {
	if len(group) != 1 {
		return nil, false
	}
	t, ok := group[0].(*ast.Token)
	return t, ok
}
