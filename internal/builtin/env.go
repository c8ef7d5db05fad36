package builtin

import (
	"syntex/internal/ast"
	"syntex/internal/ext"
	"syntex/internal/source"
)

func modulePath(cx *ext.ExtCtxt, sp source.Span, args []ast.TokenTree) ext.Result {
	if len(args) != 0 {
		cx.Error(sp, "module_path! takes no arguments")
		return ext.DummyResult(sp)
	}
	return ext.ExprResult(ast.StrExpr(sp, cx.ModulePath()))
}

// cfgMacro evaluates `cfg!(pred)` against the run's active configuration.
func cfgMacro(cx *ext.ExtCtxt, sp source.Span, args []ast.TokenTree) ext.Result {
	if len(args) == 0 {
		cx.Error(sp, "cfg! takes a cfg-pattern as an argument")
		return ext.DummyResult(sp)
	}
	pred, err := ast.ParseMeta(ast.TokensString(args))
	if err != nil {
		cx.Errorf(sp, "malformed cfg-pattern: %v", err)
		return ext.DummyResult(sp)
	}
	ok, err := cx.Cfg().Matches(pred)
	if err != nil {
		cx.Error(sp, err.Error())
		return ext.DummyResult(sp)
	}
	return ext.ExprResult(ast.BoolExpr(sp, ok))
}

func compileError(cx *ext.ExtCtxt, sp source.Span, args []ast.TokenTree) ext.Result {
	tok, ok := singleToken(args)
	if !ok || tok.Kind != ast.TokLit || tok.Lit.Kind != ast.LitStr {
		cx.Error(sp, "compile_error! takes 1 string literal argument")
		return ext.DummyResult(sp)
	}
	cx.Error(sp, tok.Lit.Value)
	return ext.DummyResult(sp)
}
