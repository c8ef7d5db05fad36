package expand

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/ext"
	"syntex/internal/hygiene"
	"syntex/internal/resolve"
	"syntex/internal/source"
)

func greetRegistry(t *testing.T) *ext.Registry {
	reg := ext.NewRegistry()
	fnLike(t, reg, "greet", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.ExprResult(ast.StrExpr(sp, "hello"))
	})
	return reg
}

func TestGreetExpandsToMarkedLiteral(t *testing.T) {
	call := ast.MacExprOf(ast.NewMac(at(10), "greet"))
	crate := crateOf(constOf("G", call))

	res, err := run(t, crate, greetRegistry(t), nil)
	require.NoError(t, err)

	lit, ok := constValue(t, res.Crate.Items[0]).(*ast.LitExpr)
	require.True(t, ok)
	require.Equal(t, "hello", lit.Lit.Value)
	require.True(t, lit.Span.FromExpansion())

	info, ok := res.Expns.Get(lit.Span.Expn)
	require.True(t, ok)
	require.Equal(t, "greet", info.Callee)
	require.Equal(t, hygiene.Mark(1), info.Mark)
	require.Equal(t, hygiene.FormatBang, info.Format)
	require.Equal(t, at(10), info.CallSite)
	require.Equal(t, 1, res.Expns.Len())
	require.Equal(t, 1, res.Stats.Invocations)

	// the input is untouched
	_, still := constValue(t, crate.Items[0]).(*ast.MacExpr)
	require.True(t, still)
}

func TestHygieneIsolatesTwoExpansions(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "mklet", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.StmtsResult(ast.LetStmtOf(sp, "tmp", ast.IntExpr(sp, 1)))
	})
	fn := ast.FnItemOf(at(1), "main",
		ast.MacStmtOf(ast.NewMac(at(10), "mklet"), ast.MacStmtSemicolon),
		ast.MacStmtOf(ast.NewMac(at(20), "mklet"), ast.MacStmtSemicolon),
	)

	res, err := run(t, crateOf(fn), reg, nil)
	require.NoError(t, err)

	stmts := fnBody(t, res.Crate.Items[0])
	require.Len(t, stmts, 2)
	a := stmts[0].(*ast.LetStmt).Pat.(*ast.IdentPat).Name
	b := stmts[1].(*ast.LetStmt).Pat.(*ast.IdentPat).Name
	require.Equal(t, a.Name, b.Name)
	require.False(t, a.SameBinding(b), "%s and %s must not bind together", a, b)
	require.Len(t, a.Ctxt, 1)
	require.Len(t, b.Ctxt, 1)
}

func TestNestedExpansionChainsMarks(t *testing.T) {
	reg := greetRegistry(t)
	fnLike(t, reg, "twice", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.ExprResult(ast.MacExprOf(ast.NewMac(sp, "greet")))
	})
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "twice")))), reg, nil)
	require.NoError(t, err)

	lit := constValue(t, res.Crate.Items[0]).(*ast.LitExpr)
	inner, ok := res.Expns.Get(lit.Span.Expn)
	require.True(t, ok)
	require.Equal(t, "greet", inner.Callee)
	bt := res.Expns.Backtrace(lit.Span.Expn)
	require.Len(t, bt, 2)
	require.Equal(t, "twice", bt[1].Callee)
	require.Equal(t, 1, res.Stats.MaxDepth)
}

func TestFixedPoint(t *testing.T) {
	fn := ast.FnItemOf(at(1), "main",
		ast.LetStmtOf(at(2), "x", ast.IntExpr(at(3), 4)),
		ast.ExprStmtOf(ast.PathExprOf(at(4), "x"), false),
	)
	crate := crateOf(ast.StructItemOf(at(5), "S", ast.FieldOf(at(6), "f", ast.PathTyOf(at(7), "u8"))), fn)

	res, err := run(t, crate, greetRegistry(t), nil)
	require.NoError(t, err)
	if diff := cmp.Diff(crate, res.Crate, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("tree without invocations changed (-in +out):\n%s", diff)
	}

	// expanding an expanded tree is a no-op as well
	expanded, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "greet")))), greetRegistry(t), nil)
	require.NoError(t, err)
	again, err := run(t, expanded.Crate, greetRegistry(t), nil)
	require.NoError(t, err)
	if diff := cmp.Diff(expanded.Crate, again.Crate, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("second expansion changed the tree (-first +second):\n%s", diff)
	}
}

func TestRecursionLimitIsFatal(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "again", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.ExprResult(ast.MacExprOf(ast.NewMac(sp, "again")))
	})
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "again")))), reg, func(c *Config) {
		c.RecursionLimit = 5
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRecursionLimit))
	require.True(t, IsFatal(err))
	require.Nil(t, res.Crate)
	require.Contains(t, codes(res.Diagnostics), diag.ExpRecursionLimit)
	require.Equal(t, 6, res.Stats.Invocations)
}

func TestUnresolvedStrict(t *testing.T) {
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "gret")))), greetRegistry(t), nil)
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.NotNil(t, res.Crate)

	_, isErr := constValue(t, res.Crate.Items[0]).(*ast.ErrExpr)
	require.True(t, isErr)

	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	require.Equal(t, diag.ExpUnresolvedExtension, items[0].Code)
	require.NotEmpty(t, items[0].Fixes)
	require.Equal(t, "greet", items[0].Fixes[0].Edits[0].NewText)
}

func TestUnresolvedPermissivePassesThrough(t *testing.T) {
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "unknown")))), greetRegistry(t), func(c *Config) {
		c.Policy = PolicyPermissive
	})
	require.NoError(t, err)
	m, ok := constValue(t, res.Crate.Items[0]).(*ast.MacExpr)
	require.True(t, ok)
	require.Equal(t, "unknown", m.Mac.Name())
	require.Zero(t, res.Diagnostics.Len())
	require.Equal(t, 1, res.Stats.PassedThrough)
}

func TestMalformedPath(t *testing.T) {
	m := ast.NewMac(at(10), "greet")
	m.Path = ast.SimplePath(at(10), "a", "greet")
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(m))), greetRegistry(t), nil)
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.Equal(t, []diag.Code{diag.ExpMalformedInvocation}, codes(res.Diagnostics))
}

func TestResultKindMismatch(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "nothing", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.EmptyResult()
	})
	call := ast.CallExprOf(at(3), ast.PathExprOf(at(4), "f"),
		ast.IntExpr(at(5), 1),
		ast.MacExprOf(ast.NewMac(at(6), "nothing")),
	)
	crate := crateOf(
		constOf("A", call),
		constOf("B", ast.MacExprOf(ast.NewMac(at(20), "nothing"))),
	)
	res, err := run(t, crate, reg, nil)
	require.ErrorIs(t, err, ErrExpansionFailed)

	// an optional position drops the argument
	got := constValue(t, res.Crate.Items[0]).(*ast.CallExpr)
	require.Len(t, got.Args, 1)

	// a mandatory one cannot
	_, isErr := constValue(t, res.Crate.Items[1]).(*ast.ErrExpr)
	require.True(t, isErr)
	require.Equal(t, []diag.Code{diag.ExpResultKindMismatch}, codes(res.Diagnostics))
	require.Contains(t, res.Diagnostics.Items()[0].Message, "non-expression extension in expression position: nothing")
}

func TestSemicolonTransfer(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "two", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.StmtsResult(ast.ExprStmtOf(ast.IntExpr(sp, 1), false), ast.ExprStmtOf(ast.IntExpr(sp, 2), false))
	})
	fn := ast.FnItemOf(at(1), "main",
		ast.MacStmtOf(ast.NewMac(at(10), "two"), ast.MacStmtSemicolon),
		ast.MacStmtOf(ast.NewMac(at(20), "two"), ast.MacStmtNoBraces),
	)
	res, err := run(t, crateOf(fn), reg, nil)
	require.NoError(t, err)

	stmts := fnBody(t, res.Crate.Items[0])
	require.Len(t, stmts, 4)
	semis := make([]bool, len(stmts))
	for i, s := range stmts {
		semis[i] = s.(*ast.ExprStmt).Semi
	}
	require.Equal(t, []bool{false, true, false, false}, semis)
}

func TestSingleStepStopsAfterFirstDepth(t *testing.T) {
	reg := greetRegistry(t)
	fnLike(t, reg, "wrap", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.ExprResult(ast.MacExprOf(ast.NewMac(sp, "greet")))
	})
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "wrap")))), reg, func(c *Config) {
		c.SingleStep = true
	})
	require.NoError(t, err)
	m, ok := constValue(t, res.Crate.Items[0]).(*ast.MacExpr)
	require.True(t, ok, "nested invocation must stay unexpanded")
	require.Equal(t, "greet", m.Mac.Name())
	require.Equal(t, 1, res.Stats.Invocations)
}

func TestIdentShapeChecks(t *testing.T) {
	reg := greetRegistry(t)
	require.NoError(t, reg.RegisterIdentTagged("named", ext.IdentTaggedFunc(
		func(cx *ext.ExtCtxt, sp source.Span, ident ast.Ident, _ []ast.TokenTree) ext.Result {
			return ext.ItemsResult(ast.StructItemOf(sp, ident.Name))
		})))
	require.NoError(t, reg.RegisterDecorator("deco", ext.DecoratorFunc(
		func(*ext.ExtCtxt, source.Span, *ast.MetaItem, ast.Annotatable, func(ast.Annotatable)) {})))

	crate := crateOf(
		ast.MacItemOf(ast.NewMac(at(10), "greet"), "foo"),
		ast.MacItemOf(ast.NewMac(at(20), "named"), ""),
		ast.MacItemOf(ast.NewMac(at(30), "named"), "Made"),
		ast.MacItemOf(ast.NewMac(at(40), "deco"), ""),
	)
	res, err := run(t, crate, reg, nil)
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.ElementsMatch(t,
		[]diag.Code{diag.ExpUnexpectedIdent, diag.ExpMissingIdent, diag.ExpAttrOnlyExtension},
		codes(res.Diagnostics))

	require.Len(t, res.Crate.Items, 1)
	require.Equal(t, "Made", res.Crate.Items[0].Name.Name)
}

func TestEmptyPathItemLeftAlone(t *testing.T) {
	m := &ast.Mac{Span: at(10)}
	crate := crateOf(ast.MacItemOf(m, "rules"))
	res, err := run(t, crate, nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Crate.Items, 1)
	_, ok := res.Crate.Items[0].Kind.(*ast.MacItem)
	require.True(t, ok)
	require.Zero(t, res.Stats.Invocations)
}

func TestScopedResolutionFollowsModules(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterFunctionLike("local", ext.FunctionLikeFunc(
		func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
			return ext.ExprResult(ast.StrExpr(sp, cx.ModulePath()))
		}), ext.InScope("net")))

	crate := crateOf(
		ast.ModItemOf(at(1), "net",
			ast.ModItemOf(at(2), "http", constOf("A", ast.MacExprOf(ast.NewMac(at(10), "local")))),
		),
		constOf("B", ast.MacExprOf(ast.NewMac(at(20), "local"))),
	)
	res, err := run(t, crate, reg, func(c *Config) { c.Resolution = resolve.PolicyScoped })
	require.ErrorIs(t, err, ErrExpansionFailed)

	http := res.Crate.Items[0].Kind.(*ast.ModItem).Items[0].Kind.(*ast.ModItem)
	lit := constValue(t, http.Items[0]).(*ast.LitExpr)
	require.Equal(t, "test::net::http", lit.Lit.Value)
	_, isErr := constValue(t, res.Crate.Items[1]).(*ast.ErrExpr)
	require.True(t, isErr)
	require.Equal(t, []diag.Code{diag.ExpUnresolvedExtension}, codes(res.Diagnostics))
}

func TestMonotonicNodeIDs(t *testing.T) {
	crate := crateOf(
		constOf("A", ast.MacExprOf(ast.NewMac(at(10), "greet"))),
		constOf("B", ast.MacExprOf(ast.NewMac(at(20), "greet"))),
	)
	res, err := run(t, crate, greetRegistry(t), func(c *Config) { c.Monotonic = true })
	require.NoError(t, err)

	seen := map[ast.NodeID]bool{}
	for _, it := range res.Crate.Items {
		require.False(t, it.ID.IsDummy())
		lit := constValue(t, it).(*ast.LitExpr)
		require.False(t, lit.ID.IsDummy())
		for _, id := range []ast.NodeID{it.ID, lit.ID} {
			require.False(t, seen[id], "id %d repeated", id)
			seen[id] = true
		}
	}
}

func TestExtensionErrorsCarryBacktrace(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "fail", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		cx.Error(at(60), "nope")
		return ext.DummyResult(sp)
	})
	fnLike(t, reg, "outer", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.ExprResult(ast.MacExprOf(ast.NewMac(at(50), "fail")))
	})
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "outer")))), reg, nil)
	require.ErrorIs(t, err, ErrExpansionFailed)

	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	require.Equal(t, diag.ExpExtensionError, items[0].Code)
	require.Len(t, items[0].Notes, 2)
	require.Equal(t, "in this expansion of `fail!`", items[0].Notes[0].Msg)
	require.Equal(t, at(50).WithExpn(1), items[0].Notes[0].Span)
	require.Equal(t, "in this expansion of `outer!`", items[0].Notes[1].Msg)
	require.Equal(t, at(10), items[0].Notes[1].Span)
}

func TestPanickingExtensionIsReported(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "boom", func(*ext.ExtCtxt, source.Span, []ast.TokenTree) ext.Result {
		panic("kaput")
	})
	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "boom")))), reg, nil)
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.Equal(t, []diag.Code{diag.ExpExtensionError}, codes(res.Diagnostics))
	require.Contains(t, res.Diagnostics.Items()[0].Message, "kaput")
}

func TestPassesAndRegistryAttrs(t *testing.T) {
	reg := greetRegistry(t)
	require.NoError(t, reg.AddAttr("feature(custom_derive)"))
	var order []string
	require.NoError(t, reg.AddPreExpansionPass("pre", func(c *ast.Crate) *ast.Crate {
		order = append(order, "pre")
		return c
	}))
	require.NoError(t, reg.AddPostExpansionPass("post", func(c *ast.Crate) *ast.Crate {
		order = append(order, "post")
		_, expanded := constValue(t, c.Items[0]).(*ast.LitExpr)
		require.True(t, expanded)
		return c
	}))

	res, err := run(t, crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "greet")))), reg, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"pre", "post"}, order)
	require.Equal(t, []string{"feature(custom_derive)"}, attrNames(res.Crate.Attrs))
	require.True(t, reg.Frozen())
}

// recordingResolver forwards to a real resolver and logs bang lookups.
type recordingResolver struct {
	resolve.Resolver
	asked []string
}

func (r *recordingResolver) Resolve(scope string, path ast.Path) (*ext.Extension, error) {
	r.asked = append(r.asked, path.String())
	return r.Resolver.Resolve(scope, path)
}

func TestInjectedResolver(t *testing.T) {
	rr := &recordingResolver{Resolver: resolve.New(resolve.PolicyFlat, greetRegistry(t))}
	crate := crateOf(constOf("G", ast.MacExprOf(ast.NewMac(at(10), "greet"))))

	// the run's own registry does not know greet
	res, err := run(t, crate, ext.NewRegistry(), func(c *Config) { c.Resolver = rr })
	require.NoError(t, err)
	lit, ok := constValue(t, res.Crate.Items[0]).(*ast.LitExpr)
	require.True(t, ok)
	require.Equal(t, "hello", lit.Lit.Value)
	require.Equal(t, []string{"greet"}, rr.asked)

	_, err = run(t, crate, ext.NewRegistry(), nil)
	require.ErrorIs(t, err, ErrExpansionFailed)
}

func TestNilNodeInResult(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "holey", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.ItemsResult(ast.StructItemOf(sp, "A"), nil)
	})

	t.Run("items", func(t *testing.T) {
		res, err := run(t, crateOf(ast.MacItemOf(ast.NewMac(at(10), "holey"), "")), reg, nil)
		require.ErrorIs(t, err, ErrExpansionFailed)
		require.Empty(t, res.Crate.Items)
		require.Equal(t, []diag.Code{diag.ExpResultKindMismatch}, codes(res.Diagnostics))
		require.Contains(t, res.Diagnostics.Items()[0].Message, "holey returned a nil node in item position")
	})

	t.Run("statements", func(t *testing.T) {
		fn := ast.FnItemOf(at(1), "main", ast.MacStmtOf(ast.NewMac(at(10), "holey"), ast.MacStmtSemicolon))
		res, err := run(t, crateOf(fn), reg, nil)
		require.ErrorIs(t, err, ErrExpansionFailed)
		require.Equal(t, []diag.Code{diag.ExpResultKindMismatch}, codes(res.Diagnostics))
		stmts := fnBody(t, res.Crate.Items[0])
		require.Len(t, stmts, 1)
		es, ok := stmts[0].(*ast.ExprStmt)
		require.True(t, ok, "got %T", stmts[0])
		_, isErr := es.Expr.(*ast.ErrExpr)
		require.True(t, isErr)
	})
}

func TestExtensionAttrOnInvocationWarns(t *testing.T) {
	reg := ext.NewRegistry()
	fnLike(t, reg, "mklet", func(cx *ext.ExtCtxt, sp source.Span, _ []ast.TokenTree) ext.Result {
		return ext.StmtsResult(ast.LetStmtOf(sp, "tmp", ast.IntExpr(sp, 1)))
	})
	var log []string
	require.NoError(t, reg.RegisterModifier("trace", appendAttr(&log, "trace", "traced")))

	stmt := ast.MacStmtOf(ast.NewMac(at(10), "mklet"), ast.MacStmtSemicolon)
	stmt.Attrs = []*ast.Attribute{ast.MustAttr("inline"), ast.MustAttr("trace"), ast.MustAttr("derive(Debug)")}

	res, err := run(t, crateOf(ast.FnItemOf(at(1), "main", stmt)), reg, nil)
	require.NoError(t, err)
	require.Equal(t, []diag.Code{diag.ExpIgnoredAttr, diag.ExpIgnoredAttr}, codes(res.Diagnostics))
	items := res.Diagnostics.Items()
	require.Contains(t, items[0].Message, "`#[trace]` on `mklet!`")
	require.Contains(t, items[1].Message, "`#[derive]` on `mklet!`")
	require.Equal(t, at(10), items[0].Primary)
	require.Empty(t, log)
	require.Len(t, fnBody(t, res.Crate.Items[0]), 1)
}
