package expand

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/diag"
	"syntex/internal/ext"
	"syntex/internal/source"
)

// appendAttr returns a modifier that tags the item with `#[tag]` and logs
// its own name.
func appendAttr(log *[]string, name, tag string) ext.ModifierFunc {
	return func(cx *ext.ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable {
		*log = append(*log, name)
		attrs := append(slices.Clone(item.Attributes()), ast.MustAttr(tag))
		return []ast.Annotatable{item.WithAttributes(attrs)}
	}
}

// siblingStruct returns a decorator that emits `struct <Name><suffix>;`.
func siblingStruct(suffix string) ext.DecoratorFunc {
	return func(cx *ext.ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable, push func(ast.Annotatable)) {
		it := item.(*ast.Item)
		push(ast.StructItemOf(sp, it.Name.Name+suffix))
	}
}

func structWith(name string, attrs ...string) *ast.Item {
	it := ast.StructItemOf(at(1), name)
	for _, a := range attrs {
		it = ast.WithAttrs(it, ast.MustAttr(a))
	}
	return it
}

func TestDeriveModifierLeavesMarkerOnce(t *testing.T) {
	var log []string
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterModifier("derive_Debug", appendAttr(&log, "Debug", "derived_debug")))

	res, err := run(t, crateOf(structWith("S", "derive(Debug)")), reg, nil)
	require.NoError(t, err)

	require.Len(t, res.Crate.Items, 1)
	require.Equal(t, []string{"derived_debug"}, attrNames(res.Crate.Items[0].Attrs))
	require.Equal(t, []string{"Debug"}, log)
	require.Equal(t, 1, res.Stats.Derives)
}

func TestDeriveModifiersRunLastFirst(t *testing.T) {
	var log []string
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterModifier("derive_Clone", appendAttr(&log, "Clone", "a")))
	require.NoError(t, reg.RegisterModifier("derive_Hash", appendAttr(&log, "Hash", "b")))

	res, err := run(t, crateOf(structWith("S", "derive(Clone, Hash)")), reg, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Hash", "Clone"}, log)
	require.Equal(t, []string{"b", "a"}, attrNames(res.Crate.Items[0].Attrs))
}

func TestDeriveResidualKeepsSourceOrder(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterDecorator("derive_Serialize", siblingStruct("Ser")))

	item := structWith("S", "repr(C)", "derive(A, Serialize, B)", "inline")
	res, err := run(t, crateOf(item), reg, func(c *Config) { c.CustomDerive = true })
	require.NoError(t, err)

	require.Len(t, res.Crate.Items, 2)
	require.Equal(t, []string{"repr(C)", "derive(A, B)", "inline"}, attrNames(res.Crate.Items[0].Attrs))
	require.Equal(t, "SSer", res.Crate.Items[1].Name.Name)
	require.Len(t, res.Crate.Items[1].Name.Ctxt, 1, "decorator output is marked")
}

func TestDeriveWithoutHandlersIsUntouched(t *testing.T) {
	item := structWith("S", "derive(A, B)")
	res, err := run(t, crateOf(item), nil, func(c *Config) { c.CustomDerive = true })
	require.NoError(t, err)
	require.Equal(t, []string{"derive(A, B)"}, attrNames(res.Crate.Items[0].Attrs))
	require.Zero(t, res.Stats.Invocations)
}

func TestDeriveDiagnostics(t *testing.T) {
	cases := []struct {
		name  string
		attr  string
		want  []diag.Code
		attrs []string
		fail  bool
	}{
		{"empty list", "derive()", []diag.Code{diag.DrvEmptyList}, []string{}, false},
		{"word", "derive", []diag.Code{diag.DrvEmptyList}, []string{}, false},
		{"value", `derive = "Debug"`, []diag.Code{diag.DrvUnexpectedValue}, []string{}, true},
		{"malformed entry", `derive(Clone, x = "y")`, []diag.Code{diag.DrvMalformedEntry}, []string{"derive(Clone)"}, true},
		{"gated", "derive(Clone, Serialize)", []diag.Code{diag.DrvCustomGated}, []string{"derive(Clone)"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := run(t, crateOf(structWith("S", tc.attr)), nil, nil)
			if tc.fail {
				require.ErrorIs(t, err, ErrExpansionFailed)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, codes(res.Diagnostics))
			require.Equal(t, tc.attrs, attrNames(res.Crate.Items[0].Attrs))
		})
	}
}

func TestCustomDeriveFeatureAttr(t *testing.T) {
	crate := crateOf(structWith("S", "derive(Serialize)"))
	crate.Attrs = []*ast.Attribute{{Style: ast.AttrInner, Meta: ast.MetaListItem("feature", source.Dummy, ast.MetaWordItem("custom_derive", source.Dummy))}}
	res, err := run(t, crate, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"derive(Serialize)"}, attrNames(res.Crate.Items[0].Attrs))
}

func TestDeriveOnImplItem(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterDecorator("derive_Clone", siblingStruct("C")))
	m := ast.ImplItemMethod(at(3), "f")
	m.Attrs = []*ast.Attribute{ast.MustAttr("derive(Clone)")}
	impl := &ast.Item{Name: ast.NewIdent("", at(2)), Kind: &ast.ImplDecl{Self: ast.PathTyOf(at(2), "S"), Items: []*ast.ImplItem{m}}, Span: at(2)}

	res, err := run(t, crateOf(impl), reg, nil)
	require.ErrorIs(t, err, ErrExpansionFailed)
	require.Equal(t, []diag.Code{diag.DrvOnNonItem}, codes(res.Diagnostics))
	items := res.Crate.Items[0].Kind.(*ast.ImplDecl).Items
	require.Len(t, items, 1)
	require.Empty(t, items[0].Attrs)
}

func TestModifierArityIsFatal(t *testing.T) {
	for _, n := range []int{0, 2} {
		reg := ext.NewRegistry()
		require.NoError(t, reg.RegisterModifier("dup", ext.ModifierFunc(
			func(cx *ext.ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable {
				out := make([]ast.Annotatable, n)
				for i := range out {
					out[i] = item
				}
				return out
			})))
		res, err := run(t, crateOf(structWith("S", "dup")), reg, nil)
		require.ErrorIs(t, err, ErrModifierArity, "n=%d", n)
		require.Nil(t, res.Crate)
		require.Contains(t, codes(res.Diagnostics), diag.ExpModifierArity)
	}
}

func TestDecoratorChainsThroughSiblings(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterDecorator("twin", ext.DecoratorFunc(
		func(cx *ext.ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable, push func(ast.Annotatable)) {
			it := item.(*ast.Item)
			// the sibling carries another decorator and is expanded in turn
			push(ast.WithAttrs(ast.StructItemOf(sp, it.Name.Name+"2"), ast.MustAttr("tag")))
		})))
	require.NoError(t, reg.RegisterDecorator("tag", siblingStruct("Tagged")))

	res, err := run(t, crateOf(structWith("S", "twin", "keep")), reg, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(res.Crate.Items))
	for _, it := range res.Crate.Items {
		names = append(names, it.Name.Name)
	}
	require.Equal(t, []string{"S", "S2", "S2Tagged"}, names)
	require.Equal(t, []string{"keep"}, attrNames(res.Crate.Items[0].Attrs))
}

func TestSquashLeftoverMarkers(t *testing.T) {
	item := structWith("S", "derive_Clone", "repr(C)", "derive_Hash", "cfg_attr(test, derive_Debug)")
	res, err := run(t, crateOf(item), nil, nil)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"repr(C)", "derive(Clone, Hash)", "cfg_attr(test, derive(Debug))"},
		attrNames(res.Crate.Items[0].Attrs))
}

func TestModifierReplacementIsMarked(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, reg.RegisterModifier("generate", ext.ModifierFunc(
		func(cx *ext.ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable {
			return []ast.Annotatable{ast.FnItemOf(at(50), "generated", ast.LetStmtOf(at(50), "tmp", ast.IntExpr(at(50), 1)))}
		})))
	var log []string
	require.NoError(t, reg.RegisterModifier("tag", appendAttr(&log, "tag", "tagged")))

	res, err := run(t, crateOf(structWith("S", "generate"), structWith("T", "tag")), reg, nil)
	require.NoError(t, err)
	require.Len(t, res.Crate.Items, 2)

	gen := res.Crate.Items[0]
	require.Len(t, gen.Name.Ctxt, 1)
	require.True(t, gen.Span.FromExpansion())
	tmp := fnBody(t, gen)[0].(*ast.LetStmt).Pat.(*ast.IdentPat).Name
	require.Len(t, tmp.Ctxt, 1)

	// rewriting the given item keeps the user's bindings
	kept := res.Crate.Items[1]
	require.Empty(t, kept.Name.Ctxt)
	require.False(t, kept.Span.FromExpansion())
	require.Equal(t, []string{"tagged"}, attrNames(kept.Attrs))
	require.Equal(t, []string{"tag"}, log)
}
