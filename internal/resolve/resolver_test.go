package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/ext"
	"syntex/internal/source"
)

var noop = ext.FunctionLikeFunc(func(cx *ext.ExtCtxt, sp source.Span, args []ast.TokenTree) ext.Result {
	return ext.EmptyResult()
})

var keep = ext.ModifierFunc(func(cx *ext.ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable {
	return []ast.Annotatable{item}
})

func registry(t *testing.T) *ext.Registry {
	t.Helper()
	r := ext.NewRegistry()
	require.NoError(t, r.RegisterFunctionLike("greet", noop))
	require.NoError(t, r.RegisterFunctionLike("local", noop, ext.InScope("net")))
	require.NoError(t, r.RegisterModifier("trace", keep))
	return r
}

func TestFlatResolve(t *testing.T) {
	r := New(PolicyFlat, registry(t))

	e, err := r.Resolve("", ast.SimplePath(source.Dummy, "greet"))
	require.NoError(t, err)
	require.Equal(t, "greet", e.Name)

	// flat ignores scopes
	_, err = r.Resolve("", ast.SimplePath(source.Dummy, "local"))
	require.NoError(t, err)

	_, err = r.Resolve("", ast.SimplePath(source.Dummy, "std", "greet"))
	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, ErrMalformedPath, rerr.Kind)

	_, err = r.Resolve("", ast.SimplePath(source.Dummy, "gret"))
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, ErrUnresolved, rerr.Kind)
	require.Equal(t, "extension undefined: 'gret!'", rerr.Error())
	require.Equal(t, []string{"greet"}, rerr.Suggestions)
}

func TestScopedResolve(t *testing.T) {
	r := New(PolicyScoped, registry(t))

	_, ok := r.FindExtension("", "local")
	require.False(t, ok, "scoped extension must not leak to the root")

	e, ok := r.FindExtension("net::http", "local")
	require.True(t, ok)
	require.Equal(t, "net", e.Scope)

	_, ok = r.FindExtension("network", "local")
	require.False(t, ok)

	_, ok = r.FindExtension("net::http", "greet")
	require.True(t, ok, "root extensions are visible everywhere")
}

func TestLaterEntriesShadow(t *testing.T) {
	first := &ext.Extension{Name: "greet", Kind: ext.KindFunctionLike, FunctionLike: noop, Doc: "first"}
	r := NewFlat(append([]*ext.Extension{first}, registry(t).Extensions()...))
	e, ok := r.FindExtension("", "greet")
	require.True(t, ok)
	require.Empty(t, e.Doc)
}

func TestNewNilRegistry(t *testing.T) {
	r := New(PolicyScoped, nil)
	require.Empty(t, r.Names())
	_, ok := r.FindExtension("", "greet")
	require.False(t, ok)
}

func TestFindAttrInvocation(t *testing.T) {
	r := New(PolicyFlat, registry(t))
	attrs := []*ast.Attribute{ast.MustAttr("inline"), ast.MustAttr("greet"), ast.MustAttr("trace(x)")}
	require.Equal(t, 2, r.FindAttrInvocation("", attrs), "function-like names are not attribute invocations")
	require.Equal(t, -1, r.FindAttrInvocation("", attrs[:2]))
}

func TestNodeIDsAreMonotonic(t *testing.T) {
	r := NewFlat(nil)
	prev := ast.DummyNodeID
	for i := 0; i < 100; i++ {
		id, err := r.NextNodeID()
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestNodeIDsExhausted(t *testing.T) {
	a := &idAllocator{next: 1<<32 - 2}
	_, err := a.NextNodeID()
	require.NoError(t, err)
	_, err = a.NextNodeID()
	require.ErrorIs(t, err, ErrNodeIDsExhausted)
}

func TestSuggest(t *testing.T) {
	names := []string{"concat", "stringify", "module_path", "greet", "cfg"}
	require.Equal(t, []string{"stringify"}, Suggest("strngify", names))
	require.Equal(t, []string{"concat"}, Suggest("concta", names))
	require.Empty(t, Suggest("zzzzzz", names))
	require.Nil(t, Suggest("x", nil))
}
