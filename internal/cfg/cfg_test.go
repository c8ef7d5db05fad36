package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"syntex/internal/ast"
	"syntex/internal/diag"
)

func mustMeta(t *testing.T, src string) *ast.MetaItem {
	t.Helper()
	m, err := ast.ParseMeta(src)
	require.NoError(t, err)
	return m
}

func TestMatches(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(mustMeta(t, "unix")))
	require.NoError(t, s.Add(mustMeta(t, `feature = "serde"`)))

	cases := map[string]bool{
		"unix":                            true,
		"windows":                         false,
		`feature = "serde"`:               true,
		`feature = "json"`:                false,
		`all(unix, feature = "serde")`:    true,
		`all(unix, windows)`:              false,
		`any(windows, feature = "serde")`: true,
		`not(windows)`:                    true,
		`all()`:                           true,
		`any()`:                           false,
		`not(any(windows, not(unix)))`:    true,
	}
	for src, want := range cases {
		got, err := s.Matches(mustMeta(t, src))
		require.NoError(t, err, src)
		require.Equal(t, want, got, src)
	}
}

func TestMatchesErrors(t *testing.T) {
	s := NewSet()
	for src, code := range map[string]diag.Code{
		"not(a, b)":     diag.CfgMalformedPredicate,
		"maybe(a)":      diag.CfgUnknownOperator,
		"feature = 1":   diag.CfgMalformedPredicate,
		"all(x = true)": diag.CfgMalformedPredicate,
	} {
		_, err := s.Matches(mustMeta(t, src))
		var cerr *Error
		require.ErrorAs(t, err, &cerr, src)
		require.Equal(t, code, cerr.Code, src)
	}
}

func TestSplitAttr(t *testing.T) {
	cond, spec, ok, err := SplitAttr(ast.MustAttr(`cfg_attr(feature = "x", derive(Eq))`))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `feature = "x"`, cond.String())
	require.Equal(t, "derive(Eq)", spec.String())

	_, _, ok, err = SplitAttr(ast.MustAttr("derive(Eq)"))
	require.NoError(t, err)
	require.False(t, ok)

	_, _, _, err = SplitAttr(ast.MustAttr("cfg_attr(unix)"))
	require.Error(t, err)

	round := AttrAttr(cond, spec, cond.Span)
	require.Equal(t, `#[cfg_attr(feature = "x", derive(Eq))]`, round.String())
}

func TestItemsSorted(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(mustMeta(t, "test")))
	require.NoError(t, s.Add(mustMeta(t, `feature = "b"`)))
	require.NoError(t, s.Add(mustMeta(t, `feature = "a"`)))
	require.Error(t, s.Add(mustMeta(t, "all(x)")))
	var got []string
	for _, m := range s.Items() {
		got = append(got, m.String())
	}
	require.Equal(t, []string{`feature = "a"`, `feature = "b"`, "test"}, got)
}
