package ast

import "testing"

func TestParseMeta(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"test", "test"},
		{`feature = "serde"`, `feature = "serde"`},
		{"derive(Clone, Debug)", "derive(Clone, Debug)"},
		{`cfg_attr(all(unix, feature = "x"), derive(Eq))`, `cfg_attr(all(unix, feature = "x"), derive(Eq))`},
		{"derive()", "derive()"},
		{"  spaced ( a ,b, ) ", "spaced(a, b)"},
		{"limit = 64", "limit = 64"},
	}
	for _, tc := range cases {
		m, err := ParseMeta(tc.src)
		if err != nil {
			t.Fatalf("ParseMeta(%q): %v", tc.src, err)
		}
		if got := m.String(); got != tc.want {
			t.Fatalf("ParseMeta(%q) = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestParseMetaErrors(t *testing.T) {
	for _, src := range []string{"", "a(", `a = "x`, "a b", "a = ?", "(x)"} {
		if _, err := ParseMeta(src); err == nil {
			t.Fatalf("ParseMeta(%q): expected error", src)
		}
	}
}

func TestMetaValueStr(t *testing.T) {
	m, err := ParseMeta(`feature = "serde"`)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := m.ValueStr()
	if !ok || v != "serde" {
		t.Fatalf("ValueStr = %q, %v", v, ok)
	}
	if _, ok := MetaWordItem("x", m.Span).ValueStr(); ok {
		t.Fatalf("word must not have a string value")
	}
}

func TestMetaEqualIgnoresSpans(t *testing.T) {
	a, _ := ParseMeta("derive(A, B)")
	b := MetaListItem("derive", a.Span, MetaWordItem("A", a.Span), MetaWordItem("B", a.Span))
	b.Span.Start = 10
	if !a.Equal(b) {
		t.Fatalf("expected %s == %s", a, b)
	}
	c, _ := ParseMeta("derive(B, A)")
	if a.Equal(c) {
		t.Fatalf("order must matter")
	}
}
