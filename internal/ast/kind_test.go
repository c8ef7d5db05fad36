package ast

import "testing"

func TestPlaceholderMatchesKind(t *testing.T) {
	for _, k := range Kinds {
		fr := k.Placeholder(9, sp)
		if fr.Kind() != k {
			t.Fatalf("%s: fragment kind %s", k, fr.Kind())
		}
		n := 0
		InspectFragment(fr, func(node Node) bool {
			if id, ok := IsPlaceholder(node); ok && id == 9 {
				n++
			}
			return true
		})
		if n != 1 {
			t.Fatalf("%s: %d placeholders", k, n)
		}
	}
}

func TestDummyIsWellFormed(t *testing.T) {
	for _, k := range Kinds {
		fr := k.Dummy(sp)
		if fr.Kind() != k {
			t.Fatalf("%s: fragment kind %s", k, fr.Kind())
		}
		if k.IsSequence() && k != KindStmts && FragmentLen(fr) != 0 {
			t.Fatalf("%s: dummy should be empty", k)
		}
	}
	if _, ok := KindExpr.Dummy(sp).(*ExprFragment).Expr.(*ErrExpr); !ok {
		t.Fatalf("expression dummy must be an error node")
	}
}

func TestFragmentFromAnnotatables(t *testing.T) {
	items := []Annotatable{StructItemOf(sp, "A"), StructItemOf(sp, "B")}
	fr, err := FragmentFromAnnotatables(KindItems, items)
	if err != nil {
		t.Fatal(err)
	}
	if FragmentLen(fr) != 2 {
		t.Fatalf("len = %d", FragmentLen(fr))
	}
	if _, err := FragmentFromAnnotatables(KindImplItems, items); err == nil {
		t.Fatalf("expected shape mismatch")
	}
	if _, err := FragmentFromAnnotatables(KindExpr, nil); err == nil {
		t.Fatalf("expressions cannot carry attribute invocations")
	}
}

func TestTokensString(t *testing.T) {
	tts := []TokenTree{
		IdentTok(sp, "a"), PunctTok(sp, ","), StrTok(sp, "b"),
		Group(sp, DelimParen, IntTok(sp, 1), PunctTok(sp, "+"), IntTok(sp, 2)),
	}
	if got := TokensString(tts); got != `a, "b" (1 + 2)` {
		t.Fatalf("got %q", got)
	}
	if parts := SplitComma(tts); len(parts) != 2 || len(parts[1]) != 2 {
		t.Fatalf("SplitComma = %v", parts)
	}
}
