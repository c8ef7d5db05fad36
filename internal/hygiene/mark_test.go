package hygiene

import (
	"testing"

	"syntex/internal/source"
)

func TestCounterIsMonotonic(t *testing.T) {
	var c Counter
	prev := c.Fresh()
	if prev == Root {
		t.Fatalf("Fresh returned the root mark")
	}
	for i := 0; i < 100; i++ {
		m := c.Fresh()
		if m <= prev {
			t.Fatalf("mark %v not greater than %v", m, prev)
		}
		prev = m
	}
	if c.Last() != prev {
		t.Fatalf("Last() = %v, want %v", c.Last(), prev)
	}
}

func TestChainApplyDoesNotAlias(t *testing.T) {
	base := Chain{1, 2}
	a := base.Apply(3)
	b := base.Apply(4)
	if a.Equal(b) {
		t.Fatalf("chains built from a shared prefix must differ: %v %v", a, b)
	}
	if len(base) != 2 {
		t.Fatalf("Apply modified receiver: %v", base)
	}
	if a.Outer() != 3 || b.Outer() != 4 {
		t.Fatalf("Outer mismatch: %v %v", a.Outer(), b.Outer())
	}
	if got := a.String(); got != "#1#2#3" {
		t.Fatalf("String() = %q", got)
	}
	var empty Chain
	if !empty.Equal(nil) || empty.Outer() != Root {
		t.Fatalf("empty chain must equal nil and have root outer mark")
	}
}

func TestExpnTableBacktrace(t *testing.T) {
	var tab ExpnTable
	outer := tab.Push(ExpnInfo{Mark: 1, Callee: "outer", Format: FormatBang, CallSite: source.Span{File: 1, Start: 0, End: 5}})
	inner := tab.Push(ExpnInfo{Mark: 2, Callee: "inner", Format: FormatAttr, CallSite: source.Span{File: 1, Start: 1, End: 2, Expn: outer}})

	bt := tab.Backtrace(inner)
	if len(bt) != 2 {
		t.Fatalf("backtrace length = %d", len(bt))
	}
	if bt[0].Callee != "inner" || bt[1].Callee != "outer" {
		t.Fatalf("backtrace order wrong: %+v", bt)
	}
	if _, ok := tab.Get(source.NoExpn); ok {
		t.Fatalf("NoExpn must not resolve")
	}
}
