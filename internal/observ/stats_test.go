package observ

import (
	"strings"
	"testing"
)

func TestExpansionStatsAdd(t *testing.T) {
	var a, b ExpansionStats
	a.Hit("greet", 0)
	a.Hit("greet", 2)
	b.Hit("concat", 5)
	b.PassedThrough = 1
	a.Add(b)

	if a.Invocations != 3 {
		t.Fatalf("invocations = %d, want 3", a.Invocations)
	}
	if a.MaxDepth != 5 {
		t.Fatalf("max depth = %d, want 5", a.MaxDepth)
	}
	if a.ByExtension["greet"] != 2 || a.ByExtension["concat"] != 1 {
		t.Fatalf("by extension = %v", a.ByExtension)
	}
	if !strings.Contains(a.Summary(), "passed through") {
		t.Fatalf("summary misses pass-through line:\n%s", a.Summary())
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	stop := tm.Start("expand")
	stop("3 invocations")
	stop("ignored")
	rep := tm.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Name != "expand" || rep.Phases[0].Note != "3 invocations" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if !strings.Contains(tm.Summary(), "expand") {
		t.Fatal("summary misses phase")
	}
}
