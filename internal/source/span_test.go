package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 10, End: 12}, Span{File: 1, Start: 2, End: 12}},
		{"nested", Span{File: 1, Start: 0, End: 20}, Span{File: 1, Start: 5, End: 6}, Span{File: 1, Start: 0, End: 20}},
		{"other file keeps receiver", Span{File: 1, Start: 3, End: 4}, Span{File: 2, Start: 0, End: 100}, Span{File: 1, Start: 3, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpanExpansionTag(t *testing.T) {
	sp := Span{File: 3, Start: 1, End: 9}
	if sp.FromExpansion() {
		t.Fatalf("plain span reported as expansion")
	}
	tagged := sp.WithExpn(7)
	if !tagged.FromExpansion() || tagged.Expn != 7 {
		t.Fatalf("WithExpn did not tag span: %+v", tagged)
	}
	if got := tagged.String(); got != "3:1-9#7" {
		t.Fatalf("String() = %q", got)
	}
	if !sp.Contains(Span{File: 3, Start: 2, End: 9}) {
		t.Fatalf("expected containment")
	}
	if !Dummy.IsDummy() {
		t.Fatalf("Dummy must report IsDummy")
	}
}
