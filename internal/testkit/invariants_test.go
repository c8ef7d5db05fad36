package testkit

import (
	"strings"
	"testing"

	"syntex/internal/ast"
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

func TestCheckSpans(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.rs", []byte("fn main() {}"))
	good := source.Span{File: id, Start: 0, End: 12}

	c := &ast.Crate{Items: []*ast.Item{ast.FnItemOf(good, "main")}}
	if err := CheckSpans(c, fs, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	long := &ast.Crate{Items: []*ast.Item{ast.FnItemOf(source.Span{File: id, Start: 0, End: 40}, "main")}}
	if err := CheckSpans(long, fs, nil); err == nil || !strings.Contains(err.Error(), "beyond content") {
		t.Fatalf("want beyond-content error, got %v", err)
	}

	inverted := &ast.Crate{Items: []*ast.Item{ast.FnItemOf(source.Span{File: id, Start: 5, End: 2}, "main")}}
	if err := CheckSpans(inverted, fs, nil); err == nil {
		t.Fatal("want inverted span error")
	}

	expns := &hygiene.ExpnTable{}
	tagged := good.WithExpn(7)
	c = &ast.Crate{Items: []*ast.Item{ast.FnItemOf(tagged, "main")}}
	if err := CheckSpans(c, fs, nil); err != nil {
		t.Fatalf("expansion check must be skipped without a table: %v", err)
	}
	if err := CheckSpans(c, fs, expns); err == nil || !strings.Contains(err.Error(), "unknown expansion") {
		t.Fatalf("want unknown expansion error, got %v", err)
	}
}

func TestCheckFullyExpanded(t *testing.T) {
	sp := source.Span{}
	clean := &ast.Crate{Items: []*ast.Item{ast.FnItemOf(sp, "f", ast.ExprStmtOf(ast.IntExpr(sp, 1), true))}}
	if err := CheckFullyExpanded(clean, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withMac := &ast.Crate{Items: []*ast.Item{ast.FnItemOf(sp, "f",
		ast.ExprStmtOf(ast.MacExprOf(ast.NewMac(sp, "later")), true))}}
	if err := CheckFullyExpanded(withMac, false); err == nil {
		t.Fatal("want unexpanded invocation error")
	}
	if err := CheckFullyExpanded(withMac, true); err != nil {
		t.Fatalf("permissive trees may keep invocations: %v", err)
	}

	withHole := &ast.Crate{Items: []*ast.Item{{Kind: &ast.PlaceholderItem{Inv: 4}}}}
	if err := CheckFullyExpanded(withHole, true); err == nil || !strings.Contains(err.Error(), "invocation 4") {
		t.Fatalf("want placeholder error, got %v", err)
	}
}
