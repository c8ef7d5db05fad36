package format

import (
	"testing"

	"syntex/internal/ast"
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

var sp = source.Span{File: 1, Start: 0, End: 1}

func TestCrateLayout(t *testing.T) {
	strukt := ast.WithAttrs(
		ast.StructItemOf(sp, "Point",
			ast.FieldOf(sp, "x", ast.PathTyOf(sp, "i32")),
			ast.FieldOf(sp, "y", ast.PathTyOf(sp, "i32"))),
		ast.MustAttr("derive_Clone"))
	strukt.Vis = ast.VisPublic

	main := ast.FnItemOf(sp, "main",
		ast.LetStmtOf(sp, "v", ast.BinaryExprOf(sp, "*",
			ast.BinaryExprOf(sp, "+", ast.IntExpr(sp, 1), ast.IntExpr(sp, 2)),
			ast.IntExpr(sp, 3))),
		ast.MacStmtOf(ast.NewMac(sp, "println",
			ast.StrTok(sp, "{}"), ast.PunctTok(sp, ","), ast.IdentTok(sp, "v")), ast.MacStmtSemicolon),
		ast.ExprStmtOf(ast.CallExprOf(sp, ast.PathExprOf(sp, "f"), ast.StrExpr(sp, "a"), nil, ast.BoolExpr(sp, true)), false),
	)

	crate := &ast.Crate{
		Name:  "demo",
		Attrs: []*ast.Attribute{{Style: ast.AttrInner, Meta: ast.MetaWordItem("no_std", sp)}},
		Items: []*ast.Item{
			strukt,
			ast.StructItemOf(sp, "Unit"),
			ast.ModItemOf(sp, "inner",
				ast.ConstItemOf(sp, "N", ast.PathTyOf(sp, "u8"), ast.IntExpr(sp, 4)),
				ast.MacItemOf(ast.NewMac(sp, "gen", ast.IdentTok(sp, "x")), "")),
			main,
		},
	}

	got := string(Crate(crate, Options{}))
	want := `#![no_std]

#[derive_Clone]
pub struct Point {
    x: i32,
    y: i32,
}

struct Unit;

mod inner {
    const N: u8 = 4;

    gen!(x);
}

fn main() {
    let v = (1 + 2) * 3;
    println!("{}", v);
    f("a", true)
}
`
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestTabsIndent(t *testing.T) {
	it := ast.FnItemOf(sp, "f", ast.ExprStmtOf(ast.IntExpr(sp, 1), true))
	got := Item(it, Options{UseTabs: true})
	want := "fn f() {\n\t1;\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMarksAreShownOnRequest(t *testing.T) {
	id := ast.NewIdent("tmp", sp)
	id.Ctxt = hygiene.Chain{2, 5}
	e := &ast.PathExpr{Path: ast.Path{Segments: []ast.PathSegment{{Ident: id}}, Span: sp}}

	if got := Expr(e, Options{}); got != "tmp" {
		t.Fatalf("plain: got %q", got)
	}
	if got := Expr(e, Options{Marks: true}); got != "tmp#2#5" {
		t.Fatalf("marks: got %q", got)
	}

	tok := ast.IdentTok(sp, "y")
	tok.Ident.Ctxt = hygiene.Chain{7}
	m := ast.MacExprOf(ast.NewMac(sp, "m", ast.Group(sp, ast.DelimBracket, tok, ast.PunctTok(sp, ";"))))
	if got := Expr(m, Options{Marks: true}); got != "m!([y#7;])" {
		t.Fatalf("tokens: got %q", got)
	}
}

func TestPlaceholdersAndErrors(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"expr", Expr(&ast.PlaceholderExpr{Inv: 3}, Options{}), "$invocation(3)"},
		{"err", Expr(&ast.ErrExpr{}, Options{}), "$error"},
		{"stmt", Stmt(&ast.PlaceholderStmt{Inv: 9, Semi: true}, Options{}), "$invocation(9);"},
		{"item", Item(&ast.Item{Kind: &ast.PlaceholderItem{Inv: 1}}, Options{}), "$invocation(1)"},
		{"tuple1", Expr(ast.TupleExprOf(sp, ast.IntExpr(sp, 1)), Options{}), "(1,)"},
		{"attr expr", Expr(ast.WithExprAttrs(ast.IntExpr(sp, 2), []*ast.Attribute{ast.MustAttr("cfg(x)")}), Options{}), "#[cfg(x)] 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func TestFragmentSequences(t *testing.T) {
	fr := &ast.ItemsFragment{Items: []*ast.Item{
		ast.StructItemOf(sp, "A"),
		ast.StructItemOf(sp, "B"),
	}}
	if got := Fragment(fr, Options{}); got != "struct A;\nstruct B;\n" {
		t.Fatalf("got %q", got)
	}
	if got := Fragment(&ast.OptExprFragment{}, Options{}); got != "" {
		t.Fatalf("removed expr: got %q", got)
	}
}

func TestImplAndTrait(t *testing.T) {
	trait := &ast.Item{
		Name: ast.NewIdent("Show", sp),
		Kind: &ast.TraitDecl{Items: []*ast.TraitItem{
			{Name: ast.NewIdent("show", sp), Kind: &ast.TraitMethod{Decl: ast.FnDecl{Ret: ast.PathTyOf(sp, "String")}}},
			{Name: ast.NewIdent("Out", sp), Kind: &ast.TraitType{}},
		}},
	}
	tp := ast.SimplePath(sp, "Show")
	impl := &ast.Item{Kind: &ast.ImplDecl{
		Trait: &tp,
		Self:  &ast.RefTy{Elem: ast.PathTyOf(sp, "str")},
		Items: []*ast.ImplItem{ast.ImplItemMethod(sp, "show")},
	}}

	if got, want := Item(trait, Options{IndentWidth: 2}), "trait Show {\n  fn show() -> String;\n  type Out;\n}"; got != want {
		t.Fatalf("trait: got %q, want %q", got, want)
	}
	if got, want := Item(impl, Options{IndentWidth: 2}), "impl Show for &str {\n  fn show() {}\n}"; got != want {
		t.Fatalf("impl: got %q, want %q", got, want)
	}
}
