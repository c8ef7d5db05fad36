package ext

import (
	"errors"
	"testing"

	"syntex/internal/ast"
	"syntex/internal/source"
)

var noop = FunctionLikeFunc(func(cx *ExtCtxt, sp source.Span, args []ast.TokenTree) Result {
	return EmptyResult()
})

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterFunctionLike("greet", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := r.RegisterFunctionLike("greet", noop)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := r.RegisterFunctionLike("greet", noop, InScope("net")); err != nil {
		t.Fatalf("same name in another scope: %v", err)
	}
	if got := len(r.Extensions()); got != 2 {
		t.Fatalf("extensions = %d", got)
	}
}

func TestRegistryFrozen(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	if err := r.RegisterFunctionLike("x", noop); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	if err := r.AddCfg("test"); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}

func TestRegistryHandlerMustMatchKind(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&Extension{Name: "x", Kind: KindDecorator, FunctionLike: noop})
	if err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestRegistryCfgAndAttrs(t *testing.T) {
	r := NewRegistry()
	if err := r.AddCfg(`feature = "serde"`); err != nil {
		t.Fatal(err)
	}
	if err := r.AddCfg("all(a)"); err == nil {
		t.Fatalf("list cfg must be rejected")
	}
	if err := r.AddAttr("feature(custom_derive)"); err != nil {
		t.Fatal(err)
	}
	attrs := r.Attrs()
	if len(attrs) != 1 || attrs[0].Style != ast.AttrInner || attrs[0].String() != "#![feature(custom_derive)]" {
		t.Fatalf("attrs = %v", attrs)
	}
	if len(r.Cfg()) != 1 {
		t.Fatalf("cfg = %v", r.Cfg())
	}
}
