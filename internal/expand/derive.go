package expand

import (
	"fmt"
	"slices"

	"syntex/internal/ast"
	"syntex/internal/cfg"
	"syntex/internal/diag"
	"syntex/internal/ext"
	"syntex/internal/source"
)

// Traits the downstream compiler derives on its own.
var builtinDerives = map[string]struct{}{
	"Clone": {}, "Hash": {}, "RustcEncodable": {}, "RustcDecodable": {},
	"PartialEq": {}, "Eq": {}, "PartialOrd": {}, "Ord": {}, "Debug": {},
	"Default": {}, "FromPrimitive": {}, "Send": {}, "Sync": {}, "Copy": {},
	"Encodable": {}, "Decodable": {},
}

func isBuiltinDerive(name string) bool {
	_, ok := builtinDerives[name]
	return ok
}

// deriveMarker is the name a `derive(T)` handler is registered under.
func deriveMarker(trait string) string { return "derive_" + trait }

// expandDerive handles a `derive(..)` invocation. Entries are processed
// last to first:
//
//   - a `derive_T` decorator runs now, its siblings follow the item;
//   - a `derive_T` modifier becomes a `#[derive_T]` marker attribute that the
//     next depth dispatches, markers are ordered so the last entry runs first;
//   - anything else stays in a residual `derive(..)` in source order.
//
// Malformed and gated entries are reported and dropped.
func (x *expander) expandDerive(inv *Invocation) ast.Fragment {
	x.stats.Derives++
	item, meta := inv.Item, inv.Spec
	if inv.Kind != ast.KindItems {
		x.error(diag.DrvOnNonItem, inv.Span, "`derive` may only be applied to structs, enums and unions").Emit()
		return singleFragment(inv.Kind, item)
	}
	if meta.Kind == ast.MetaNameValue {
		x.error(diag.DrvUnexpectedValue, inv.Span, "unexpected value in `derive`").Emit()
		return singleFragment(inv.Kind, item)
	}
	if len(meta.List) == 0 {
		x.warn(diag.DrvEmptyList, inv.Span, "empty trait list in `derive`").Emit()
		return singleFragment(inv.Kind, item)
	}

	scope := inv.scopeKey()
	var (
		residual []*ast.MetaItem
		markers  []*ast.Attribute
		siblings []ast.Annotatable
	)
	for i := len(meta.List) - 1; i >= 0; i-- {
		t := meta.List[i]
		sp := spanOr(t.Span, inv.Span)
		if !t.IsWord() {
			x.error(diag.DrvMalformedEntry, sp, "malformed `derive` entry").Emit()
			continue
		}
		if !x.customDerive && !isBuiltinDerive(t.Name) {
			x.error(diag.DrvCustomGated, sp, fmt.Sprintf("`#[derive(%s)]` is not a built-in derive", t.Name)).
				WithNote(sp, "add `#![feature(custom_derive)]` to the crate attributes to enable").
				Emit()
			continue
		}
		name := deriveMarker(t.Name)
		e, ok := x.res.FindExtension(scope, name)
		switch {
		case ok && e.Kind == ext.KindDecorator:
			x.stats.Hit(name, inv.Depth)
			siblings = append(siblings, x.callDecorator(inv, e, ast.MetaWordItem(name, sp), item)...)
		case ok && e.Kind == ext.KindModifier && inv.Cond == nil:
			markers = append(markers, &ast.Attribute{Style: ast.AttrOuter, Meta: ast.MetaWordItem(name, sp), Span: sp})
		default:
			residual = append(residual, t)
		}
	}
	slices.Reverse(residual)

	var inserted []*ast.Attribute
	if len(residual) > 0 {
		d := ast.MetaListItem(deriveAttr, meta.Span, residual...)
		if inv.Cond != nil {
			inserted = append(inserted, cfg.AttrAttr(inv.Cond, d, inv.Attr.Span))
		} else {
			inserted = append(inserted, &ast.Attribute{Style: inv.Attr.Style, Meta: d, Span: inv.Attr.Span})
		}
	}
	inserted = append(inserted, markers...)

	attrs := slices.Insert(slices.Clone(item.Attributes()), inv.AttrIndex, inserted...)
	nodes := append([]ast.Annotatable{item.WithAttributes(attrs)}, siblings...)
	return singleFragment(inv.Kind, nodes...)
}

func spanOr(sp, fallback source.Span) source.Span {
	if sp.IsDummy() {
		return fallback
	}
	return sp
}
