package expand

import (
	"syntex/internal/ast"
	"syntex/internal/cfg"
	"syntex/internal/ext"
)

// Attribute normalization decides which attribute of a node, if any,
// triggers an invocation:
//
//   - `#[name]` where name resolves to a decorator or modifier;
//   - `#[derive(..)]` when at least one entry needs work, see
//     deriveActionable;
//   - `#[cfg_attr(C, name)]` where name is a decorator, or
//     `#[cfg_attr(C, derive(..))]`. The outputs of such a conditional
//     invocation are wrapped in `#[cfg(C)]`.
//
// The first such attribute wins. The node is re-collected after the
// invocation, so remaining attributes are handled at the next depth.

const deriveAttr = "derive"

// findAttrInvocation returns the index of the triggering attribute, the
// cfg_attr condition (nil when unconditional) and the attribute's own meta.
func (x *expander) findAttrInvocation(scope string, attrs []*ast.Attribute) (int, *ast.MetaItem, *ast.MetaItem) {
	if len(attrs) == 0 {
		return -1, nil, nil
	}
	if !needsNormalizer(attrs) {
		idx := x.res.FindAttrInvocation(scope, attrs)
		if idx < 0 {
			return -1, nil, nil
		}
		return idx, nil, attrs[idx].Meta
	}
	for i, a := range attrs {
		switch a.Name() {
		case deriveAttr:
			if x.deriveActionable(scope, a.Meta, false) {
				return i, nil, a.Meta
			}
		case cfg.AttrAttrName:
			cond, spec, ok, err := cfg.SplitAttr(a)
			if err != nil || !ok {
				continue
			}
			if spec.Name == deriveAttr {
				if x.deriveActionable(scope, spec, true) {
					return i, cond, spec
				}
				continue
			}
			if e, found := x.res.FindExtension(scope, spec.Name); found && e.Kind == ext.KindDecorator {
				return i, cond, spec
			}
		default:
			if e, found := x.res.FindExtension(scope, a.Name()); found && e.Kind.IsAttr() {
				return i, nil, a.Meta
			}
		}
	}
	return -1, nil, nil
}

func needsNormalizer(attrs []*ast.Attribute) bool {
	for _, a := range attrs {
		if n := a.Name(); n == deriveAttr || n == cfg.AttrAttrName {
			return true
		}
	}
	return false
}

// deriveActionable reports whether a derive list needs the expander: it is
// malformed, names a gated trait, or names a trait with a registered
// `derive_T` handler. A conditional derive only acts on decorators since a
// modifier cannot be made conditional. Lists with nothing to do stay in the
// output for the downstream compiler.
func (x *expander) deriveActionable(scope string, meta *ast.MetaItem, conditional bool) bool {
	if meta.Kind != ast.MetaList || len(meta.List) == 0 {
		return true
	}
	for _, t := range meta.List {
		if !t.IsWord() {
			return true
		}
		if !x.customDerive && !isBuiltinDerive(t.Name) {
			return true
		}
		e, ok := x.res.FindExtension(scope, deriveMarker(t.Name))
		if !ok {
			continue
		}
		if e.Kind == ext.KindDecorator || (!conditional && e.Kind == ext.KindModifier) {
			return true
		}
	}
	return false
}
