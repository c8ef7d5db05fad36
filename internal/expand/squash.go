package expand

import (
	"strings"

	"syntex/internal/ast"
	"syntex/internal/cfg"
)

// Leftover `#[derive_T]` markers (no handler ran for them) are folded back
// into one `#[derive(T, ..)]` per item so the downstream compiler sees the
// form it understands. `#[cfg_attr(C, derive_T)]` markers are grouped per
// condition the same way.

type squasher struct{ ast.FoldBase }

func squashDerives(c *ast.Crate) *ast.Crate {
	s := &squasher{}
	s.Self = s
	return ast.WalkCrate(s, c)
}

func (s *squasher) FoldItem(it *ast.Item) []*ast.Item {
	out := ast.WalkItem(s, it)
	out.Attrs = squashAttrs(out.Attrs)
	return []*ast.Item{out}
}

func markerTrait(m *ast.MetaItem) (string, bool) {
	if m == nil || !m.IsWord() {
		return "", false
	}
	trait, ok := strings.CutPrefix(m.Name, "derive_")
	return trait, ok && trait != ""
}

type condGroup struct {
	cond   *ast.MetaItem
	attr   *ast.Attribute
	traits []*ast.MetaItem
}

func squashAttrs(attrs []*ast.Attribute) []*ast.Attribute {
	var (
		plain     []*ast.MetaItem
		plainAttr *ast.Attribute
		groups    []*condGroup
	)
	out := make([]*ast.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if t, ok := markerTrait(a.Meta); ok {
			if plainAttr == nil {
				plainAttr = a
			}
			plain = append(plain, ast.MetaWordItem(t, a.Meta.Span))
			continue
		}
		if cond, spec, ok, err := cfg.SplitAttr(a); err == nil && ok {
			if t, ok := markerTrait(spec); ok {
				g := findGroup(groups, cond)
				if g == nil {
					g = &condGroup{cond: cond, attr: a}
					groups = append(groups, g)
				}
				g.traits = append(g.traits, ast.MetaWordItem(t, spec.Span))
				continue
			}
		}
		out = append(out, a)
	}
	if plainAttr == nil && len(groups) == 0 {
		return attrs
	}
	if plainAttr != nil {
		out = append(out, &ast.Attribute{
			Style: plainAttr.Style,
			Meta:  ast.MetaListItem(deriveAttr, plainAttr.Span, plain...),
			Span:  plainAttr.Span,
		})
	}
	for _, g := range groups {
		out = append(out, cfg.AttrAttr(g.cond, ast.MetaListItem(deriveAttr, g.attr.Span, g.traits...), g.attr.Span))
	}
	return out
}

func findGroup(groups []*condGroup, cond *ast.MetaItem) *condGroup {
	for _, g := range groups {
		if g.cond.Equal(cond) {
			return g
		}
	}
	return nil
}
