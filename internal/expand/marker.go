package expand

import (
	"syntex/internal/ast"
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

// marker applies one invocation's mark to every identifier of its output
// and points every span at the invocation's expansion record. Identifiers
// introduced by an extension can then never bind to the caller's. With
// renumber set node ids are cleared so the next collection numbers the
// output afresh.
type marker struct {
	ast.FoldBase
	mark     hygiene.Mark
	expn     source.ExpnID
	renumber bool
}

func newMarker(mark hygiene.Mark, expn source.ExpnID, renumber bool) *marker {
	m := &marker{mark: mark, expn: expn, renumber: renumber}
	m.Self = m
	return m
}

func (m *marker) FoldNodeID(id ast.NodeID) ast.NodeID {
	if m.renumber {
		return ast.DummyNodeID
	}
	return id
}

func (m *marker) FoldIdent(id ast.Ident) ast.Ident {
	id = ast.WalkIdent(m, id)
	id.Ctxt = id.Ctxt.Apply(m.mark)
	return id
}

func (m *marker) FoldSpan(sp source.Span) source.Span {
	return sp.WithExpn(m.expn)
}

func (m *marker) fragment(fr ast.Fragment) ast.Fragment {
	return fr.Fold(m)
}

func (m *marker) annotatable(a ast.Annotatable) ast.Annotatable {
	switch n := a.(type) {
	case *ast.Item:
		return ast.WalkItem(m, n)
	case *ast.TraitItem:
		return ast.WalkTraitItem(m, n)
	case *ast.ImplItem:
		return ast.WalkImplItem(m, n)
	default:
		return a
	}
}

// replaces reports whether a modifier built a new node instead of rewriting
// the item it was given. Only new nodes are marked.
func replaces(in, out ast.Annotatable) bool {
	return out.NodeSpan() != in.NodeSpan() || ast.AnnotatableID(out) != ast.AnnotatableID(in)
}
