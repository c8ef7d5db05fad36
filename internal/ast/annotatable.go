package ast

import "fmt"

// Annotatable is a node attribute-triggered extensions can receive: *Item,
// *TraitItem or *ImplItem.
type Annotatable interface {
	Node
	Attributes() []*Attribute
	// WithAttributes returns a shallow copy carrying attrs.
	WithAttributes(attrs []*Attribute) Annotatable
	annotatable()
}

func (it *Item) Attributes() []*Attribute      { return it.Attrs }
func (it *TraitItem) Attributes() []*Attribute { return it.Attrs }
func (it *ImplItem) Attributes() []*Attribute  { return it.Attrs }

func (it *Item) WithAttributes(attrs []*Attribute) Annotatable {
	c := *it
	c.Attrs = attrs
	return &c
}

func (it *TraitItem) WithAttributes(attrs []*Attribute) Annotatable {
	c := *it
	c.Attrs = attrs
	return &c
}

func (it *ImplItem) WithAttributes(attrs []*Attribute) Annotatable {
	c := *it
	c.Attrs = attrs
	return &c
}

func (*Item) annotatable()      {}
func (*TraitItem) annotatable() {}
func (*ImplItem) annotatable()  {}

// AnnotatableKind returns the expansion kind a node of this shape fills.
func AnnotatableKind(a Annotatable) ExpansionKind {
	switch a.(type) {
	case *TraitItem:
		return KindTraitItems
	case *ImplItem:
		return KindImplItems
	default:
		return KindItems
	}
}

// AnnotatableID returns the node id of a.
func AnnotatableID(a Annotatable) NodeID {
	switch n := a.(type) {
	case *Item:
		return n.ID
	case *TraitItem:
		return n.ID
	case *ImplItem:
		return n.ID
	}
	return DummyNodeID
}

// FragmentFromAnnotatables packs attribute-extension output into a fragment of
// kind. Every node must have the shape kind expects.
func FragmentFromAnnotatables(kind ExpansionKind, nodes []Annotatable) (Fragment, error) {
	switch kind {
	case KindItems:
		out := make([]*Item, 0, len(nodes))
		for _, n := range nodes {
			it, ok := n.(*Item)
			if !ok {
				return nil, fmt.Errorf("expected item, found %s", AnnotatableKind(n).Name())
			}
			out = append(out, it)
		}
		return &ItemsFragment{Items: out}, nil
	case KindTraitItems:
		out := make([]*TraitItem, 0, len(nodes))
		for _, n := range nodes {
			it, ok := n.(*TraitItem)
			if !ok {
				return nil, fmt.Errorf("expected trait item, found %s", AnnotatableKind(n).Name())
			}
			out = append(out, it)
		}
		return &TraitItemsFragment{Items: out}, nil
	case KindImplItems:
		out := make([]*ImplItem, 0, len(nodes))
		for _, n := range nodes {
			it, ok := n.(*ImplItem)
			if !ok {
				return nil, fmt.Errorf("expected impl item, found %s", AnnotatableKind(n).Name())
			}
			out = append(out, it)
		}
		return &ImplItemsFragment{Items: out}, nil
	default:
		return nil, fmt.Errorf("%s cannot carry attribute invocations", kind.Name())
	}
}
