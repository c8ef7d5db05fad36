package ast

import "syntex/internal/source"

type Visibility uint8

const (
	VisInherited Visibility = iota
	VisPublic
)

// Item is a module-level declaration. Attribute-triggered extensions operate
// on items, trait items and impl items, see Annotatable.
type Item struct {
	ID    NodeID
	Name  Ident
	Attrs []*Attribute
	Vis   Visibility
	Kind  ItemKind
	Span  source.Span
}

func (it *Item) NodeSpan() source.Span { return it.Span }

type ItemKind interface {
	itemKind()
}

type Param struct {
	ID   NodeID
	Pat  Pat
	Ty   Ty
	Span source.Span
}

type FnDecl struct {
	Params []*Param
	Ret    Ty // nil for unit
}

type Field struct {
	ID    NodeID
	Name  Ident // invalid for tuple fields
	Vis   Visibility
	Attrs []*Attribute
	Ty    Ty
	Span  source.Span
}

type Variant struct {
	ID     NodeID
	Name   Ident
	Attrs  []*Attribute
	Fields []*Field
	Span   source.Span
}

type (
	FnItem struct {
		Decl FnDecl
		Body *Block
	}
	StructItem struct {
		Fields []*Field
	}
	EnumItem struct {
		Variants []*Variant
	}
	ConstItem struct {
		Ty    Ty
		Value Expr
	}
	TypeItem struct {
		Ty Ty
	}
	UseItem struct {
		Path Path
	}
	// ModItem is an inline module; Items are expanded under the module's path.
	ModItem struct {
		Items []*Item
	}
	TraitDecl struct {
		Items []*TraitItem
	}
	ImplDecl struct {
		Trait *Path // nil for inherent impls
		Self  Ty
		Items []*ImplItem
	}
	// MacItem is an invocation in item position. When the invocation carries
	// an identifier (`name! ident { .. }`) it is stored in Item.Name.
	MacItem struct {
		Mac *Mac
	}
	PlaceholderItem struct {
		Inv InvocationID
	}
)

func (*FnItem) itemKind()          {}
func (*StructItem) itemKind()      {}
func (*EnumItem) itemKind()        {}
func (*ConstItem) itemKind()       {}
func (*TypeItem) itemKind()        {}
func (*UseItem) itemKind()         {}
func (*ModItem) itemKind()         {}
func (*TraitDecl) itemKind()       {}
func (*ImplDecl) itemKind()        {}
func (*MacItem) itemKind()         {}
func (*PlaceholderItem) itemKind() {}

type TraitItem struct {
	ID    NodeID
	Name  Ident
	Attrs []*Attribute
	Kind  TraitItemKind
	Span  source.Span
}

func (it *TraitItem) NodeSpan() source.Span { return it.Span }

type TraitItemKind interface {
	traitItemKind()
}

type (
	TraitMethod struct {
		Decl FnDecl
		Body *Block // default body, may be nil
	}
	TraitConst struct {
		Ty      Ty
		Default Expr
	}
	TraitType struct{}
	TraitMac  struct {
		Mac *Mac
	}
	TraitPlaceholder struct {
		Inv InvocationID
	}
)

func (*TraitMethod) traitItemKind()      {}
func (*TraitConst) traitItemKind()       {}
func (*TraitType) traitItemKind()        {}
func (*TraitMac) traitItemKind()         {}
func (*TraitPlaceholder) traitItemKind() {}

type ImplItem struct {
	ID    NodeID
	Name  Ident
	Attrs []*Attribute
	Vis   Visibility
	Kind  ImplItemKind
	Span  source.Span
}

func (it *ImplItem) NodeSpan() source.Span { return it.Span }

type ImplItemKind interface {
	implItemKind()
}

type (
	ImplMethod struct {
		Decl FnDecl
		Body *Block
	}
	ImplConst struct {
		Ty    Ty
		Value Expr
	}
	ImplType struct {
		Ty Ty
	}
	ImplMac struct {
		Mac *Mac
	}
	ImplPlaceholder struct {
		Inv InvocationID
	}
)

func (*ImplMethod) implItemKind()      {}
func (*ImplConst) implItemKind()       {}
func (*ImplType) implItemKind()        {}
func (*ImplMac) implItemKind()         {}
func (*ImplPlaceholder) implItemKind() {}

// Crate is the root of a tree. Attrs are the crate-level inner attributes.
type Crate struct {
	Name  string
	Attrs []*Attribute
	Items []*Item
	Span  source.Span
}

func (c *Crate) NodeSpan() source.Span { return c.Span }
