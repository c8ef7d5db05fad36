package expand

import (
	"strings"

	"syntex/internal/ast"
	"syntex/internal/source"
)

// Origin tells bang invocations from attribute ones.
type Origin uint8

const (
	OriginBang Origin = iota + 1
	OriginAttr
)

func (o Origin) String() string {
	if o == OriginAttr {
		return "attr"
	}
	return "bang"
}

// Invocation is one pending expansion. It replaced a node of the tree with a
// placeholder carrying ID.
type Invocation struct {
	ID     ast.InvocationID
	Kind   ast.ExpansionKind
	Origin Origin
	Scope  []string // module path below the crate root
	Depth  int
	Span   source.Span

	// bang
	Mac   *ast.Mac
	Ident *ast.Ident
	Attrs []*ast.Attribute // written on the call; see checkBangAttrs

	// attr
	Attr      *ast.Attribute
	AttrIndex int
	Cond      *ast.MetaItem // set when Attr is cfg_attr(Cond, ..)
	Spec      *ast.MetaItem // the attribute that triggered the invocation
	Item      ast.Annotatable

	// Orig is the node as written, used when the invocation is left alone.
	Orig ast.Fragment
}

// Name is the extension name as written.
func (inv *Invocation) Name() string {
	if inv.Origin == OriginAttr {
		return inv.Spec.Name
	}
	return inv.Mac.Name()
}

// Display is the name in `name!` or `#[name]` form.
func (inv *Invocation) Display() string {
	if inv.Origin == OriginAttr {
		return "#[" + inv.Spec.Name + "]"
	}
	return inv.Mac.Name() + "!"
}

func (inv *Invocation) scopeKey() string {
	return strings.Join(inv.Scope, "::")
}
