package ext

import (
	"syntex/internal/ast"
	"syntex/internal/source"
)

// Kind is the capability an extension provides.
type Kind uint8

const (
	KindFunctionLike Kind = iota + 1 // name!(args)
	KindIdentTagged                  // name! ident (args)
	KindDecorator                    // #[name] adds sibling nodes
	KindModifier                     // #[name] replaces the node
)

func (k Kind) String() string {
	switch k {
	case KindFunctionLike:
		return "function-like"
	case KindIdentTagged:
		return "ident-tagged"
	case KindDecorator:
		return "decorator"
	case KindModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// IsAttr reports whether the extension is triggered by an attribute.
func (k Kind) IsAttr() bool { return k == KindDecorator || k == KindModifier }

// FunctionLike consumes the raw argument tokens of `name!(..)`.
type FunctionLike interface {
	Expand(cx *ExtCtxt, sp source.Span, args []ast.TokenTree) Result
}

// IdentTagged consumes `name! ident (..)`.
type IdentTagged interface {
	Expand(cx *ExtCtxt, sp source.Span, ident ast.Ident, args []ast.TokenTree) Result
}

// Decorator receives the annotated node and emits zero or more new sibling
// nodes through push. The annotated node itself is kept unchanged.
type Decorator interface {
	Expand(cx *ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable, push func(ast.Annotatable))
}

// Modifier rewrites the annotated node. It must return exactly one node.
type Modifier interface {
	Expand(cx *ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable
}

type FunctionLikeFunc func(cx *ExtCtxt, sp source.Span, args []ast.TokenTree) Result

func (f FunctionLikeFunc) Expand(cx *ExtCtxt, sp source.Span, args []ast.TokenTree) Result {
	return f(cx, sp, args)
}

type IdentTaggedFunc func(cx *ExtCtxt, sp source.Span, ident ast.Ident, args []ast.TokenTree) Result

func (f IdentTaggedFunc) Expand(cx *ExtCtxt, sp source.Span, ident ast.Ident, args []ast.TokenTree) Result {
	return f(cx, sp, ident, args)
}

type DecoratorFunc func(cx *ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable, push func(ast.Annotatable))

func (f DecoratorFunc) Expand(cx *ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable, push func(ast.Annotatable)) {
	f(cx, sp, meta, item, push)
}

type ModifierFunc func(cx *ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable

func (f ModifierFunc) Expand(cx *ExtCtxt, sp source.Span, meta *ast.MetaItem, item ast.Annotatable) []ast.Annotatable {
	return f(cx, sp, meta, item)
}

// Extension describes one registered extension. Exactly one of the handler
// fields matching Kind is set.
type Extension struct {
	Name  string
	Kind  Kind
	Scope string // module path the extension is visible from, "" for the crate root
	Doc   string

	FunctionLike FunctionLike
	IdentTagged  IdentTagged
	Decorator    Decorator
	Modifier     Modifier
}

// Option adjusts an extension at registration time.
type Option func(*Extension)

// InScope restricts the extension to a module subtree, e.g. "net::http".
// Only scoped resolution honours it.
func InScope(path string) Option {
	return func(e *Extension) { e.Scope = path }
}

// WithDoc attaches a one-line description shown by `syntex exts`.
func WithDoc(doc string) Option {
	return func(e *Extension) { e.Doc = doc }
}
