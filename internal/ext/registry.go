package ext

import (
	"errors"
	"fmt"
	"slices"

	"syntex/internal/ast"
	"syntex/internal/source"
)

var (
	ErrDuplicate = errors.New("extension already registered")
	ErrFrozen    = errors.New("registry is frozen")
)

// Pass is a whole-crate transformation run before or after expansion.
type Pass struct {
	Name string
	Run  func(*ast.Crate) *ast.Crate
}

type regKey struct {
	scope string
	name  string
}

// Registry collects extensions, extra cfg options, crate attributes and
// passes. It is populated once, then frozen by the expander; a frozen
// registry is read-only and safe to share between concurrent runs.
type Registry struct {
	exts   []*Extension
	byKey  map[regKey]*Extension
	cfg    []*ast.MetaItem
	attrs  []*ast.Attribute
	pre    []Pass
	post   []Pass
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[regKey]*Extension)}
}

// Register adds a fully described extension.
func (r *Registry) Register(e *Extension) error {
	if r.frozen {
		return fmt.Errorf("register %q: %w", e.Name, ErrFrozen)
	}
	if e.Name == "" {
		return errors.New("register: empty extension name")
	}
	if !handlerMatches(e) {
		return fmt.Errorf("register %q: handler does not match kind %s", e.Name, e.Kind)
	}
	key := regKey{scope: e.Scope, name: e.Name}
	if _, ok := r.byKey[key]; ok {
		return fmt.Errorf("register %q: %w", e.Name, ErrDuplicate)
	}
	r.byKey[key] = e
	r.exts = append(r.exts, e)
	return nil
}

func handlerMatches(e *Extension) bool {
	switch e.Kind {
	case KindFunctionLike:
		return e.FunctionLike != nil
	case KindIdentTagged:
		return e.IdentTagged != nil
	case KindDecorator:
		return e.Decorator != nil
	case KindModifier:
		return e.Modifier != nil
	default:
		return false
	}
}

func (r *Registry) add(e *Extension, opts []Option) error {
	for _, opt := range opts {
		opt(e)
	}
	return r.Register(e)
}

func (r *Registry) RegisterFunctionLike(name string, h FunctionLike, opts ...Option) error {
	return r.add(&Extension{Name: name, Kind: KindFunctionLike, FunctionLike: h}, opts)
}

func (r *Registry) RegisterIdentTagged(name string, h IdentTagged, opts ...Option) error {
	return r.add(&Extension{Name: name, Kind: KindIdentTagged, IdentTagged: h}, opts)
}

func (r *Registry) RegisterDecorator(name string, h Decorator, opts ...Option) error {
	return r.add(&Extension{Name: name, Kind: KindDecorator, Decorator: h}, opts)
}

func (r *Registry) RegisterModifier(name string, h Modifier, opts ...Option) error {
	return r.add(&Extension{Name: name, Kind: KindModifier, Modifier: h}, opts)
}

// AddCfg parses and records an extra cfg option, e.g. `feature = "serde"`.
func (r *Registry) AddCfg(src string) error {
	if r.frozen {
		return ErrFrozen
	}
	m, err := ast.ParseMeta(src)
	if err != nil {
		return err
	}
	if m.Kind == ast.MetaList {
		return fmt.Errorf("cfg option %q cannot be a list", src)
	}
	r.cfg = append(r.cfg, m)
	return nil
}

// AddAttr parses an attribute body and records it as a crate-level inner
// attribute, e.g. `feature(custom_derive)`.
func (r *Registry) AddAttr(src string) error {
	if r.frozen {
		return ErrFrozen
	}
	m, err := ast.ParseMeta(src)
	if err != nil {
		return err
	}
	r.attrs = append(r.attrs, &ast.Attribute{Style: ast.AttrInner, Meta: m, Span: source.Dummy})
	return nil
}

func (r *Registry) AddPreExpansionPass(name string, fn func(*ast.Crate) *ast.Crate) error {
	if r.frozen {
		return ErrFrozen
	}
	r.pre = append(r.pre, Pass{Name: name, Run: fn})
	return nil
}

func (r *Registry) AddPostExpansionPass(name string, fn func(*ast.Crate) *ast.Crate) error {
	if r.frozen {
		return ErrFrozen
	}
	r.post = append(r.post, Pass{Name: name, Run: fn})
	return nil
}

// Freeze makes the registry read-only. Calling it again is a no-op.
func (r *Registry) Freeze() {
	if !r.frozen {
		r.frozen = true
	}
}

func (r *Registry) Frozen() bool { return r.frozen }

// Extensions returns the extensions in registration order.
func (r *Registry) Extensions() []*Extension { return slices.Clone(r.exts) }

// Lookup finds an extension registered under exactly name and scope.
func (r *Registry) Lookup(scope, name string) (*Extension, bool) {
	e, ok := r.byKey[regKey{scope: scope, name: name}]
	return e, ok
}

func (r *Registry) Cfg() []*ast.MetaItem    { return slices.Clone(r.cfg) }
func (r *Registry) Attrs() []*ast.Attribute { return slices.Clone(r.attrs) }
func (r *Registry) PrePasses() []Pass       { return slices.Clone(r.pre) }
func (r *Registry) PostPasses() []Pass      { return slices.Clone(r.post) }
