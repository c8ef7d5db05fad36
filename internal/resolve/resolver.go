// Package resolve maps invocation names to registered extensions and hands
// out node identifiers for an expansion run.
package resolve

import (
	"fmt"

	"syntex/internal/ast"
	"syntex/internal/ext"
	"syntex/internal/source"
)

// Resolver is the contract the expander depends on. Implementations are
// populated at initialisation and read-only afterwards, except for the node
// id counter.
type Resolver interface {
	// FindExtension looks a bare name up from scope.
	FindExtension(scope, name string) (*ext.Extension, bool)
	// FindAttrInvocation returns the index of the first attribute whose
	// name resolves to a decorator or modifier, or -1.
	FindAttrInvocation(scope string, attrs []*ast.Attribute) int
	// Resolve resolves the path of a function-like invocation.
	Resolve(scope string, path ast.Path) (*ext.Extension, error)
	// NextNodeID returns a fresh identifier, strictly greater than any
	// returned before.
	NextNodeID() (ast.NodeID, error)
	// Names lists the visible extension names, sorted.
	Names() []string
}

type ErrorKind uint8

const (
	ErrMalformedPath ErrorKind = iota + 1
	ErrUnresolved
)

// Error is a resolution failure. Suggestions hold the closest registered
// names for ErrUnresolved.
type Error struct {
	Kind        ErrorKind
	Name        string
	Span        source.Span
	Suggestions []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrMalformedPath:
		return fmt.Sprintf("expected extension name without module separators, found `%s`", e.Name)
	default:
		return fmt.Sprintf("extension undefined: '%s!'", e.Name)
	}
}

// Policy selects the resolver implementation.
type Policy uint8

const (
	PolicyFlat Policy = iota
	PolicyScoped
)

func (p Policy) String() string {
	if p == PolicyScoped {
		return "scoped"
	}
	return "flat"
}

// ParsePolicy accepts "flat" and "scoped".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "flat":
		return PolicyFlat, nil
	case "scoped":
		return PolicyScoped, nil
	default:
		return PolicyFlat, fmt.Errorf("unknown resolution policy %q (want flat|scoped)", s)
	}
}

// New builds the resolver of policy p over the registry's extensions.
func New(p Policy, reg *ext.Registry) Resolver {
	var all []*ext.Extension
	if reg != nil {
		all = reg.Extensions()
	}
	if p == PolicyScoped {
		return NewScoped(all)
	}
	return NewFlat(all)
}

// resolvePath applies the path-shape rules shared by both policies.
func resolvePath(r Resolver, scope string, path ast.Path) (*ext.Extension, error) {
	if !path.IsBareName() {
		return nil, &Error{Kind: ErrMalformedPath, Name: path.String(), Span: path.Span}
	}
	name := path.Segments[0].Ident.Name
	if e, ok := r.FindExtension(scope, name); ok {
		return e, nil
	}
	return nil, &Error{Kind: ErrUnresolved, Name: name, Span: path.Span, Suggestions: Suggest(name, r.Names())}
}

func findAttrInvocation(r Resolver, scope string, attrs []*ast.Attribute) int {
	for i, a := range attrs {
		if e, ok := r.FindExtension(scope, a.Name()); ok && e.Kind.IsAttr() {
			return i
		}
	}
	return -1
}
