package ast

import (
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

// Ident is a name together with its hygiene context.
type Ident struct {
	Name string
	Ctxt hygiene.Chain
	Span source.Span
}

// NewIdent returns an unmarked identifier.
func NewIdent(name string, sp source.Span) Ident {
	return Ident{Name: name, Span: sp}
}

// IsInvalid reports whether the identifier is the empty placeholder name.
func (id Ident) IsInvalid() bool { return id.Name == "" }

// SameBinding compares name and full mark chain. Textually equal identifiers
// produced by different expansions are different bindings.
func (id Ident) SameBinding(other Ident) bool {
	return id.Name == other.Name && id.Ctxt.Equal(other.Ctxt)
}

func (id Ident) String() string {
	if len(id.Ctxt) == 0 {
		return id.Name
	}
	return id.Name + id.Ctxt.String()
}
