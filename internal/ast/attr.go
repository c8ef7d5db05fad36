package ast

import (
	"strings"

	"syntex/internal/source"
)

type AttrStyle uint8

const (
	AttrOuter AttrStyle = iota // #[...]
	AttrInner                  // #![...]
)

// Attribute is immutable once built; rewriting code replaces entries in the
// owning slice instead of editing them.
type Attribute struct {
	Style AttrStyle
	Meta  *MetaItem
	Span  source.Span
}

// Name is the attribute's leading word.
func (a *Attribute) Name() string {
	if a == nil || a.Meta == nil {
		return ""
	}
	return a.Meta.Name
}

func (a *Attribute) String() string {
	if a.Style == AttrInner {
		return "#![" + a.Meta.String() + "]"
	}
	return "#[" + a.Meta.String() + "]"
}

type MetaKind uint8

const (
	MetaWord MetaKind = iota
	MetaList
	MetaNameValue
)

// MetaItem is the structured content of an attribute: `word`,
// `name(items...)` or `name = "lit"`.
type MetaItem struct {
	Name  string
	Kind  MetaKind
	List  []*MetaItem
	Value Lit
	Span  source.Span
}

func MetaWordItem(name string, sp source.Span) *MetaItem {
	return &MetaItem{Name: name, Kind: MetaWord, Span: sp}
}

func MetaListItem(name string, sp source.Span, items ...*MetaItem) *MetaItem {
	return &MetaItem{Name: name, Kind: MetaList, List: items, Span: sp}
}

func MetaNameValueItem(name string, value Lit, sp source.Span) *MetaItem {
	return &MetaItem{Name: name, Kind: MetaNameValue, Value: value, Span: sp}
}

func (m *MetaItem) IsWord() bool { return m.Kind == MetaWord }

// ValueStr returns the string value of a `name = "..."` item.
func (m *MetaItem) ValueStr() (string, bool) {
	if m.Kind != MetaNameValue || m.Value.Kind != LitStr {
		return "", false
	}
	return m.Value.Value, true
}

// Equal compares structure and values, ignoring spans.
func (m *MetaItem) Equal(other *MetaItem) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Name != other.Name || m.Kind != other.Kind || m.Value != other.Value || len(m.List) != len(other.List) {
		return false
	}
	for i := range m.List {
		if !m.List[i].Equal(other.List[i]) {
			return false
		}
	}
	return true
}

func (m *MetaItem) String() string {
	var b strings.Builder
	m.write(&b)
	return b.String()
}

func (m *MetaItem) write(b *strings.Builder) {
	b.WriteString(m.Name)
	switch m.Kind {
	case MetaList:
		b.WriteByte('(')
		for i, it := range m.List {
			if i > 0 {
				b.WriteString(", ")
			}
			it.write(b)
		}
		b.WriteByte(')')
	case MetaNameValue:
		b.WriteString(" = ")
		b.WriteString(m.Value.Source())
	}
}

// NewAttr wraps a meta item into an outer attribute.
func NewAttr(meta *MetaItem) *Attribute {
	return &Attribute{Style: AttrOuter, Meta: meta, Span: meta.Span}
}

// HasAttr reports whether any attribute is named name.
func HasAttr(attrs []*Attribute, name string) bool {
	return FindAttr(attrs, name) >= 0
}

// FindAttr returns the index of the first attribute named name, or -1.
func FindAttr(attrs []*Attribute, name string) int {
	for i, a := range attrs {
		if a.Name() == name {
			return i
		}
	}
	return -1
}

// RemoveAttr returns a new slice without the attribute at i.
func RemoveAttr(attrs []*Attribute, i int) []*Attribute {
	out := make([]*Attribute, 0, len(attrs)-1)
	out = append(out, attrs[:i]...)
	return append(out, attrs[i+1:]...)
}
