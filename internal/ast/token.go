package ast

import (
	"strings"

	"syntex/internal/source"
)

// TokenTree is the unparsed argument of a function-like invocation:
// either a single *Token or a *Delimited group.
type TokenTree interface {
	TreeSpan() source.Span
	tokenTree()
}

type TokenKind uint8

const (
	TokIdent TokenKind = iota + 1
	TokLit
	TokPunct
)

type Token struct {
	Kind  TokenKind
	Ident Ident  // TokIdent
	Lit   Lit    // TokLit
	Punct string // TokPunct, e.g. "," or "=>"
	Span  source.Span
}

type Delim uint8

const (
	DelimParen Delim = iota + 1
	DelimBracket
	DelimBrace
)

func (d Delim) Open() string {
	switch d {
	case DelimBracket:
		return "["
	case DelimBrace:
		return "{"
	default:
		return "("
	}
}

func (d Delim) Close() string {
	switch d {
	case DelimBracket:
		return "]"
	case DelimBrace:
		return "}"
	default:
		return ")"
	}
}

type Delimited struct {
	Delim Delim
	Trees []TokenTree
	Span  source.Span
}

func (t *Token) TreeSpan() source.Span     { return t.Span }
func (t *Delimited) TreeSpan() source.Span { return t.Span }
func (*Token) tokenTree()                  {}
func (*Delimited) tokenTree()              {}

// Text renders the token the way it was written.
func (t *Token) Text() string {
	switch t.Kind {
	case TokIdent:
		return t.Ident.Name
	case TokLit:
		return t.Lit.Source()
	default:
		return t.Punct
	}
}

// TokensString renders token trees separated by single spaces, with no space
// before `,` and `;`.
func TokensString(tts []TokenTree) string {
	var b strings.Builder
	writeTokens(&b, tts)
	return b.String()
}

func writeTokens(b *strings.Builder, tts []TokenTree) {
	for i, tt := range tts {
		switch t := tt.(type) {
		case *Token:
			if i > 0 && !(t.Kind == TokPunct && (t.Punct == "," || t.Punct == ";")) {
				b.WriteByte(' ')
			}
			b.WriteString(t.Text())
		case *Delimited:
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t.Delim.Open())
			writeTokens(b, t.Trees)
			b.WriteString(t.Delim.Close())
		}
	}
}

// SplitComma splits a flat argument list on top-level comma tokens. A
// trailing comma does not produce an empty group.
func SplitComma(tts []TokenTree) [][]TokenTree {
	var (
		out [][]TokenTree
		cur []TokenTree
	)
	for _, tt := range tts {
		if t, ok := tt.(*Token); ok && t.Kind == TokPunct && t.Punct == "," {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, tt)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
