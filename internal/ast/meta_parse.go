package ast

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"syntex/internal/source"
)

// MetaSyntaxError reports a malformed meta item string.
type MetaSyntaxError struct {
	Src    string
	Offset int
	Msg    string
}

func (e *MetaSyntaxError) Error() string {
	return fmt.Sprintf("malformed meta item %q at offset %d: %s", e.Src, e.Offset, e.Msg)
}

// ParseMeta parses the inside of an attribute, e.g. `cfg(feature = "x")`.
// Used for attributes and cfg predicates supplied on the command line or in
// the project manifest. Spans are dummy.
func ParseMeta(src string) (*MetaItem, error) {
	p := &metaParser{src: src}
	p.skipSpace()
	m, err := p.item()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return m, nil
}

type metaParser struct {
	src string
	pos int
}

func (p *metaParser) errorf(format string, args ...any) error {
	return &MetaSyntaxError{Src: p.src, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *metaParser) skipSpace() {
	for p.pos < len(p.src) {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += n
	}
}

func (p *metaParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *metaParser) ident() (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == '_' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos += n
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.src[start:p.pos], nil
}

func (p *metaParser) item() (*MetaItem, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	switch p.peek() {
	case '=':
		p.pos++
		p.skipSpace()
		lit, err := p.lit()
		if err != nil {
			return nil, err
		}
		return MetaNameValueItem(name, lit, source.Dummy), nil
	case '(':
		p.pos++
		items := []*MetaItem{}
		for {
			p.skipSpace()
			if p.peek() == ')' {
				p.pos++
				return MetaListItem(name, source.Dummy, items...), nil
			}
			it, err := p.item()
			if err != nil {
				return nil, err
			}
			items = append(items, it)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
			case ')':
			default:
				return nil, p.errorf("expected `,` or `)`")
			}
		}
	default:
		return MetaWordItem(name, source.Dummy), nil
	}
}

func (p *metaParser) lit() (Lit, error) {
	switch c := p.peek(); {
	case c == '"':
		end := p.pos + 1
		for end < len(p.src) && p.src[end] != '"' {
			if p.src[end] == '\\' {
				end++
			}
			end++
		}
		if end >= len(p.src) {
			return Lit{}, p.errorf("unterminated string")
		}
		s, err := strconv.Unquote(p.src[p.pos : end+1])
		if err != nil {
			return Lit{}, p.errorf("bad string literal: %v", err)
		}
		p.pos = end + 1
		return Lit{Kind: LitStr, Value: s}, nil
	case c >= '0' && c <= '9':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '_') {
			p.pos++
		}
		return Lit{Kind: LitInt, Value: p.src[start:p.pos]}, nil
	default:
		word, err := p.ident()
		if err != nil || (word != "true" && word != "false") {
			return Lit{}, p.errorf("expected literal")
		}
		return Lit{Kind: LitBool, Value: word}, nil
	}
}
