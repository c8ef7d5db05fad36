package ast

import "strconv"

type LitKind uint8

const (
	LitStr LitKind = iota + 1
	LitInt
	LitFloat
	LitBool
	LitChar
)

func (k LitKind) String() string {
	switch k {
	case LitStr:
		return "str"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitBool:
		return "bool"
	case LitChar:
		return "char"
	default:
		return "invalid"
	}
}

// Lit is a literal value. Value holds the decoded text: the string contents
// for LitStr, the digits for numbers, "true"/"false" for LitBool.
type Lit struct {
	Kind  LitKind
	Value string
}

// Source renders the literal the way it would be written.
func (l Lit) Source() string {
	switch l.Kind {
	case LitStr:
		return strconv.Quote(l.Value)
	case LitChar:
		return "'" + l.Value + "'"
	default:
		return l.Value
	}
}
