package source

import (
	"fmt"
)

// ExpnID identifies the expansion event that produced a span.
// NoExpn marks text that came straight from the parser.
type ExpnID uint32

const NoExpn ExpnID = 0

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
	Expn  ExpnID // expansion that produced the node, NoExpn for source text
}

// Dummy is the span used for synthesized nodes with no source location.
var Dummy = Span{}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) IsDummy() bool {
	return s.File == 0 && s.Start == 0 && s.End == 0
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// FromExpansion reports whether the span belongs to macro-generated code.
func (s Span) FromExpansion() bool {
	return s.Expn != NoExpn
}

func (s Span) String() string {
	if s.Expn != NoExpn {
		return fmt.Sprintf("%d:%d-%d#%d", s.File, s.Start, s.End, s.Expn)
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// WithExpn re-tags the span with the given expansion.
func (s Span) WithExpn(id ExpnID) Span {
	s.Expn = id
	return s
}
