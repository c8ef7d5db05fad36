package format

import (
	"bytes"
	"strings"
)

// lineWriter buffers printed text and inserts indentation lazily, at the
// first write of each line, so blank lines stay empty.
type lineWriter struct {
	buf   bytes.Buffer
	unit  string // one indentation step
	depth int
	fresh bool // next write starts a line
}

func newLineWriter(opt Options) *lineWriter {
	unit := "\t"
	if !opt.UseTabs {
		unit = strings.Repeat(" ", opt.IndentWidth)
	}
	w := &lineWriter{unit: unit, fresh: true}
	w.buf.Grow(1024)
	return w
}

func (w *lineWriter) Bytes() []byte { return w.buf.Bytes() }

func (w *lineWriter) WriteString(s string) {
	if s == "" {
		return
	}
	if w.fresh {
		for range w.depth {
			w.buf.WriteString(w.unit)
		}
	}
	w.buf.WriteString(s)
	w.fresh = strings.HasSuffix(s, "\n")
}

// Space separates tokens; it never doubles whitespace or indents.
func (w *lineWriter) Space() {
	if w.fresh || w.buf.Len() == 0 {
		return
	}
	switch w.last() {
	case ' ', '\t', '\n':
		return
	}
	w.buf.WriteByte(' ')
}

// Newline ends the current line unless it is already ended.
func (w *lineWriter) Newline() {
	if w.buf.Len() > 0 && w.last() != '\n' {
		w.buf.WriteByte('\n')
	}
	w.fresh = true
}

// BlankLine leaves one empty line between blocks.
func (w *lineWriter) BlankLine() {
	w.Newline()
	w.buf.WriteByte('\n')
}

func (w *lineWriter) IndentPush() { w.depth++ }

func (w *lineWriter) IndentPop() { w.depth = max(w.depth-1, 0) }

func (w *lineWriter) last() byte {
	b := w.buf.Bytes()
	return b[len(b)-1]
}
