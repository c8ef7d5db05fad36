package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"syntex/internal/source"
)

const unknownPath = "<unknown>"

// goldenLine is one rendered row: a diagnostic or one of its notes.
type goldenLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	expn source.ExpnID
	msg  string
}

func (l goldenLine) String() string {
	s := fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
	if l.expn != source.NoExpn {
		s += fmt.Sprintf(" (expansion #%d)", l.expn)
	}
	return s
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set) for golden files and `--format short`. Output is
// sorted by location; spans that cannot be resolved print as <unknown>:0:0.
// Spans inside expanded code carry an "(expansion #N)" suffix.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := make([]goldenLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, goldenAt(fs, d.Primary, SeverityLabel(d.Severity), d.Code.ID(), d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, goldenAt(fs, n.Span, "note", d.Code.ID(), n.Msg))
		}
	}

	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func goldenAt(fs *source.FileSet, span source.Span, sev, code, msg string) goldenLine {
	l := goldenLine{sev: sev, code: code, path: unknownPath, expn: span.Expn, msg: flattenMessage(msg)}
	if fs == nil {
		return l
	}
	start, _, ok := fs.Resolve(span)
	if !ok {
		return l
	}
	l.path = slashPath(fs.DisplayPath(span.File))
	l.line, l.col = start.Line, start.Col
	return l
}

func slashPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// SeverityLabel is the lower-case label used by text renderers.
func SeverityLabel(sev Severity) string {
	switch {
	case sev >= SevError:
		return "error"
	case sev == SevWarning:
		return "warning"
	}
	return "info"
}

// flattenMessage keeps a message on a single line.
func flattenMessage(msg string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(msg), " "))
}
