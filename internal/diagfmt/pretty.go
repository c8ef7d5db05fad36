package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"syntex/internal/diag"
	"syntex/internal/source"
)

type palette struct {
	err, warn, info, note, fix, gutter, caret, added, removed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgBlue, color.Bold),
		fix:     color.New(color.FgGreen, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.gutter, p.caret, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev>[<CODE>]: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := p.severity(d.Severity)
		fmt.Fprintf(w, "%s: %s: %s\n",
			location(fs, d.Primary, opts.PathMode),
			sev.Sprintf("%s[%s]", diag.SeverityLabel(d.Severity), d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, p, opts.Width)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  %s %s\n", p.fix.Sprint("fix:"), f.Title)
				if !opts.ShowPreview {
					continue
				}
				for _, e := range f.Edits {
					preview, err := buildFixEditPreview(fs, e)
					if err != nil {
						continue
					}
					for _, l := range preview.before {
						fmt.Fprintf(w, "    %s\n", p.removed.Sprint("- "+l))
					}
					for _, l := range preview.after {
						fmt.Fprintf(w, "    %s\n", p.added.Sprint("+ "+l))
					}
				}
			}
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil {
		return unknownPath
	}
	start, _, ok := fs.Resolve(sp)
	if !ok {
		return unknownPath
	}
	return fmt.Sprintf("%s:%d:%d", displayPath(fs, sp.File, mode), start.Line, start.Col)
}

// writeSnippet prints the first line of sp with a caret underline. Columns
// are display cells, wide runes take two.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, p palette, width uint8) {
	if fs == nil {
		return
	}
	start, end, ok := fs.Resolve(sp)
	if !ok {
		return
	}
	f := fs.Get(sp.File)
	line := f.GetLine(start.Line)
	startCol := min(int(start.Col)-1, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, startCol), len(line))
	}

	pad := runewidth.StringWidth(line[:startCol])
	span := max(runewidth.StringWidth(line[startCol:endCol]), 1)
	if width > 0 {
		line = runewidth.Truncate(line, int(width), "...")
	}

	num := strconv.FormatUint(uint64(start.Line), 10)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, "%s\n", p.gutter.Sprintf("%s |", gutter))
	fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%s |", num), line)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%s |", gutter), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", span-1)))
}
