package diagfmt

import (
	"io"

	"syntex/internal/diag"
	"syntex/internal/source"
)

// Short prints one line per diagnostic in the stable golden layout:
// `<sev> <CODE> <path>:<line>:<col> <message>`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
