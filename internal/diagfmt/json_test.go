package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"syntex/internal/diag"
	"syntex/internal/source"
)

func TestJSONOutput(t *testing.T) {
	bag, fs := unresolvedBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var got DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	loc := LocationJSON{File: "lib.stx", StartByte: 20, EndByte: 24, StartLine: 2, StartCol: 14, EndLine: 2, EndCol: 18}
	want := DiagnosticsOutput{
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "EXP2001",
			Message:  "cannot find extension `gret!` in this scope",
			Location: loc,
			Notes:    []NoteJSON{{Message: "did you mean `greet!`?", Location: loc}},
			Fixes: []FixJSON{{
				Title: "replace with `greet!`",
				Edits: []FixEditJSON{{
					Location:    loc,
					NewText:     "greet",
					BeforeLines: []string{"const X: T = gret!();"},
					AfterLines:  []string{"const X: T = greet!();"},
				}},
			}},
		}},
		Count:  1,
		Errors: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONTrimsAndOmits(t *testing.T) {
	bag := diag.NewBag(10)
	for range 3 {
		bag.Add(diag.New(diag.SevWarning, diag.DrvEmptyList, source.Span{Expn: 4}, "empty").WithNote(source.Dummy, "n"))
	}
	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{Max: 2})
	if out.Count != 2 || out.Errors != 0 {
		t.Fatalf("count=%d errors=%d", out.Count, out.Errors)
	}
	d := out.Diagnostics[0]
	if d.Notes != nil || d.Location.File != unknownPath || d.Location.Expansion != 4 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}
