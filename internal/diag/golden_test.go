package diag

import (
	"testing"

	"syntex/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.stx", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     ExpUnresolvedExtension,
			Message:  "extension undefined: 'greet!'\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     DrvEmptyList,
			Message:  "empty trait list in `derive`",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     ExpRecursionLimit,
			Message:  "no location",
		},
	}

	expected := "error EXP2005 <unknown>:0:0 no location\n" +
		"error EXP2001 testdata/golden/sample.stx:1:1 extension undefined: 'greet!' second\n" +
		"note EXP2001 testdata/golden/sample.stx:2:1 note line\n" +
		"warning DRV3002 testdata/golden/sample.stx:2:1 empty trait list in `derive`"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenMarksExpansion(t *testing.T) {
	diags := []Diagnostic{{
		Severity: SevWarning,
		Code:     ExpExtensionError,
		Message:  "  spaced\r\n  out ",
		Primary:  source.Span{Expn: 3},
	}}
	want := "warning " + ExpExtensionError.ID() + " <unknown>:0:0 spaced out (expansion #3)"
	if got := FormatGoldenDiagnostics(diags, nil, false); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
