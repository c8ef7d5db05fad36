package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.rs", []byte("fn main() {\n    greet!();\n}\n"))
	if id == 0 {
		t.Fatalf("file id 0 is reserved for the dummy file")
	}

	start, end, ok := fs.Resolve(Span{File: id, Start: 16, End: 24})
	if !ok {
		t.Fatalf("resolve failed")
	}
	if start != (LineCol{Line: 2, Col: 5}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 13}) {
		t.Errorf("end = %+v", end)
	}
	if got := fs.Get(id).GetLine(2); got != "    greet!();" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := fs.Get(id).GetLine(9); got != "" {
		t.Errorf("GetLine past end = %q", got)
	}
	if _, _, ok := fs.Resolve(Dummy); ok {
		t.Errorf("dummy span must not resolve")
	}
}

func TestFileSetNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if latest, ok := fs.Lookup(path); !ok || latest.ID != id {
		t.Fatalf("Lookup did not return the loaded file")
	}
}

func TestFileSetReAddGetsNewID(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("x.rs", []byte("one"))
	b := fs.AddVirtual("x.rs", []byte("two"))
	if a == b {
		t.Fatalf("re-adding a path must allocate a new id")
	}
	if f, _ := fs.Lookup("x.rs"); f.ID != b {
		t.Fatalf("index should point at latest version")
	}
}
