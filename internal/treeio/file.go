package treeio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"syntex/internal/ast"
	"syntex/internal/source"
)

var (
	ErrSchema    = errors.New("unsupported tree schema")
	ErrMalformed = errors.New("malformed tree")
)

// Encode writes the crate and the text of every file in fs. fs may be nil
// when the spans point nowhere.
func Encode(w io.Writer, c *ast.Crate, fs *source.FileSet, tool string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode tree: %v", r)
		}
	}()
	f := File{Schema: SchemaVersion, Tool: tool, Crate: encoder{}.crate(c)}
	if fs != nil {
		for i := 1; i < fs.Len(); i++ {
			src := fs.Get(source.FileID(i)) // #nosec G115 -- bounded by Len
			f.Sources = append(f.Sources, sourceFile{Path: src.Path, Content: src.Content})
		}
	}
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	enc.UseCompactInts(true)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return bw.Flush()
}

// Decode reads a tree file. The returned file set holds the embedded
// sources under the ids the spans use.
func Decode(r io.Reader) (*ast.Crate, *source.FileSet, error) {
	var f File
	if err := msgpack.NewDecoder(bufio.NewReader(r)).Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if f.Schema != SchemaVersion {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, f.Schema, SchemaVersion)
	}
	fs := source.NewFileSet()
	for _, src := range f.Sources {
		fs.Add(src.Path, src.Content, source.FileVirtual)
	}
	c, err := decoder{}.crate(f.Crate)
	if err != nil {
		return nil, nil, err
	}
	return c, fs, nil
}

// WriteFile encodes into a temporary file next to path and renames it into
// place.
func WriteFile(path string, c *ast.Crate, fs *source.FileSet, tool string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*"+Ext)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // после Rename файла уже нет
	if err := Encode(tmp, c, fs, tool); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ReadFile(path string) (*ast.Crate, *source.FileSet, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() //nolint:errcheck
	c, fs, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, fs, nil
}

// OutputPath maps `a/b.stx` to `a/b.expanded.stx`.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, Ext) + ".expanded" + Ext
}

// IsTreeFile reports whether path looks like an input tree: it has the tree
// extension and is not itself an expansion output.
func IsTreeFile(path string) bool {
	return strings.HasSuffix(path, Ext) && !strings.HasSuffix(path, ".expanded"+Ext)
}
