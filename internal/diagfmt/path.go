package diagfmt

import (
	"path/filepath"

	"syntex/internal/source"
)

const unknownPath = "<unknown>"

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if fs == nil {
		return unknownPath
	}
	f := fs.Get(id)
	if f == nil || id == 0 {
		return unknownPath
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative, PathModeAuto:
		return fs.DisplayPath(id)
	case PathModeBasename:
		return source.BaseName(f.Path)
	default:
		return f.Path
	}
}
