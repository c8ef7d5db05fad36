package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"syntex/internal/diag"
	"syntex/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview quotes the full lines an edit touches, as they are
// and as they would read once the edit is applied.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil || edit.Span.File == 0 {
		return fixEditPreview{}, fmt.Errorf("edit %s has no source file", edit.Span)
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	text := file.Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(text) {
		return fixEditPreview{}, fmt.Errorf("edit span %s outside %d byte file", edit.Span, len(text))
	}

	lineStart := bytes.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := bytes.IndexByte(text[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}

	var after strings.Builder
	after.Write(text[lineStart:start])
	after.WriteString(edit.NewText)
	after.Write(text[end:lineEnd])

	return fixEditPreview{
		before: previewLines(string(text[lineStart:lineEnd])),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(block string) []string {
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}
