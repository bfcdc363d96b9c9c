package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"shadercheck/internal/diag"
	"shadercheck/internal/source"
)

// editPreview holds the lines touched by an edit before and after applying it.
type editPreview struct {
	before []string
	after  []string
}

func buildEditPreview(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	file := fs.Get(edit.Span.File)

	contentLen, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return editPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > contentLen {
		return editPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	// расширяем до целых строк
	blockStart := edit.Span.Start
	for blockStart > 0 && file.Content[blockStart-1] != '\n' {
		blockStart--
	}
	blockEnd := edit.Span.End
	for blockEnd < contentLen && file.Content[blockEnd] != '\n' {
		blockEnd++
	}

	original := file.Content[blockStart:blockEnd]
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return editPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return []string{""}
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}
