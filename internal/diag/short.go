package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"shadercheck/internal/source"
)

// shortLine is one rendered entry: a diagnostic or one of its notes.
type shortLine struct {
	label   string
	code    string
	path    string
	line    uint32
	col     uint32
	message string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.message)
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set):
//
//	error SHD2001 shaders/water.gdshader:3:1 Expected ';' at end of statement.
//
// Lines are sorted by path, position, label and code; paths are relative to
// the FileSet base directory with forward slashes. The result has no
// trailing newline and is empty when there is nothing to show. `check
// --format short` and the tests share this layout.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		code := d.Code.ID()
		if l, ok := shortLineAt(fs, d.Primary, d.Severity.Label(), code, d.Message); ok {
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			if l, ok := shortLineAt(fs, note.Span, "note", code, note.Msg); ok {
				lines = append(lines, l)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.message, b.message),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func shortLineAt(fs *source.FileSet, span source.Span, label, code, msg string) (shortLine, bool) {
	if int(span.File) >= fs.Len() {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(fs.Get(span.File).FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{
		label:   label,
		code:    code,
		path:    path,
		line:    start.Line,
		col:     start.Col,
		message: strings.Join(strings.Fields(msg), " "),
	}, true
}
