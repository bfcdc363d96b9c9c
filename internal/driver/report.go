package driver

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"shadercheck/internal/diag"
	"shadercheck/internal/fix"
	"shadercheck/internal/shader"
	"shadercheck/internal/source"
)

// FixInsertSemicolon prefixes terminator fix IDs: insert-semicolon@<path>:<line>.
const FixInsertSemicolon = "insert-semicolon"

// ReportResult converts validation errors of file into diagnostics, one per
// error and in the same order. ends maps a line to its CodeEnd offset and
// is used to place the "insert ;" fix; shaderType feeds the notes.
func ReportResult(r diag.Reporter, file *source.File, res shader.Result, ends map[int]int, shaderType string) {
	for _, e := range res.Errors {
		span := lineSpan(file, e.Line)
		switch e.Kind {
		case shader.MissingOrInvalidShaderType:
			diag.ReportError(r, diag.ShdInvalidShaderType, span, e.Message).
				WithNote(span, "valid shader types: "+strings.Join(shader.ShaderTypes(), ", ")).
				Emit()

		case shader.MissingOrInvalidEntryPoint:
			note := "recognized entry points: " + strings.Join(shader.EntryPoints(), ", ")
			if expected := shader.ExpectedEntryPoints(shaderType); len(expected) > 0 {
				note = fmt.Sprintf("shader_type %s expects one of: %s", shaderType, strings.Join(expected, ", "))
			}
			diag.ReportError(r, diag.ShdInvalidEntryPoint, span, e.Message).WithNote(span, note).Emit()

		case shader.MissingStatementTerminator:
			b := diag.ReportError(r, diag.ShdMissingTerminator, span, e.Message)
			if end, ok := ends[e.Line]; ok {
				b = b.WithFix(semicolonFix(file, e.Line, span, end))
			}
			b.Emit()

		default:
			diag.ReportError(r, diag.UnknownCode, span, e.Message).Emit()
		}
	}
}

// lineSpan returns the span of a 1-based line, or an empty span at the start
// of the file when the line does not exist (empty sources report line 1).
func lineSpan(file *source.File, line int) source.Span {
	n, err := safecast.Conv[uint32](line)
	if err != nil {
		return source.At(file.ID, 0)
	}
	if sp, ok := file.LineSpan(n); ok {
		return sp
	}
	return source.At(file.ID, 0)
}

func semicolonFix(file *source.File, lineNum int, line source.Span, codeEnd int) diag.Fix {
	off, err := safecast.Conv[uint32](codeEnd)
	if err != nil || line.Start+off > line.End {
		off = line.Len()
	}
	return fix.InsertText("insert ';'", source.At(file.ID, line.Start+off), ";",
		fix.WithID(fmt.Sprintf("%s@%s:%d", FixInsertSemicolon, file.Path, lineNum)),
		fix.Preferred(),
	)
}
