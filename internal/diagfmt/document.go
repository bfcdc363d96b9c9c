package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"shadercheck/internal/shader"
)

// StatementJSON is one classified line in the document dump.
type StatementJSON struct {
	Line              int    `json:"line"`
	Text              string `json:"text"`
	RequiresSemicolon bool   `json:"requiresSemicolon"`
	EndsWithSemicolon bool   `json:"endsWithSemicolon"`
	Rule              string `json:"rule"`
}

// DocumentJSON is the document dump; missing facts are null.
type DocumentJSON struct {
	Path       string          `json:"path,omitempty"`
	ShaderType *string         `json:"shaderType"`
	EntryPoint *string         `json:"entrypoint"`
	Statements []StatementJSON `json:"statements"`
}

// BuildDocumentOutput converts a classified document into its JSON form.
func BuildDocumentOutput(path string, doc *shader.Document) DocumentJSON {
	out := DocumentJSON{Path: path, Statements: []StatementJSON{}}
	if doc == nil {
		return out
	}
	if doc.HasShaderType() {
		st := doc.ShaderType
		out.ShaderType = &st
	}
	if doc.HasEntryPoint() {
		ep := doc.EntryPoint
		out.EntryPoint = &ep
	}
	for _, s := range doc.Statements {
		out.Statements = append(out.Statements, StatementJSON{
			Line:              s.Line,
			Text:              s.Text,
			RequiresSemicolon: s.RequiresSemicolon,
			EndsWithSemicolon: s.EndsWithSemicolon,
			Rule:              s.Rule,
		})
	}
	return out
}

// DocumentJSONTo writes the document dump as indented JSON.
func DocumentJSONTo(w io.Writer, path string, doc *shader.Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDocumentOutput(path, doc))
}

// DocumentPretty prints the global facts and a table of statements.
// Statements missing their terminator are marked with "!".
func DocumentPretty(w io.Writer, path string, doc *shader.Document) error {
	out := BuildDocumentOutput(path, doc)
	orNone := func(s *string) string {
		if s == nil {
			return "<none>"
		}
		return *s
	}
	if _, err := fmt.Fprintf(w, "%s\nshader_type: %s\nentry point: %s\n",
		path, orNone(out.ShaderType), orNone(out.EntryPoint)); err != nil {
		return err
	}
	if len(out.Statements) == 0 {
		_, err := fmt.Fprintln(w, "no statements")
		return err
	}

	rows := make([][]string, 0, len(out.Statements))
	for i, s := range out.Statements {
		mark := ""
		if doc.Statements[i].MissingTerminator() {
			mark = "!"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Line),
			s.Rule,
			yesNo(s.RequiresSemicolon),
			yesNo(s.EndsWithSemicolon),
			mark,
			s.Text,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LINE", "RULE", "NEEDS ;", "HAS ;", "", "TEXT").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
