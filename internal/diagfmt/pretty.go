package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"shadercheck/internal/diag"
	"shadercheck/internal/source"
)

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	code   *color.Color
	path   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
	fix    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix} {
		// опция главнее глобального color.NoColor
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строки контекста с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyDiagnostic(w, d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		if bag.Len() > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %d more diagnostic(s) not shown (raise --max-diagnostics)\n", p.note.Sprint("note:"), n)
	}
}

func prettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity)
	if fs == nil || int(d.Primary.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}

	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", opts.PathMode.format(file, fs), start.Line, start.Col),
		sev.Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)

	prettySnippet(w, file, start, end, int(opts.Context), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("= note:"), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range sortedFixes(d.Fixes) {
			label := f.Title
			if f.ID != "" {
				label += " [" + f.ID + "]"
			}
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprint("= fix:"), label)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range f.Edits {
				preview, err := buildEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s %s\n", p.err.Sprint("-"), line)
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s %s\n", p.fix.Sprint("+"), line)
				}
			}
		}
	}
}

// prettySnippet prints the diagnostic line with ctx lines around it and a
// caret line under the primary span.
func prettySnippet(w io.Writer, file *source.File, start, end source.LineCol, ctx int, p palette) {
	total := file.LineCount()
	if total == 0 || start.Line == 0 || start.Line > total {
		return
	}
	ctx = max(ctx, 0)
	first := max(int(start.Line)-ctx, 1)
	last := min(int(start.Line)+ctx, int(total))
	width := len(strconv.Itoa(last))
	blank := strings.Repeat(" ", width)

	for n := first; n <= last; n++ {
		text := file.GetLine(uint32(n)) // #nosec G115 -- n is within [1, LineCount]
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprintf("%*d", width, n), p.gutter.Sprint("|"), text)
		if n != int(start.Line) {
			continue
		}
		from := int(start.Col) - 1
		to := len(text)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		fmt.Fprintf(w, " %s %s %s\n", blank, p.gutter.Sprint("|"), p.caret.Sprint(caretLine(text, from, to)))
	}
}

// caretLine builds the marker for text[from:to]. Leading blanks of the span
// are not underlined; tabs before the marker are kept so it lines up with the
// source line in the terminal.
func caretLine(text string, from, to int) string {
	from = min(max(from, 0), len(text))
	to = min(max(to, from), len(text))
	for from < to && (text[from] == ' ' || text[from] == '\t') {
		from++
	}

	var b strings.Builder
	for _, r := range text[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	n := 0
	for _, r := range text[from:to] {
		n += max(runewidth.RuneWidth(r), 1)
	}
	b.WriteByte('^')
	if n > 1 {
		b.WriteString(strings.Repeat("~", n-1))
	}
	return b.String()
}
