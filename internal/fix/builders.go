package fix

import (
	"shadercheck/internal/diag"
	"shadercheck/internal/source"
)

// Option tweaks a fix built by InsertText. Nil options are skipped.
type Option func(*diag.Fix)

func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// WithID gives the fix the identifier `fix --id` selects it by.
func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// InsertText builds an always-safe quick fix that inserts text at at.Start;
// the rest of at is ignored.
func InsertText(title string, at source.Span, text string, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: source.At(at.File, at.Start), NewText: text}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}
