package fix

import (
	"testing"

	"shadercheck/internal/diag"
	"shadercheck/internal/source"
)

func TestInsertText(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.gdshader", []byte("x = 1\n"))

	// ненулевой span схлопывается в точку вставки
	f := InsertText("insert ';'", source.Span{File: fileID, Start: 5, End: 6}, ";", WithID("semi"), Preferred(), nil)

	if f.ID != "semi" || !f.IsPreferred {
		t.Errorf("options not applied: %+v", f)
	}
	if f.Kind != diag.FixKindQuickFix || f.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("unexpected defaults: %s %s", f.Kind, f.Applicability)
	}
	if len(f.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(f.Edits))
	}
	edit := f.Edits[0]
	if edit.Span != source.At(fileID, 5) || edit.NewText != ";" || edit.OldText != "" {
		t.Errorf("unexpected edit %+v", edit)
	}
}
