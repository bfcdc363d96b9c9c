package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("water.gdshader", []byte("shader_type spatial;"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// Тот же путь с новым содержимым получает новый ID
	id2 := fs.Add("water.gdshader", []byte("shader_type sky;"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	if got := fs.Get(fs.Add("./shaders//fog.gdshader", nil, 0)).Path; got != "shaders/fog.gdshader" {
		t.Errorf("Expected cleaned path, got %q", got)
	}

	if got := string(fs.Get(id1).Content); got != "shader_type spatial;" {
		t.Errorf("Expected first content to survive, got %q", got)
	}
	if fs.Len() != 3 {
		t.Errorf("Expected 3 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.gdshader", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", file.LineCount())
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.gdshader", []byte("first\nsecond\n\nfourth"))
	file := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, ""},
		{4, "fourth"},
		{5, ""},
	}
	for _, tt := range tests {
		if got := file.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}

	if _, ok := file.LineSpan(5); ok {
		t.Error("LineSpan past the last line must fail")
	}
	sp, ok := file.LineSpan(2)
	if !ok || sp.Start != 6 || sp.End != 12 {
		t.Errorf("LineSpan(2) = %v (ok=%v), want 6-12", sp, ok)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.gdshader", []byte("ab\ncd\n"))

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Errorf("unexpected resolve result %v %v", start, end)
	}

	// the '\n' offset itself stays on its own line
	at, _ := fs.Resolve(At(id, 2))
	if at != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("expected 1:3 for end-of-line offset, got %v", at)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.gdshader")
	content := []byte("\xEF\xBB\xBFshader_type spatial;\r\nvoid fragment() {}\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "shader_type spatial;\nvoid fragment() {}\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", file.Flags)
	}
	if file.Flags&FileVirtual != 0 {
		t.Error("loaded file must not be virtual")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.gdshader")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
