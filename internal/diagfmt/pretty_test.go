package diagfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"shadercheck/internal/diag"
	"shadercheck/internal/driver"
	"shadercheck/internal/source"
)

const brokenShader = "shader_type spatial;\n" +
	"void fragment() {\n" +
	"\tvec3 x = vec3(1.0) // tint\n" +
	"\tALBEDO = x;\n" +
	"}\n"

func checkBag(t *testing.T, name, src string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	res := driver.CheckSource(context.Background(), name, src, driver.Options{})
	bag := diag.NewBag(0)
	for i := range res.Files {
		bag.Merge(res.Files[i].Bag)
	}
	bag.Sort()
	return bag, res.FileSet
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/shaders/water.gdshader", []byte("void fragment() {\n}\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.ShdInvalidShaderType, source.Span{File: fileID, Start: 0, End: 17},
		"Missing or invalid shader_type declaration (e.g. shader_type spatial;)."))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/shaders/water.gdshader:1:1"},
		{"Relative path", PathModeRelative, "shaders/water.gdshader:1:1"},
		{"Basename only", PathModeBasename, "water.gdshader:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "SHD1001", "shader_type spatial;"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	bag, fs := checkBag(t, "broken.gdshader", brokenShader)
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	want := []string{
		"broken.gdshader:3:1: ERROR SHD2001: Expected ';' at end of statement.",
		" 2 | void fragment() {",
		" 3 | \tvec3 x = vec3(1.0) // tint",
		"   | \t^~~~~~~~~~~~~~~~~~~~~~~~~~",
		" 4 | \tALBEDO = x;",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\nwant %q\ngot  %q", i, want[i], lines[i])
		}
	}
}

func TestPrettyNotesFixesPreview(t *testing.T) {
	bag, fs := checkBag(t, "broken.gdshader", brokenShader)

	var plain bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	if strings.Contains(plain.String(), "= fix:") {
		t.Errorf("fixes must be hidden unless requested:\n%s", plain.String())
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true, ShowPreview: true})
	output := buf.String()
	for _, want := range []string{
		"= fix: insert ';' [insert-semicolon@broken.gdshader:3]",
		"- \tvec3 x = vec3(1.0) // tint",
		"+ \tvec3 x = vec3(1.0); // tint",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs := checkBag(t, "sky.gdshader", "shader_type sky;\nvoid fragment() {\n}\n")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "= note: shader_type sky expects one of: sky") {
		t.Errorf("expected entry point note, got:\n%s", buf.String())
	}
}

func TestPrettyEmptyFile(t *testing.T) {
	bag, fs := checkBag(t, "empty.gdshader", "")
	if bag.Len() != 2 {
		t.Fatalf("expected two diagnostics, got %d", bag.Len())
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 2})
	output := buf.String()
	if strings.Contains(output, "|") {
		t.Errorf("empty file must not render a snippet:\n%s", output)
	}
	if !strings.Contains(output, "empty.gdshader:1:1: ERROR SHD1001") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := checkBag(t, "broken.gdshader", brokenShader)

	var colored, plain bytes.Buffer
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	Pretty(&plain, bag, fs, PrettyOpts{Color: false})

	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("expected ANSI sequences with Color enabled")
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("unexpected ANSI sequences with Color disabled")
	}
}

func TestCaretLine(t *testing.T) {
	tests := []struct {
		text     string
		from, to int
		want     string
	}{
		{"abc", 0, 3, "^~~"},
		{"\t\tx = 1", 0, 7, "\t\t^~~~~"},
		{"  y", 0, 3, "  ^"},
		{"", 0, 0, "^"},
		{"日本 = 1", 0, 3, "^~"},
		{"a = 日本", 4, 10, "    ^~~~"},
		{"abc", 5, 9, "   ^"},
	}

	for _, tt := range tests {
		if got := caretLine(tt.text, tt.from, tt.to); got != tt.want {
			t.Errorf("caretLine(%q, %d, %d) = %q, want %q", tt.text, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPrettyDroppedDiagnostics(t *testing.T) {
	res := driver.CheckSource(context.Background(), "limit.gdshader", "float a = 1.0\n", driver.Options{MaxDiagnostics: 1})
	bag := diag.NewBag(0)
	bag.Merge(res.Files[0].Bag)

	var buf bytes.Buffer
	Pretty(&buf, bag, res.FileSet, PrettyOpts{})
	if !strings.HasSuffix(buf.String(), "\nnote: 2 more diagnostic(s) not shown (raise --max-diagnostics)\n") {
		t.Errorf("expected dropped note, got:\n%s", buf.String())
	}
}
