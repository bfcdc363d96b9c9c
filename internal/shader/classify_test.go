package shader

import (
	"strings"
	"testing"
)

func TestClassifyGlobalFacts(t *testing.T) {
	src := "shader_type canvas_item;\n" +
		"render_mode blend_mix;\n" +
		"void vertex() {\n" +
		"}\n" +
		"void fragment() {\n" +
		"}\n"

	doc := Classify(src)
	if doc.ShaderType != "canvas_item" {
		t.Errorf("expected shader type canvas_item, got %q", doc.ShaderType)
	}
	// first match in source order wins
	if doc.EntryPoint != "vertex" {
		t.Errorf("expected entry point vertex, got %q", doc.EntryPoint)
	}
	if !doc.HasShaderType() || !doc.HasEntryPoint() {
		t.Error("expected both global facts to be present")
	}
}

func TestClassifyEmpty(t *testing.T) {
	for _, src := range []string{"", "\n\n", "   \t\n// only a comment\n/* block */\n"} {
		doc := Classify(src)
		if doc.HasShaderType() || doc.HasEntryPoint() {
			t.Errorf("Classify(%q): expected no global facts, got %+v", src, doc)
		}
		if len(doc.Statements) != 0 {
			t.Errorf("Classify(%q): expected no statements, got %d", src, len(doc.Statements))
		}
	}
}

func TestClassifyShaderTypeNeedsSemicolon(t *testing.T) {
	doc := Classify("shader_type spatial\nvoid fragment() {}\n")
	if doc.HasShaderType() {
		t.Errorf("expected no shader type without `;`, got %q", doc.ShaderType)
	}
}

func TestClassifyScansRawSource(t *testing.T) {
	// Global facts come from the unprocessed text, comments included.
	doc := Classify("// shader_type sky;\n// void sky() {}\n")
	if doc.ShaderType != "sky" || doc.EntryPoint != "sky" {
		t.Errorf("expected sky/sky from raw text, got %q/%q", doc.ShaderType, doc.EntryPoint)
	}
	if len(doc.Statements) != 0 {
		t.Errorf("expected comment lines to be dropped, got %d statements", len(doc.Statements))
	}
}

func TestClassifyPreservesLineNumbers(t *testing.T) {
	src := strings.Join([]string{
		"shader_type spatial;",
		"",
		"// comment",
		"void fragment() {",
		"    /* note */",
		"    ALBEDO = vec3(1.0);",
		"}",
	}, "\n")

	doc := Classify(src)
	wantLines := []int{1, 4, 6, 7}
	if len(doc.Statements) != len(wantLines) {
		t.Fatalf("expected %d statements, got %d: %+v", len(wantLines), len(doc.Statements), doc.Statements)
	}
	for i, st := range doc.Statements {
		if st.Line != wantLines[i] {
			t.Errorf("statement %d: expected line %d, got %d", i, wantLines[i], st.Line)
		}
	}
	if got := doc.Statements[2].Text; got != "ALBEDO = vec3(1.0);" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestClassifyStripsComments(t *testing.T) {
	src := "shader_type spatial;\n" +
		"void fragment() {\n" +
		"    ALBEDO = vec3(1.0); // trailing note\n" +
		"    float a /* inline */ = 1.0;\n" +
		"}\n"

	doc := Classify(src)
	texts := make([]string, 0, len(doc.Statements))
	for _, st := range doc.Statements {
		texts = append(texts, st.Text)
	}
	want := []string{
		"shader_type spatial;",
		"void fragment() {",
		"ALBEDO = vec3(1.0);",
		"float a  = 1.0;",
		"}",
	}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected statements:\nwant: %q\ngot:  %q", want, texts)
	}
}

func TestClassifyMultiLineBlockComment(t *testing.T) {
	src := "shader_type spatial;\n" +
		"/*\n" +
		"ALBEDO = vec3(1.0)\n" +
		"return x\n" +
		"*/ float y = 2.0;\n" +
		"void fragment() {\n" +
		"}\n"

	doc := Classify(src)
	for _, st := range doc.Statements {
		if st.Line == 3 || st.Line == 4 {
			t.Errorf("line %d is inside a block comment and must be dropped", st.Line)
		}
	}
	var found bool
	for _, st := range doc.Statements {
		if st.Line == 5 {
			found = true
			if st.Text != "float y = 2.0;" {
				t.Errorf("expected code after the comment close, got %q", st.Text)
			}
		}
	}
	if !found {
		t.Error("expected a statement for line 5")
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		line    string
		inBlock bool
		want    string
		wantEnd int
		wantIn  bool
	}{
		{"a = 1; // c", false, "a = 1; ", 6, false},
		{"a /* b */ c", false, "a  c", 11, false},
		{"a /* open", false, "a ", 1, true},
		{"still inside", true, "", 0, true},
		{"end */ b = 2;", true, " b = 2;", 13, false},
		{"/* x */ // y", false, " ", 0, false},
		{"// /* not a block", false, "", 0, false},
		{`#include "res://lib.gdshaderinc" // c`, false, `#include "res://lib.gdshaderinc" `, 32, false},
		{"x = a / b;", false, "x = a / b;", 10, false},
		// незакрытая кавычка держит // до конца строки
		{`x = "abc // c`, false, `x = "abc // c`, 13, false},
		{"\tx = 1\t  ", false, "\tx = 1\t  ", 6, false},
	}

	for _, tt := range tests {
		got, gotEnd, gotIn := stripComments(tt.line, tt.inBlock)
		if got != tt.want || gotEnd != tt.wantEnd || gotIn != tt.wantIn {
			t.Errorf("stripComments(%q, %v) = (%q, %d, %v), want (%q, %d, %v)",
				tt.line, tt.inBlock, got, gotEnd, gotIn, tt.want, tt.wantEnd, tt.wantIn)
		}
	}
}

func TestClassifyCodeEnd(t *testing.T) {
	doc := Classify("shader_type spatial;\nvoid fragment() {\n\tALBEDO = vec3(1.0) // tint\n}\n")
	st := doc.Statements[2]
	if st.Line != 3 || st.CodeEnd != len("\tALBEDO = vec3(1.0)") {
		t.Errorf("unexpected code end %d for %+v", st.CodeEnd, st)
	}
}

func TestClassifyCRLF(t *testing.T) {
	doc := Classify("shader_type fog;\r\nvoid fog() {\r\n\tFOG = vec4(1.0)\r\n}\r\n")
	if doc.ShaderType != "fog" || doc.EntryPoint != "fog" {
		t.Fatalf("unexpected facts %q/%q", doc.ShaderType, doc.EntryPoint)
	}
	st := doc.Statements[2]
	if st.Line != 3 || st.Text != "FOG = vec4(1.0)" || !st.MissingTerminator() {
		t.Errorf("unexpected statement %+v", st)
	}
}
