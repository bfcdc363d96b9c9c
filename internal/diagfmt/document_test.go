package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"shadercheck/internal/shader"
)

func TestDocumentJSON(t *testing.T) {
	doc := shader.Classify(brokenShader)

	var buf bytes.Buffer
	if err := DocumentJSONTo(&buf, "broken.gdshader", doc); err != nil {
		t.Fatal(err)
	}
	var out DocumentJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.ShaderType == nil || *out.ShaderType != "spatial" {
		t.Errorf("unexpected shader type %v", out.ShaderType)
	}
	if out.EntryPoint == nil || *out.EntryPoint != "fragment" {
		t.Errorf("unexpected entry point %v", out.EntryPoint)
	}
	if len(out.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(out.Statements))
	}
	st := out.Statements[2]
	if st.Line != 3 || st.Text != "vec3 x = vec3(1.0)" || !st.RequiresSemicolon || st.EndsWithSemicolon || st.Rule != shader.RuleAssignment {
		t.Errorf("unexpected statement %+v", st)
	}
}

func TestDocumentJSONMissingFacts(t *testing.T) {
	var buf bytes.Buffer
	if err := DocumentJSONTo(&buf, "", shader.Classify("")); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"shaderType": null`, `"entrypoint": null`, `"statements": []`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), `"path"`) {
		t.Error("empty path must be omitted")
	}
}

func TestDocumentPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := DocumentPretty(&buf, "broken.gdshader", shader.Classify(brokenShader)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"shader_type: spatial",
		"entry point: fragment",
		"LINE",
		"vec3 x = vec3(1.0)",
		shader.RuleDirective,
		"!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := DocumentPretty(&buf, "empty.gdshader", shader.Classify("")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "entry point: <none>") || !strings.Contains(buf.String(), "no statements") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
