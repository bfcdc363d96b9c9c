package shader

import "slices"

var shaderTypes = []string{"spatial", "canvas_item", "particles", "sky", "fog"}

var entryPoints = []string{"vertex", "fragment", "light", "start", "process", "sky", "fog"}

// expectedEntryPoints maps a shader type to the entry points the engine calls for it.
var expectedEntryPoints = map[string][]string{
	"spatial":     {"vertex", "fragment", "light"},
	"canvas_item": {"vertex", "fragment", "light"},
	"particles":   {"start", "process"},
	"sky":         {"sky"},
	"fog":         {"fog"},
}

// ShaderTypes returns the allowed shader_type values.
func ShaderTypes() []string { return slices.Clone(shaderTypes) }

// EntryPoints returns every recognized entry-point name.
func EntryPoints() []string { return slices.Clone(entryPoints) }

// ExpectedEntryPoints returns the entry points valid for shaderType, or nil
// when the type is unknown.
func ExpectedEntryPoints(shaderType string) []string {
	return slices.Clone(expectedEntryPoints[shaderType])
}

// IsShaderType reports whether s is an allowed shader type.
func IsShaderType(s string) bool {
	return slices.Contains(shaderTypes, s)
}

// IsEntryPoint reports whether s is a recognized entry-point name.
func IsEntryPoint(s string) bool {
	return slices.Contains(entryPoints, s)
}

// Hint renders the entry-point suggestion shown for shaderType.
// Unknown or empty types fall back to the spatial/canvas_item suggestion.
func Hint(shaderType string) string {
	switch shaderType {
	case "sky":
		return "void sky()"
	case "fog":
		return "void fog()"
	case "particles":
		return "void start() or void process()"
	default:
		return "void fragment() or void vertex()"
	}
}
