package shader

import (
	"fmt"
	"slices"
)

// ErrorKind classifies a validation defect.
type ErrorKind uint8

const (
	MissingOrInvalidShaderType ErrorKind = iota + 1
	MissingOrInvalidEntryPoint
	MissingStatementTerminator
)

func (k ErrorKind) String() string {
	switch k {
	case MissingOrInvalidShaderType:
		return "MissingOrInvalidShaderType"
	case MissingOrInvalidEntryPoint:
		return "MissingOrInvalidEntryPoint"
	case MissingStatementTerminator:
		return "MissingStatementTerminator"
	default:
		return "Unknown"
	}
}

// Error is a single reported defect.
type Error struct {
	Line    int
	Message string
	Kind    ErrorKind
}

// Result is the outcome of Validate. Valid is true iff Errors is empty.
type Result struct {
	Valid  bool
	Errors []Error
}

const (
	msgShaderType = "Missing or invalid shader_type declaration (e.g. shader_type spatial;)."
	msgTerminator = "Expected ';' at end of statement."
)

func entryPointMessage(shaderType string) string {
	return fmt.Sprintf("Missing or invalid entrypoint (e.g. %s).", Hint(shaderType))
}

// Validate classifies src and checks it.
func Validate(src string) Result {
	return ValidateDocument(Classify(src))
}

// ValidateDocument runs the structural checks over an already classified
// document. Checks never short-circuit each other; errors are ordered as
// shader type, entry point, then statements in source order.
func ValidateDocument(doc *Document) Result {
	if doc == nil {
		doc = &Document{}
	}
	errs := make([]Error, 0, 2)

	if !IsShaderType(doc.ShaderType) {
		errs = append(errs, Error{Line: 1, Kind: MissingOrInvalidShaderType, Message: msgShaderType})
	}

	if !entryPointAllowed(doc.ShaderType, doc.EntryPoint) {
		errs = append(errs, Error{Line: 1, Kind: MissingOrInvalidEntryPoint, Message: entryPointMessage(doc.ShaderType)})
	}

	for _, st := range doc.Statements {
		if st.MissingTerminator() {
			errs = append(errs, Error{Line: st.Line, Kind: MissingStatementTerminator, Message: msgTerminator})
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// entryPointAllowed checks membership in the global set and, for a known
// shader type, in that type's expected set.
func entryPointAllowed(shaderType, entryPoint string) bool {
	if !IsEntryPoint(entryPoint) {
		return false
	}
	expected, ok := expectedEntryPoints[shaderType]
	if !ok {
		return true
	}
	return slices.Contains(expected, entryPoint)
}
