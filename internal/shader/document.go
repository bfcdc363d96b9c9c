package shader

// Statement is one classified, comment-stripped, non-blank source line.
type Statement struct {
	Line              int // 1-based, original numbering
	Text              string
	RequiresSemicolon bool
	EndsWithSemicolon bool
	Rule              string // name of the rule that decided RequiresSemicolon
	CodeEnd           int    // byte offset in the raw line just past the last code byte
}

// MissingTerminator reports whether the statement needs a `;` it does not have.
func (s Statement) MissingTerminator() bool {
	return s.RequiresSemicolon && !s.EndsWithSemicolon
}

// Document is the classified view of a shader source.
// Empty ShaderType or EntryPoint means the fact was not found.
type Document struct {
	ShaderType string
	EntryPoint string
	Statements []Statement
}

// HasShaderType reports whether a shader_type declaration was found.
func (d *Document) HasShaderType() bool {
	return d != nil && d.ShaderType != ""
}

// HasEntryPoint reports whether a recognized entry point was found.
func (d *Document) HasEntryPoint() bool {
	return d != nil && d.EntryPoint != ""
}
