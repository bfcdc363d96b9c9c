package diagfmt

import "shadercheck/internal/source"

// PathMode controls how a file path is printed next to a diagnostic.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // как было передано, если путь не абсолютный
	PathModeAbsolute
	PathModeRelative // относительно FileSet.BaseDir
	PathModeBasename
)

var pathModeStyles = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) format(f *source.File, fs *source.FileSet) string {
	if int(m) >= len(pathModeStyles) {
		return f.Path
	}
	base := ""
	if m == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(pathModeStyles[m], base)
}

type PrettyOpts struct {
	Color       bool
	Context     int8 // строк контекста вокруг диагностики
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
	PathMode         PathMode
	Max              int // обрезает вывод, не Bag
}

// SarifRunMeta fills the tool and invocation sections of a SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
