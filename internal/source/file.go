package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

type (
	// FileID is the index of a file inside its FileSet.
	FileID uint32
	// FileFlags records how a file was obtained and normalized.
	FileFlags uint8
)

const (
	FileVirtual FileFlags = 1 << iota // из памяти, а не с диска
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File is one normalized shader source.
type File struct {
	ID      FileID
	Path    string // slash-separated and cleaned
	Content []byte
	LineIdx []uint32 // смещения всех '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position. Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}

func indexLines(content []byte) []uint32 {
	idx := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)) // #nosec G115 -- content length is checked by FileSet.Add
		}
	}
	return idx
}

// toLineCol: число '\n' строго до off даёт номер строки.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	before, _ := slices.BinarySearch(lineIdx, off)
	if before == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := lineIdx[before-1] + 1
	return LineCol{Line: uint32(before) + 1, Col: off - lineStart + 1} // #nosec G115 -- before <= len(lineIdx)
}

// LineCount does not count the empty line after a trailing newline.
func (f *File) LineCount() uint32 {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return mustU32(n)
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

// LineSpan returns the span of the 1-based line n without its newline.
func (f *File) LineSpan(n uint32) (Span, bool) {
	if n == 0 || n > f.LineCount() {
		return Span{File: f.ID}, false
	}
	sp := Span{File: f.ID, End: mustU32(len(f.Content))}
	if n > 1 {
		sp.Start = f.LineIdx[n-2] + 1
	}
	if int(n) <= len(f.LineIdx) {
		sp.End = f.LineIdx[n-1]
	}
	return sp, true
}

// GetLine returns line n, or "" past the end of the file.
func (f *File) GetLine(n uint32) string {
	if sp, ok := f.LineSpan(n); ok {
		return string(f.Content[sp.Start:sp.End])
	}
	return ""
}

// FormatPath renders Path in one of the styles "absolute", "relative",
// "basename" or "auto". baseDir is only consulted for "relative" and
// defaults to the working directory.
func (f *File) FormatPath(style, baseDir string) string {
	switch style {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
