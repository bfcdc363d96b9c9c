package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file of one run and resolves spans against them.
// Add and Load must not race; a fully loaded set can be read concurrently.
type FileSet struct {
	files   []File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase sets the directory relative paths are rendered from.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

func (s *FileSet) SetBaseDir(dir string) { s.baseDir = dir }

// BaseDir falls back to the working directory when unset.
func (s *FileSet) BaseDir() string {
	if s.baseDir != "" {
		return s.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (s *FileSet) Len() int { return len(s.files) }

// Add stores already normalized content under a fresh FileID, even when path
// was added before.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	id, err := safecast.Conv[FileID](len(s.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: file too large: %w", path, err))
	}
	s.files = append(s.files, File{
		ID:      id,
		Path:    cleanPath(path),
		Content: content,
		LineIdx: indexLines(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// Load reads path from disk and adds its normalized content.
func (s *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- paths come from the user
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw)
	return s.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content normalized the same way Load does.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return s.Add(name, content, flags|FileVirtual)
}

func (s *FileSet) Get(id FileID) *File {
	return &s.files[id]
}

// Resolve converts both ends of span to line and column.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := s.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}
