package fix

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"shadercheck/internal/diag"
	"shadercheck/internal/source"
)

// ErrNoFixes означает, что ни одна правка не была применена.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode selects which fixes Apply picks.
type ApplyMode uint8

const (
	// ApplyModeOnce takes the first always-safe fix, falling back to the first fix.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll takes every always-safe fix.
	ApplyModeAll
	// ApplyModeID takes only the fix whose ID equals ApplyOptions.TargetID.
	ApplyModeID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	DryRun   bool // only compute FileChange.Content
}

// AppliedFix describes one accepted fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix is a fix that was not applied and the reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the patched content of one file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

func (r *ApplyResult) skip(f diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply picks fixes out of diagnostics according to opts and patches the
// files they point at. Edit offsets are relative to the content held by fs.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{
		Applied:     []AppliedFix{},
		Skipped:     []SkippedFix{},
		FileChanges: []FileChange{},
	}
	if fs == nil {
		return res, errors.New("fix: nil file set")
	}

	cands, skipped := gatherCandidates(diagnostics)
	res.Skipped = append(res.Skipped, skipped...)
	slices.SortStableFunc(cands, compareCandidates)

	picked := pick(res, cands, opts)
	if len(picked) == 0 {
		return res, ErrNoFixes
	}

	st := newStage(fs)
	for _, c := range picked {
		if reason := st.accept(c.fix); reason != "" {
			res.skip(c.fix, reason)
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code,
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   displayPath(fs, c.diag.Primary.File),
			EditCount:     len(c.fix.Edits),
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	for _, id := range st.files {
		file := fs.Get(id)
		patched, err := patchFile(file, st.edits[id])
		if err != nil {
			return res, err
		}
		if !opts.DryRun {
			if err := overwrite(file.Path, patched); err != nil {
				return res, err
			}
		}
		res.FileChanges = append(res.FileChanges, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			EditCount: len(st.edits[id]),
			Content:   patched,
		})
	}
	slices.SortStableFunc(res.FileChanges, func(a, b FileChange) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return res, nil
}

// gatherCandidates разворачивает правки всех диагностик в порядке входа.
// Правки без edits и повторные ID отбрасываются.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		out     []candidate
		skipped []SkippedFix
	)
	seen := make(map[string]struct{})
	for _, d := range diagnostics {
		for i, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skipped = append(skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, i)
			}
			if _, dup := seen[f.ID]; dup {
				skipped = append(skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			out = append(out, candidate{diag: d, fix: f, order: len(out)})
		}
	}
	return out, skipped
}

func compareCandidates(a, b candidate) int {
	pa, pb := a.diag.Primary, b.diag.Primary
	return cmp.Or(
		cmp.Compare(pa.File, pb.File),
		cmp.Compare(pa.Start, pb.Start),
		cmp.Compare(pa.End, pb.End),
		cmp.Compare(a.order, b.order),
	)
}

func pick(res *ApplyResult, cands []candidate, opts ApplyOptions) []candidate {
	if len(cands) == 0 {
		return nil
	}
	safe := func(c candidate) bool {
		return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe
	}
	switch opts.Mode {
	case ApplyModeID:
		if i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID }); i >= 0 {
			return cands[i : i+1]
		}
		res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
		return nil
	case ApplyModeAll:
		var out []candidate
		for _, c := range cands {
			if !safe(c) {
				res.skip(c.fix, "applicability is "+c.fix.Applicability.String())
				continue
			}
			out = append(out, c)
		}
		return out
	case ApplyModeOnce:
		if i := slices.IndexFunc(cands, safe); i >= 0 {
			return cands[i : i+1]
		}
		return cands[:1]
	}
	return nil
}

// stage копит принятые правки по файлам. Правка принимается целиком или
// не принимается совсем.
type stage struct {
	fs    *source.FileSet
	edits map[source.FileID][]diag.TextEdit
	files []source.FileID
}

func newStage(fs *source.FileSet) *stage {
	return &stage{fs: fs, edits: make(map[source.FileID][]diag.TextEdit)}
}

// accept returns a skip reason, or "" once every edit of f is staged.
func (s *stage) accept(f diag.Fix) string {
	for i, e := range f.Edits {
		if reason := s.check(e); reason != "" {
			return reason
		}
		for _, earlier := range f.Edits[:i] {
			if earlier.Span.File == e.Span.File && spansConflict(earlier, e) {
				return "fix has overlapping edits"
			}
		}
	}
	for _, e := range f.Edits {
		if _, ok := s.edits[e.Span.File]; !ok {
			s.files = append(s.files, e.Span.File)
		}
		s.edits[e.Span.File] = append(s.edits[e.Span.File], e)
	}
	return ""
}

func (s *stage) check(e diag.TextEdit) string {
	if int(e.Span.File) >= s.fs.Len() {
		return "target file is unknown"
	}
	file := s.fs.Get(e.Span.File)
	switch {
	case file.Flags&source.FileVirtual != 0:
		return "target file is virtual"
	case file.Flags&source.FileNormalizedNFC != 0:
		return "file is not NFC"
	case e.Span.Start > e.Span.End || int(e.Span.End) > len(file.Content):
		return "edit span out of range"
	case e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText:
		return "existing text does not match expected content"
	}
	for _, prev := range s.edits[e.Span.File] {
		if spansConflict(prev, e) {
			return "conflicts with previously applied edits in " + file.FormatPath("auto", s.fs.BaseDir())
		}
	}
	return ""
}

// applyEdits патчит content непересекающимися правками, заданными в его
// смещениях. Вставки в одну позицию сохраняют входной порядок.
func applyEdits(content []byte, edits []diag.TextEdit) []byte {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b diag.TextEdit) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})

	out := make([]byte, 0, len(content)+len(sorted))
	var pos uint32
	for _, e := range sorted {
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	return append(out, content[pos:]...)
}

// patchFile returns the new on-disk bytes of file. Edits are given in the
// normalized content; a stripped BOM and CRLF line endings are kept by
// splicing into the raw bytes instead.
func patchFile(file *source.File, edits []diag.TextEdit) ([]byte, error) {
	if file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF) == 0 {
		return applyEdits(file.Content, edits), nil
	}
	raw, err := os.ReadFile(file.Path) // #nosec G304 -- path was loaded by the checker
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Path, err)
	}
	if content, _ := source.Normalize(raw); !bytes.Equal(content, file.Content) {
		return nil, fmt.Errorf("%s changed on disk since it was checked", file.Path)
	}
	offsets, ok := source.RawOffsets(raw)
	if !ok {
		return nil, fmt.Errorf("%s is not NFC", file.Path)
	}

	mapped := make([]diag.TextEdit, len(edits))
	for i, e := range edits {
		e.Span.Start, e.Span.End = offsets[e.Span.Start], offsets[e.Span.End]
		if file.Flags&source.FileNormalizedCRLF != 0 {
			e.NewText = strings.ReplaceAll(e.NewText, "\n", "\r\n")
		}
		mapped[i] = e
	}
	return applyEdits(raw, mapped), nil
}

// spansConflict: полуоткрытые интервалы. Две вставки не конфликтуют,
// вставка конфликтует только со span'ом, строго содержащим её позицию.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae := a.Span.Start, a.Span.End
	bs, be := b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs < as && as < be
	case bs == be:
		return as < bs && bs < ae
	}
	return as < be && bs < ae
}

func overwrite(path string, content []byte) error {
	perm := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}
	if err := os.WriteFile(path, content, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func displayPath(fs *source.FileSet, id source.FileID) string {
	if int(id) >= fs.Len() {
		return ""
	}
	return fs.Get(id).FormatPath("auto", fs.BaseDir())
}
