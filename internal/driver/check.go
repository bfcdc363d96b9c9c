package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"shadercheck/internal/diag"
	"shadercheck/internal/observ"
	"shadercheck/internal/shader"
	"shadercheck/internal/source"
	"shadercheck/internal/trace"
)

// Options configures a check run.
type Options struct {
	MaxDiagnostics int      // per file; 0 means unlimited
	Jobs           int      // parallel files; 0 means GOMAXPROCS
	Include        []string // doublestar patterns for directory walks
	Exclude        []string
	BaseDir        string        // for relative paths in output; "" means cwd
	Cache          *DiskCache    // optional
	Progress       ProgressSink  // optional
	Timer          *observ.Timer // optional
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Document *shader.Document // nil when served from cache or not loaded
	Result   shader.Result
	Bag      *diag.Bag
	Cached   bool
	Err      error // load failure, also reported as IO9001 in Bag
}

// Valid reports whether the file loaded and validated without errors.
func (r *FileResult) Valid() bool {
	return r.Err == nil && r.Result.Valid
}

// Result aggregates a check run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Valid reports whether every file is valid.
func (r *Result) Valid() bool {
	return r.InvalidCount() == 0
}

// InvalidCount returns the number of files with errors.
func (r *Result) InvalidCount() int {
	n := 0
	for i := range r.Files {
		if !r.Files[i].Valid() {
			n++
		}
	}
	return n
}

// Diagnostics returns the diagnostics of all files, sorted by file and position.
func (r *Result) Diagnostics() []diag.Diagnostic {
	all := diag.NewBag(0)
	for i := range r.Files {
		all.Merge(r.Files[i].Bag)
	}
	all.Sort()
	return all.Items()
}

// CheckSource validates in-memory source registered under name.
func CheckSource(ctx context.Context, name, src string, opts Options) *Result {
	fs := source.NewFileSetWithBase(opts.BaseDir)
	id := fs.AddVirtual(name, []byte(src))
	res := &Result{FileSet: fs, Files: make([]FileResult, 1)}
	res.Files[0] = checkFile(ctx, fs, id, opts)
	return res
}

// CheckPaths collects shader files under paths and validates them in
// parallel. A file that fails to load does not stop the run; it gets an
// IO9001 diagnostic instead. The returned error is reserved for failures
// of the run itself (bad patterns, unreadable directories, cancellation).
func CheckPaths(ctx context.Context, paths []string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	files, err := CollectFiles(paths, opts.Include, opts.Exclude)
	if err != nil {
		trace.Fail(ctx, trace.ScopeDriver, "collect", err)
		return nil, err
	}
	span.Set("files", len(files))

	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	result := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	// FileSet не потокобезопасен на запись: загружаем всё заранее
	stopLoad := opts.Timer.Phase("load")
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			id = fileSet.AddVirtual(path, nil)
			loadErrs[i] = err
		}
		ids[i] = id
	}
	stopLoad(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	stopCheck := opts.Timer.Phase("check")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErrs[i] != nil {
				result.Files[i] = loadFailure(gctx, fileSet, ids[i], path, loadErrs[i], opts)
				return nil
			}
			fr := checkFile(gctx, fileSet, ids[i], opts)
			fr.Path = path
			// индексы уникальны для каждой горутины, мьютекс не нужен
			result.Files[i] = fr
			return nil
		})
	}
	err = g.Wait()
	stopCheck("")
	if err != nil {
		return result, err
	}

	span.Set("invalid", result.InvalidCount())
	return result, nil
}

func loadFailure(ctx context.Context, fs *source.FileSet, id source.FileID, path string, err error, opts Options) FileResult {
	trace.Fail(ctx, trace.ScopeFile, "load", fmt.Errorf("%s: %w", path, err))
	bag := diag.NewBag(opts.MaxDiagnostics)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.At(id, 0), "failed to load file: "+err.Error()).Emit()
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return FileResult{
		Path:   path,
		FileID: id,
		Result: shader.Result{Errors: []shader.Error{}},
		Bag:    bag,
		Err:    err,
	}
}

// checkFile validates one loaded file, consulting the disk cache first.
func checkFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) FileResult {
	file := fs.Get(id)
	ctx, span := trace.Start(ctx, trace.ScopeFile, file.Path)
	started := time.Now()

	fr := FileResult{
		Path:   file.Path,
		FileID: id,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}

	var (
		ends       map[int]int
		shaderType string
		payload    CachePayload
	)
	hit, err := opts.Cache.Get(file.Hash, &payload)
	if err != nil {
		trace.Fail(ctx, trace.ScopeFile, "cache", err)
	}
	if hit {
		emit(opts.Progress, Event{File: file.Path, Stage: StageCache, Status: StatusWorking})
		fr.Result, ends = resultFromPayload(&payload)
		shaderType = payload.ShaderType
		fr.Cached = true
	} else {
		emit(opts.Progress, Event{File: file.Path, Stage: StageClassify, Status: StatusWorking})
		_, pass := trace.Start(ctx, trace.ScopePass, "classify")
		doc := shader.Classify(string(file.Content))
		opts.Timer.Add("classify", pass.End(fmt.Sprintf("%d statements", len(doc.Statements))))

		emit(opts.Progress, Event{File: file.Path, Stage: StageValidate, Status: StatusWorking})
		_, pass = trace.Start(ctx, trace.ScopePass, "validate")
		fr.Result = shader.ValidateDocument(doc)
		opts.Timer.Add("validate", pass.End(fmt.Sprintf("%d errors", len(fr.Result.Errors))))

		fr.Document = doc
		ends = codeEnds(doc)
		shaderType = doc.ShaderType
		if err := opts.Cache.Put(file.Hash, payloadFromResult(doc, fr.Result)); err != nil {
			trace.Fail(ctx, trace.ScopeFile, "cache", err)
		}
	}

	ReportResult(diag.BagReporter{Bag: fr.Bag}, file, fr.Result, ends, shaderType)

	status := StatusDone
	if !fr.Result.Valid {
		status = StatusError
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StageValidate, Status: status, Elapsed: time.Since(started)})
	span.Set("errors", len(fr.Result.Errors)).
		Set("cached", fr.Cached).
		End(string(status))
	return fr
}
