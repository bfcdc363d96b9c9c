package driver

import (
	"context"
	"fmt"

	"shadercheck/internal/shader"
	"shadercheck/internal/source"
	"shadercheck/internal/trace"
)

// ClassifyResult is the classified view of one file.
type ClassifyResult struct {
	FileSet  *source.FileSet
	FileID   source.FileID
	Document *shader.Document
}

// ClassifyFile loads path and classifies it without validating.
func ClassifyFile(ctx context.Context, path string) (*ClassifyResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, path)
	defer span.End("")

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		trace.Fail(ctx, trace.ScopeFile, "load", err)
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	doc := shader.Classify(string(fs.Get(id).Content))
	span.Set("statements", len(doc.Statements))
	return &ClassifyResult{FileSet: fs, FileID: id, Document: doc}, nil
}
