// Package trace provides leveled event tracing for shadercheck.
//
// It is the toolchain's logging layer: the driver opens a span per command,
// per checked file and per pass (classify, validate), and reports failures
// as failure events.
//
// # Usage
//
//	shadercheck check --trace=- --trace-level=detail shaders/
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Failure events only
//   - LevelPhase: Driver and file spans
//   - LevelDetail: Pass spans as well
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	ctx, span := trace.Start(ctx, trace.ScopeFile, path)
//	defer span.End("")
//	trace.Fail(ctx, trace.ScopeFile, "cache", err)
package trace
