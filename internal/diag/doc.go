// Package diag defines the diagnostic model shared by the checker, the
// renderers and the fix engine.
//
// A Diagnostic carries a Severity, a stable Code (rendered as SHD1001,
// IO9001, ...), a human readable Message, the primary source.Span, optional
// Notes and optional Fix suggestions. Fixes are plain data: a list of
// TextEdit values in source coordinates, with OldText acting as a guard that
// internal/fix checks before touching a file.
//
// Producers emit through a Reporter (usually BagReporter) or a ReportBuilder;
// consumers read a Bag, which enforces a limit, counts what it dropped and
// sorts by position.
// The package performs no IO and no formatting beyond FormatShortDiagnostics,
// which exists so tests and the short CLI output share one stable layout.
package diag
