// Package shader implements a lightweight static validator for GDShader-like
// source text.
//
// # Layers
//
//   - Classify turns raw text into a Document: the declared shader type, the
//     detected entry point and an ordered list of Statements. Each Statement
//     is one comment-stripped, non-blank source line tagged with whether its
//     shape demands a terminating semicolon.
//   - Validate classifies once and applies three checks in fixed order:
//     shader type, entry point, then per-statement terminators.
//
// The classifier is a heuristic line classifier, not a parser. Whether a line
// requires a semicolon is decided by an ordered rule table (see Rules); the
// first matching rule wins. Global facts (shader type, entry point) are taken
// from the first textual match in the whole source.
//
// # Guarantees
//
// Classify and Validate never fail and never panic on any input. Both are pure
// functions of their input and are safe for concurrent use.
package shader
