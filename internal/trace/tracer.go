package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Tracer receives events from Start, End and Fail. Implementations must be
// safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error // flushes first
	Level() Level
	Enabled() bool
}

// Config describes where and how New writes events.
type Config struct {
	Level      Level
	Format     Format    // FormatAuto: по расширению OutputPath
	Output     io.Writer // wins over OutputPath
	OutputPath string    // "" or "-" is stderr
}

var formatByExt = map[string]Format{
	".ndjson": FormatNDJSON,
	".jsonl":  FormatNDJSON,
}

// New returns Nop for LevelOff and a StreamTracer otherwise.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatByExt[filepath.Ext(cfg.OutputPath)]
	}

	w := cfg.Output
	switch {
	case w != nil:
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		w = keepOpen{os.Stderr}
	default:
		f, err := os.Create(cfg.OutputPath) // #nosec G304 -- path comes from --trace
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		w = f
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

// keepOpen hides Close of a writer the tracer does not own.
type keepOpen struct{ io.Writer }

// Nop drops everything.
var Nop Tracer = nop{}

type nop struct{}

func (nop) Emit(*Event)   {}
func (nop) Flush() error  { return nil }
func (nop) Close() error  { return nil }
func (nop) Level() Level  { return LevelOff }
func (nop) Enabled() bool { return false }
