package trace

import "time"

// Kind отличает открытие и закрытие span'а от мгновенной ошибки.
type Kind uint8

const (
	KindBegin   Kind = iota + 1
	KindEnd          // Elapsed is set
	KindFailure      // no span of its own
)

var kindNames = [...]struct{ name, mark string }{
	KindBegin:   {"begin", "+"},
	KindEnd:     {"end", "-"},
	KindFailure: {"failure", "!"},
}

func (k Kind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k].name
}

// mark prefixes the name in the text format.
func (k Kind) mark() string {
	if k == 0 || int(k) >= len(kindNames) {
		return "?"
	}
	return kindNames[k].mark
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command
	ScopeFile                    // one shader file
	ScopePass                    // classify or validate of one file
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeFile: "file", ScopePass: "pass"}

func (s Scope) String() string {
	if s == 0 || int(s) >= len(scopeNames) {
		return "unknown"
	}
	return scopeNames[s]
}

// Event is a single trace record.
type Event struct {
	Time    time.Time
	Seq     uint64 // assigned by the tracer on emit
	Kind    Kind
	Scope   Scope
	Span    uint64 // 0 for failures
	Parent  uint64 // enclosing span, 0 at the root
	Name    string // "check", a file path, "classify", "validate"...
	Detail  string
	Elapsed time.Duration
	Attrs   map[string]string
}
