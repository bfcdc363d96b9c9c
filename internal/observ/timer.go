package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer collects per-phase durations of one run. Sequential phases are
// timed with Phase; work spread over goroutines is folded in with Add.
// A nil *Timer is valid and records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []phase
}

type phase struct {
	name       string
	dur        time.Duration
	count      int
	note       string
	sequential bool
}

func NewTimer() *Timer {
	return &Timer{}
}

// Phase starts a sequential phase and returns the function that ends it.
func (t *Timer) Phase(name string) (stop func(note string)) {
	if t == nil {
		return func(string) {}
	}
	start := time.Now()
	t.mu.Lock()
	t.phases = append(t.phases, phase{name: name, count: 1, sequential: true})
	idx := len(t.phases) - 1
	t.mu.Unlock()

	var once sync.Once
	return func(note string) {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.phases[idx].dur = time.Since(start)
			t.phases[idx].note = note
		})
	}
}

// Add accumulates d into the phase name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.phases {
		if t.phases[i].name == name && !t.phases[i].sequential {
			t.phases[i].dur += d
			t.phases[i].count++
			return
		}
	}
	t.phases = append(t.phases, phase{name: name, dur: d, count: 1})
}

// PhaseReport is one row of Report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases in start order. Only sequential phases count
// toward the total: accumulated ones already ran inside them.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var r Report
	var total time.Duration
	for _, p := range t.phases {
		if p.sequential {
			total += p.dur
		}
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.name,
			DurationMS: millis(p.dur),
			Count:      p.count,
			Note:       p.note,
		})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders Report for a terminal.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			fmt.Fprintf(&sb, "  // %s", p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
