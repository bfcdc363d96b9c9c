package trace

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open begin/end pair. A Span is never nil; spans filtered out by
// the tracer level still measure time.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// Start opens a span under the span carried by ctx. The returned context
// carries the new span, so Start calls made with it nest below. A filtered
// span leaves ctx unchanged and its children attach to the nearest emitted
// ancestor.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	s := &Span{
		tracer:  Nop,
		parent:  CurrentSpan(ctx),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return ctx, s
	}

	s.tracer = t
	s.id = spanIDs.Add(1)
	t.Emit(&Event{
		Time:   s.started,
		Kind:   KindBegin,
		Scope:  scope,
		Span:   s.id,
		Parent: s.parent,
		Name:   name,
	})
	return context.WithValue(ctx, spanKey{}, s.id), s
}

// Set attaches an attribute reported with the end event.
func (s *Span) Set(key string, value any) *Span {
	if s.id == 0 {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[key] = fmt.Sprint(value)
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	elapsed := time.Since(s.started)
	if s.id == 0 {
		return elapsed
	}
	s.tracer.Emit(&Event{
		Time:    time.Now(),
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Detail:  detail,
		Elapsed: elapsed,
		Attrs:   s.attrs,
	})
	return elapsed
}

// ID returns the span ID, 0 for filtered spans.
func (s *Span) ID() uint64 {
	return s.id
}

// Fail reports err under the span carried by ctx. Failures are written at
// LevelError and above regardless of scope.
func Fail(ctx context.Context, scope Scope, name string, err error) {
	t := FromContext(ctx)
	if !t.Enabled() || err == nil {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindFailure,
		Scope:  scope,
		Parent: CurrentSpan(ctx),
		Name:   name,
		Detail: err.Error(),
	})
}
