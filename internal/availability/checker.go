// Package availability implements the client-side coordination around
// username/email uniqueness checks: one debounced request per burst of
// input, stale responses fenced off by sequence number, and transport
// failures reported as unknown rather than as an answer.
package availability

import (
	"context"
	"sync"
	"time"
)

// Status is the outcome of an availability check.
type Status int

const (
	// StatusUnknown means the question could not be answered, usually
	// because the collaborator was unreachable. It is never treated as
	// available or unavailable.
	StatusUnknown Status = iota
	StatusAvailable
	StatusUnavailable
)

// Default intervals, matching the registration form's behavior.
const (
	DefaultDebounce = 600 * time.Millisecond
	DefaultTimeout  = 5 * time.Second
)

// Result is a resolved check, tagged with the value it was issued for.
type Result struct {
	Field   string
	Value   string
	Status  Status
	Message string
}

// LookupFunc answers whether value is free to register. A non-nil
// error means the question went unanswered.
type LookupFunc func(ctx context.Context, field, value string) (available bool, message string, err error)

type fieldState struct {
	debounce *Debouncer
	seq      uint64 // fencing token; results from older seqs are dropped
}

// Checker debounces per-field availability lookups and guarantees that
// only the result matching the latest issued value reaches the caller.
// Checks for different fields are independent and may be concurrently
// in flight.
type Checker struct {
	lookup   LookupFunc
	debounce time.Duration
	timeout  time.Duration
	onResult func(Result)

	mu     sync.Mutex
	fields map[string]*fieldState
}

// NewChecker creates a Checker that reports resolved checks through
// onResult. The callback may be invoked from a timer goroutine.
func NewChecker(lookup LookupFunc, debounce, timeout time.Duration, onResult func(Result)) *Checker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		lookup:   lookup,
		debounce: debounce,
		timeout:  timeout,
		onResult: onResult,
		fields:   map[string]*fieldState{},
	}
}

func (c *Checker) field(name string) *fieldState {
	if f, ok := c.fields[name]; ok {
		return f
	}
	f := &fieldState{debounce: NewDebouncer(c.debounce)}
	c.fields[name] = f
	return f
}

// Check schedules a debounced availability lookup for field. Every
// call advances the field's fencing token, so a lookup already in
// flight for an older value resolves into the void.
func (c *Checker) Check(field, value string) {
	c.mu.Lock()
	f := c.field(field)
	f.seq++
	seq := f.seq
	c.mu.Unlock()

	f.debounce.Call(func() {
		c.run(field, value, seq)
	})
}

// Cancel drops any pending or in-flight check for field, e.g. when the
// value fell back below the minimum length.
func (c *Checker) Cancel(field string) {
	c.mu.Lock()
	f := c.field(field)
	f.seq++
	c.mu.Unlock()
	f.debounce.Cancel()
}

func (c *Checker) run(field, value string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	available, message, err := c.lookup(ctx, field, value)

	result := Result{Field: field, Value: value}
	switch {
	case err != nil:
		result.Status = StatusUnknown
		result.Message = "Could not verify " + field
	case available:
		result.Status = StatusAvailable
		result.Message = message
	default:
		result.Status = StatusUnavailable
		result.Message = message
	}

	c.mu.Lock()
	stale := c.fields[field].seq != seq
	c.mu.Unlock()
	if stale {
		return
	}
	c.onResult(result)
}
