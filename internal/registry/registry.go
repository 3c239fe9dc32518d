// Package registry provides a strategy registry for dispatching dispatch
// requests to extraction strategies in priority order.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"dispatch_parser/internal/dispatch"
)

// ErrNoStrategy is returned when no registered strategy produced a record.
var ErrNoStrategy = errors.New("no strategy produced a record")

// Strategy is implemented by each way of turning a request into a record.
type Strategy interface {
	// Name returns the strategy's unique identifier.
	Name() string

	// QuickCheck performs a cheap check before Parse.
	// Returns false when the strategy is definitely not applicable.
	QuickCheck(req *dispatch.Request) bool

	// Priority determines dispatch order. Lower number = tried first.
	Priority() int

	// Parse attempts to parse the request. An error hands the request on to
	// the next strategy.
	Parse(ctx context.Context, req *dispatch.Request) (*dispatch.Record, error)
}

// Attempt records what happened when a strategy was tried.
type Attempt struct {
	Strategy string `json:"strategy"`
	Skipped  bool   `json:"skipped,omitempty"`
	Err      error  `json:"-"`
}

// Outcome is the result of DispatchFirst.
type Outcome struct {
	Record   *dispatch.Record
	Strategy string    // Name of the strategy that produced Record.
	Attempts []Attempt // Every strategy tried, in order.
}

// Registry holds strategies organised for ordered dispatch.
type Registry struct {
	mu sync.RWMutex

	// strategies are tried in Priority order.
	strategies []Strategy

	// catchAll strategies run only when every other strategy failed.
	catchAll []Strategy

	sorted bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{}
}

// Register adds a strategy to the registry.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
	r.sorted = false
}

// RegisterCatchAll adds a strategy that runs when nothing else succeeded.
func (r *Registry) RegisterCatchAll(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catchAll = append(r.catchAll, s)
	r.sorted = false
}

// Sort sorts strategies by priority. Call before dispatching.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sorted {
		return
	}

	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority() < r.strategies[j].Priority()
	})
	sort.SliceStable(r.catchAll, func(i, j int) bool {
		return r.catchAll[i].Priority() < r.catchAll[j].Priority()
	})

	r.sorted = true
}

// DispatchFirst returns the record of the first strategy that succeeds.
// Catch-all strategies skip QuickCheck.
func (r *Registry) DispatchFirst(ctx context.Context, req *dispatch.Request) (*Outcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Outcome{}

	try := func(s Strategy, check bool) bool {
		if check && !s.QuickCheck(req) {
			out.Attempts = append(out.Attempts, Attempt{Strategy: s.Name(), Skipped: true})
			return false
		}
		rec, err := safeParse(ctx, s, req)
		if err == nil && rec == nil {
			err = fmt.Errorf("%s: no record", s.Name())
		}
		out.Attempts = append(out.Attempts, Attempt{Strategy: s.Name(), Err: err})
		if err != nil {
			return false
		}
		out.Record = rec
		out.Strategy = s.Name()
		return true
	}

	for _, s := range r.strategies {
		if try(s, true) {
			return out, nil
		}
	}
	for _, s := range r.catchAll {
		if try(s, false) {
			return out, nil
		}
	}

	return out, ErrNoStrategy
}

// safeParse turns a panicking strategy into an error so the next one runs.
func safeParse(ctx context.Context, s Strategy, req *dispatch.Request) (rec *dispatch.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, fmt.Errorf("%s: panic: %v", s.Name(), p)
		}
	}()
	return s.Parse(ctx, req)
}

// Count returns the number of registered strategies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies) + len(r.catchAll)
}

// AllStrategies returns every registered strategy in dispatch order.
func (r *Registry) AllStrategies() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Strategy, 0, len(r.strategies)+len(r.catchAll))
	out = append(out, r.strategies...)
	out = append(out, r.catchAll...)
	return out
}
