// Package engine assembles dispatch records from free text or pre-split form
// fields, choosing between the delegated and keyword strategies.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/keywords"
	"dispatch_parser/internal/llm"
	"dispatch_parser/internal/parsers/delegated"
	"dispatch_parser/internal/parsers/keyword"
	"dispatch_parser/internal/registry"
)

// StrategyPreSplit names records built from discrete form fields.
const StrategyPreSplit = "presplit"

// Observer receives parse events, typically for metrics.
type Observer interface {
	ObserveParse(strategy string, state dispatch.State, elapsed time.Duration)
	ObserveFallback(reason string)
	ObserveValidationFailure(fields []string)
}

type nopObserver struct{}

func (nopObserver) ObserveParse(string, dispatch.State, time.Duration) {}
func (nopObserver) ObserveFallback(string)                             {}
func (nopObserver) ObserveValidationFailure([]string)                  {}

// Result is a parsed record with how it was produced.
type Result struct {
	Record   *dispatch.Record `json:"record"`
	Strategy string           `json:"strategy"`
	State    dispatch.State   `json:"state"`
	States   []dispatch.State `json:"states"` // Every state the parse passed through, in order.
	Missing  []string         `json:"missing,omitempty"`
}

// progress records state transitions for one parse.
type progress struct {
	states []dispatch.State
}

func newProgress() *progress {
	return &progress{states: []dispatch.State{dispatch.StateIdle}}
}

func (p *progress) advance(s dispatch.State) {
	p.states = append(p.states, s)
}

func (p *progress) current() dispatch.State {
	return p.states[len(p.states)-1]
}

// Engine parses dispatch requests. It is safe for concurrent use; the only
// shared state is the read-only compiled keyword table.
type Engine struct {
	table    *keywords.Compiled
	registry *registry.Registry
	keyword  *keyword.Parser
	delegate delegated.Completer
	logger   zerolog.Logger
	observer Observer
	now      func() time.Time
	loc      *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelegate enables the delegated strategy ahead of keyword parsing.
func WithDelegate(c delegated.Completer) Option {
	return func(e *Engine) { e.delegate = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver sets the parse event observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithClock sets the clock used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the time zone relative dates are resolved in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New creates an engine over a compiled keyword table.
func New(table *keywords.Compiled, opts ...Option) *Engine {
	e := &Engine{
		table:    table,
		logger:   zerolog.Nop(),
		observer: nopObserver{},
		now:      time.Now,
		loc:      time.Local,
	}
	for _, o := range opts {
		o(e)
	}

	e.keyword = keyword.New(table, keyword.WithClock(e.now), keyword.WithLocation(e.loc))
	e.registry = registry.New()
	if e.delegate != nil {
		e.registry.Register(delegated.New(e.delegate))
	}
	e.registry.RegisterCatchAll(e.keyword)
	e.registry.Sort()

	return e
}

// Strategies returns the registered strategy names in dispatch order.
func (e *Engine) Strategies() []string {
	all := e.registry.AllStrategies()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name())
	}
	return names
}

func (e *Engine) today() time.Time {
	return e.now().In(e.loc)
}

// ParseText parses a free-text request. A failing delegated strategy falls
// back to keyword parsing without surfacing an error.
func (e *Engine) ParseText(ctx context.Context, req *dispatch.Request) (*Result, error) {
	if req == nil {
		return nil, dispatch.ErrNoInput
	}
	start := time.Now()
	prog := newProgress()

	out, err := e.registry.DispatchFirst(ctx, req)
	for _, a := range out.Attempts {
		if a.Err == nil {
			continue
		}
		reason := fallbackReason(a.Err)
		e.logger.Warn().
			Err(a.Err).
			Str("strategy", a.Strategy).
			Str("contract_no", req.ContractNo).
			Str("reason", reason).
			Msg("strategy failed, falling back")
		e.observer.ObserveFallback(reason)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", req.ContractNo, err)
	}

	// Strategies locate and normalise every field in one pass.
	prog.advance(dispatch.StateLocated)
	prog.advance(dispatch.StateNormalised)
	res := newResult(out.Record, out.Strategy, prog)
	e.observer.ObserveParse(res.Strategy, res.State, time.Since(start))
	e.logger.Debug().
		Str("contract_no", req.ContractNo).
		Str("strategy", res.Strategy).
		Str("state", string(res.State)).
		Strs("missing", res.Missing).
		Msg("parsed request")
	return res, nil
}

// Trace runs the keyword strategy with a per-field rule trace.
func (e *Engine) Trace(req *dispatch.Request) *registry.TraceResult {
	return e.keyword.ParseWithTrace(req)
}

// newResult assembles the result and settles the terminal state.
func newResult(rec *dispatch.Record, strategy string, prog *progress) *Result {
	res := &Result{Record: rec, Strategy: strategy, Missing: rec.Missing()}
	prog.advance(dispatch.StateAssembled)
	if len(res.Missing) > 0 {
		prog.advance(dispatch.StateDegraded)
	} else {
		prog.advance(dispatch.StateSuccess)
	}
	res.State = prog.current()
	res.States = prog.states
	return res
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, llm.ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
