// Package registry provides tracing interfaces for strategy debugging.
package registry

import "dispatch_parser/internal/dispatch"

// TraceResult contains trace information from a strategy's attempt to parse a request.
type TraceResult struct {
	StrategyName string           `json:"strategy"`
	QuickCheck   *QuickCheck      `json:"quick_check,omitempty"`
	Formats      []FormatTrace    `json:"formats,omitempty"`    // Normalisation pattern attempts.
	Extractors   []Extractor      `json:"extractors,omitempty"` // Field rule results.
	Record       *dispatch.Record `json:"record,omitempty"`
	Matched      bool             `json:"matched"`
}

// QuickCheck contains the result of a strategy's quick check.
type QuickCheck struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// FormatTrace contains debug information about a format/pattern match attempt.
type FormatTrace struct {
	Field    string            `json:"field"`
	Name     string            `json:"name"`
	Matched  bool              `json:"matched"`
	Pattern  string            `json:"pattern,omitempty"`
	Captures map[string]string `json:"captures,omitempty"`
}

// Extractor contains debug information about one field rule.
type Extractor struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Source  string `json:"source"`
	Matched bool   `json:"matched"`
	Value   string `json:"value,omitempty"`
}

// Traceable is implemented by strategies that support debug tracing.
// This allows the trace command to show which rule produced each field.
type Traceable interface {
	ParseWithTrace(req *dispatch.Request) *TraceResult
}
