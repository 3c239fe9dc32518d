package extract

// Source tags how much a rule's label can be trusted for its field.
type Source string

const (
	// SourceCombined labels name the field together with its pair,
	// e.g. "상차지 주소 / 업체명".
	SourceCombined Source = "combined_label"
	// SourceDedicated labels name exactly one field, e.g. "상차지 주소".
	SourceDedicated Source = "dedicated_label"
)

// Rule is one way of extracting a field. Rules for a field are tried in order.
type Rule struct {
	Name   string
	Source Source
	Apply  func(Lines) string
}

// Outcome records the result of one rule for the trace.
type Outcome struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Source  Source `json:"source"`
	Value   string `json:"value,omitempty"`
	Matched bool   `json:"matched"`
}

// Evaluate applies rules in order and returns the first non-empty value along
// with the outcome of every rule tried.
func Evaluate(field string, lines Lines, rules []Rule) (string, []Outcome) {
	trace := make([]Outcome, 0, len(rules))
	for _, r := range rules {
		v := r.Apply(lines)
		trace = append(trace, Outcome{Field: field, Rule: r.Name, Source: r.Source, Value: v, Matched: v != ""})
		if v != "" {
			return v, trace
		}
	}
	return "", trace
}
