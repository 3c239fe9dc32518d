package patterns

import (
	"strings"
)

// TonnageFormats are tried in priority order against upper-cased text.
var TonnageFormats = []Format{
	// Example: 11t(9.6m 이상 6대), 2.5톤, 5TON
	{
		Name:    "tonnes",
		Pattern: `(?P<value>{NUM})\s*{TON}(?:\([^)]*\))?`,
		Fields:  []string{"value"},
	},
	// Example: 6파렛트, 10파레트
	{
		Name:    "pallets",
		Pattern: `(?P<value>\d+)\s*파[렛레]트`,
		Fields:  []string{"value"},
	},
	// Example: 중량 3.5
	{
		Name:    "weight",
		Pattern: `중량\s*(?P<value>{NUM})\s*{TON}?`,
		Fields:  []string{"value"},
	},
	// Example: 9.6m 이상 6대
	{
		Name:    "vehicle",
		Pattern: `(?P<length>{NUM})\s*{METRE}\s*(?:이상|이하)?\s*(?P<count>\d+)\s*대`,
		Fields:  []string{"length", "count"},
	},
}

var tonnageCompiler = MustCompile(TonnageFormats, nil)

// NormaliseTonnage reduces a requested tonnage value to its number and unit.
// Numeric matches get a 톤 suffix when the source mentions 톤 or t; a vehicle
// length and count become "<len>m <count>대". Anything else is returned trimmed.
func NormaliseTonnage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	match := tonnageCompiler.Parse(text)
	if match == nil {
		return text
	}

	if match.FormatName == "vehicle" {
		return match.GetCapture("length", "") + "m " + match.GetCapture("count", "") + "대"
	}

	value := match.GetCapture("value", "")
	if strings.Contains(text, "톤") || strings.ContainsAny(text, "tT") {
		return value + "톤"
	}
	return value
}

// TraceTonnage shows which tonnage formats match text.
func TraceTonnage(text string) *ParseTrace {
	return tonnageCompiler.ParseWithTrace(text)
}

// TraceDate shows which date and time formats match text.
func TraceDate(text string) (date, clock *ParseTrace) {
	return dateCompiler.ParseWithTrace(text), timeCompiler.ParseWithTrace(text)
}
