package extract

import (
	"strings"
	"time"

	"dispatch_parser/internal/patterns"
)

// Default time of day for a free-text date without a time.
const (
	DefaultHour   = 9
	DefaultMinute = 0
)

// ParseDate locates a date value and normalises it. See NormaliseDate.
func ParseDate(lines Lines, set *KeywordSet, today time.Time) string {
	return NormaliseDate(LocateValue(lines, set), today)
}

// NormaliseDate renders free date text as "YYYY-MM-DD HH:mm", defaulting the
// time to 09:00, or "YYYY-MM-DD 미정" when the time is undecided. Text with no
// resolvable calendar date is returned unchanged so no information is lost.
func NormaliseDate(text string, today time.Time) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	dt, ok := patterns.ParseDateTime(text, today)
	if !ok {
		return text
	}
	return dt.Format(DefaultHour, DefaultMinute)
}
