package patterns

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormats are tried in priority order; the first matching format wins.
var DateFormats = []Format{
	// Example: 20250527
	{
		Name:    "yyyymmdd",
		Pattern: `{NB}(?P<year>{YEAR4})(?P<month>\d{2})(?P<day>\d{2}){NE}`,
		Fields:  []string{"year", "month", "day"},
	},
	// Example: 25.05.27 (화요일)
	{
		Name:    "yy_dot",
		Pattern: `{NB}(?P<yy>{YEAR2})\.\s*(?P<month>{MONTH})\.\s*(?P<day>{DAY}){NE}`,
		Fields:  []string{"yy", "month", "day"},
	},
	// Example: 2025.05.27, 2025. 11. 14
	{
		Name:    "yyyy_dot",
		Pattern: `{NB}(?P<year>{YEAR4})\.\s*(?P<month>{MONTH})\.\s*(?P<day>{DAY}){NE}`,
		Fields:  []string{"year", "month", "day"},
	},
	// Example: 2025/05/27
	{
		Name:    "yyyy_slash",
		Pattern: `{NB}(?P<year>{YEAR4})/(?P<month>{MONTH})/(?P<day>{DAY}){NE}`,
		Fields:  []string{"year", "month", "day"},
	},
	// Example: 5/27 (current year)
	{
		Name:    "m_slash_d",
		Pattern: `{NB}(?P<month>{MONTH})/(?P<day>{DAY}){NE}`,
		Fields:  []string{"month", "day"},
	},
	// Example: 2025년 5월 27일
	{
		Name:    "korean_ymd",
		Pattern: `(?P<year>{YEAR4})\s*년\s*(?P<month>{MONTH})\s*월\s*(?P<day>{DAY})\s*일`,
		Fields:  []string{"year", "month", "day"},
	},
	// Example: 5월 27일 (current year)
	{
		Name:    "korean_md",
		Pattern: `(?P<month>{MONTH})\s*월\s*(?P<day>{DAY})\s*일`,
		Fields:  []string{"month", "day"},
	},
	// Example: 2025-05-27
	{
		Name:    "iso",
		Pattern: `(?P<year>{YEAR4})-(?P<month>{MONTH})-(?P<day>{DAY})`,
		Fields:  []string{"year", "month", "day"},
	},
}

// TimeFormats are tried in priority order. Meridiem forms come first so that
// "오후 2시" is read as 14:00 rather than 02:00.
var TimeFormats = []Format{
	// Example: 오전 9:00:00
	{
		Name:    "meridiem_clock",
		Pattern: `(?P<meridiem>{MERIDIEM})\s*(?P<hour>{HOUR}):(?P<minute>{MIN})`,
		Fields:  []string{"meridiem", "hour", "minute"},
	},
	// Example: 오전 9시, 오후 2시 30분, 오후 3
	{
		Name:    "meridiem_hour",
		Pattern: `(?P<meridiem>{MERIDIEM})\s*(?P<hour>{HOUR})(?:\s*시(?:\s*(?P<minute>\d{1,2})\s*분)?)?`,
		Fields:  []string{"meridiem", "hour", "minute"},
	},
	// Example: 14:30
	{
		Name:    "clock",
		Pattern: `(?P<hour>{HOUR}):(?P<minute>{MIN})`,
		Fields:  []string{"hour", "minute"},
	},
	// Example: 14시, 14시 30분
	{
		Name:    "korean_hour",
		Pattern: `(?P<hour>{HOUR})\s*시(?:\s*(?P<minute>\d{1,2})\s*분)?`,
		Fields:  []string{"hour", "minute"},
	},
}

var (
	dateCompiler = MustCompile(DateFormats, nil)
	timeCompiler = MustCompile(TimeFormats, nil)
)

// Undecided marks a date whose time has not been fixed yet.
const Undecided = "미정"

// DateTime is a resolved calendar date with an optional time of day.
type DateTime struct {
	Year, Month, Day int
	Hour, Minute     int
	HasTime          bool
	Undecided        bool // The time is explicitly 미정.
}

// Format renders "YYYY-MM-DD HH:mm", using the given default when no time was
// found, or "YYYY-MM-DD 미정" for an undecided time.
func (d DateTime) Format(defaultHour, defaultMinute int) string {
	date := fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	if d.Undecided {
		return date + " " + Undecided
	}
	h, m := defaultHour, defaultMinute
	if d.HasTime {
		h, m = d.Hour, d.Minute
	}
	return fmt.Sprintf("%s %02d:%02d", date, h, m)
}

// ParseDateTime resolves a date and time from free text. Dates without a year
// take the year of today, and the relative words 금일/오늘 and 익일/내일 resolve
// against today. ok is false when no calendar date could be found.
func ParseDateTime(text string, today time.Time) (DateTime, bool) {
	var dt DateTime

	y, m, d, ok := parseDate(text, today)
	if !ok {
		return dt, false
	}
	dt.Year, dt.Month, dt.Day = y, m, d

	if strings.Contains(text, Undecided) {
		dt.Undecided = true
		return dt, true
	}

	dt.Hour, dt.Minute, dt.HasTime = parseTime(text)
	return dt, true
}

func parseDate(text string, today time.Time) (year, month, day int, ok bool) {
	if match := dateCompiler.Parse(text); match != nil {
		year = today.Year()
		if yy := match.GetCapture("yy", ""); yy != "" {
			year = 2000 + atoi(yy)
		} else if y := match.GetCapture("year", ""); y != "" {
			year = atoi(y)
		}
		month = atoi(match.GetCapture("month", "0"))
		day = atoi(match.GetCapture("day", "0"))
		if validDate(year, month, day) {
			return year, month, day, true
		}
	}

	var rel time.Time
	switch {
	case strings.Contains(text, "금일"), strings.Contains(text, "오늘"):
		rel = today
	case strings.Contains(text, "익일"), strings.Contains(text, "내일"):
		rel = today.AddDate(0, 0, 1)
	default:
		return 0, 0, 0, false
	}
	return rel.Year(), int(rel.Month()), rel.Day(), true
}

func parseTime(text string) (hour, minute int, ok bool) {
	match := timeCompiler.Parse(text)
	if match == nil {
		return 0, 0, false
	}

	hour = atoi(match.GetCapture("hour", "0"))
	minute = atoi(match.GetCapture("minute", "0"))

	switch match.GetCapture("meridiem", "") {
	case "오전":
		if hour == 12 {
			hour = 0
		}
	case "오후":
		if hour < 12 {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
