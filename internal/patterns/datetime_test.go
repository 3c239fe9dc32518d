package patterns

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "two digit year with weekday and meridiem hour",
			text:   "25.05.27 (화요일) 오전 9시",
			want:   "2025-05-27 09:00",
			wantOK: true,
		},
		{
			name:   "undecided time",
			text:   "25.05.27 미정",
			want:   "2025-05-27 미정",
			wantOK: true,
		},
		{
			name:   "compact date without time takes default",
			text:   "20250527",
			want:   "2025-05-27 09:00",
			wantOK: true,
		},
		{
			name:   "spaced dotted date with seconds",
			text:   "2025. 11. 14 오전 9:00:00",
			want:   "2025-11-14 09:00",
			wantOK: true,
		},
		{
			name:   "afternoon hour and minutes",
			text:   "2025/05/27 오후 2시 30분",
			want:   "2025-05-27 14:30",
			wantOK: true,
		},
		{
			name:   "afternoon wins over bare clock",
			text:   "5/27 오후 3:15",
			want:   "2025-05-27 15:15",
			wantOK: true,
		},
		{
			name:   "midnight meridiem",
			text:   "2025-05-27 오전 12:00",
			want:   "2025-05-27 00:00",
			wantOK: true,
		},
		{
			name:   "iso with clock",
			text:   "2025-05-27 14:30",
			want:   "2025-05-27 14:30",
			wantOK: true,
		},
		{
			name:   "korean month day",
			text:   "5월 28일 13시",
			want:   "2025-05-28 13:00",
			wantOK: true,
		},
		{
			name:   "today relative",
			text:   "금일 오후 3시",
			want:   "2025-06-01 15:00",
			wantOK: true,
		},
		{
			name:   "tomorrow relative",
			text:   "익일 오전 8시",
			want:   "2025-06-02 08:00",
			wantOK: true,
		},
		{
			name:   "invalid calendar date",
			text:   "2025.13.45",
			wantOK: false,
		},
		{
			name:   "no date",
			text:   "협의 후 결정",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, ok := ParseDateTime(tt.text, today)
			if ok != tt.wantOK {
				t.Fatalf("ParseDateTime(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got := dt.Format(9, 0); got != tt.want {
				t.Errorf("ParseDateTime(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDateTimeFormatDefault(t *testing.T) {
	dt := DateTime{Year: 2025, Month: 1, Day: 2}
	if got := dt.Format(0, 0); got != "2025-01-02 00:00" {
		t.Errorf("Format = %q, want %q", got, "2025-01-02 00:00")
	}
}

func TestTraceDate(t *testing.T) {
	date, clock := TraceDate("25.05.27 오전 9시")
	if date.Match == nil || date.Match.FormatName != "yy_dot" {
		t.Errorf("date format = %+v, want yy_dot", date.Match)
	}
	if clock.Match == nil || clock.Match.FormatName != "meridiem_hour" {
		t.Errorf("time format = %+v, want meridiem_hour", clock.Match)
	}
	if len(date.Formats) != len(DateFormats) {
		t.Errorf("traced %d date formats, want %d", len(date.Formats), len(DateFormats))
	}
}
