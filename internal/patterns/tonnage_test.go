package patterns

import "testing"

func TestNormaliseTonnage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"11t(9.6m 이상 6대)", "11톤"},
		{"2.5톤", "2.5톤"},
		{"5TON", "5톤"},
		{"6파렛트", "6"},
		{"중량 3.5", "3.5"},
		{"9.6m 이상 6대", "9.6m 6대"},
		{"  미정 ", "미정"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormaliseTonnage(tt.text); got != tt.want {
			t.Errorf("NormaliseTonnage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTraceTonnage(t *testing.T) {
	trace := TraceTonnage("6파렛트")
	if trace.Match == nil || trace.Match.FormatName != "pallets" {
		t.Fatalf("match = %+v, want pallets", trace.Match)
	}
	if trace.Formats[0].Matched {
		t.Error("tonnes format should not match pallets")
	}
}
