package extract

import "testing"

func TestSplitPlace(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Place
	}{
		{"address slash company", "경기도 화성시 / 대림플라텍", Place{Address: "경기도 화성시", Company: "대림플라텍"}},
		{"company slash address", "대림플라텍 / 경기도 화성시", Place{Address: "경기도 화성시", Company: "대림플라텍"}},
		{"neither part address-like", "ABC / DEF", Place{Address: "ABC", Company: "DEF"}},
		{"single address part", "/ 경기도 화성시", Place{Address: "경기도 화성시"}},
		{"single company part", "대림플라텍 /", Place{Company: "대림플라텍"}},
		{"no delimiter", "경기도 화성시 우정읍 버들로899-87 대림플라텍", Place{Address: "경기도 화성시 우정읍 버들로899-87", Company: "대림플라텍"}},
		{"company only", "대림플라텍", Place{Company: "대림플라텍"}},
		{"empty", " ", Place{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitPlace(tt.text); got != tt.want {
				t.Errorf("SplitPlace(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLocatePlaceContinuation(t *testing.T) {
	text := "상차지 주소 : 경기도 화성시 우정읍\n버들로899-87\n대림플라텍\n하차지 주소 : 충남 아산시"
	lines := SplitLines(text)
	set := NewKeywordSet("상차지 주소")
	stop := NewKeywordSet("상차지 주소", "하차지 주소")

	loc := LocatePlace(lines, set, stop)
	if loc.Value != "경기도 화성시 우정읍 버들로899-87 대림플라텍" {
		t.Errorf("Value = %q", loc.Value)
	}
	if loc.End != 2 {
		t.Errorf("End = %d, want 2", loc.End)
	}

	place := SplitAddressCompany(lines, set, stop)
	if place.Address != "경기도 화성시 우정읍 버들로899-87" {
		t.Errorf("Address = %q", place.Address)
	}
	if place.Company != "대림플라텍" {
		t.Errorf("Company = %q", place.Company)
	}
}

func TestLocatePlaceStopsAtBracket(t *testing.T) {
	lines := SplitLines("하차지 : 충남 아산시 탕정면\n[상차지]\n경기도 평택시")
	loc := LocatePlace(lines, NewKeywordSet("하차지"), NewKeywordSet("하차지", "상차지"))
	if loc.Value != "충남 아산시 탕정면" {
		t.Errorf("Value = %q, want %q", loc.Value, "충남 아산시 탕정면")
	}
}
