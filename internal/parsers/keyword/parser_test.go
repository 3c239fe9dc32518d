package keyword

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/keywords"
)

const sampleRequest = `상차일 및 상차시간 : 25.05.27 (화요일)
상차지 담당자 / 연락처 : 031-351-9957
상차지주소 및 업체명 : 경기도 화성시 우정읍 버들로899-87 대림플라텍
하차일 및 하차시간 : 25.05.27 (화요일)
하차지 업체명 / 주소 : 현대케미칼 / 충남 서산시 대산읍 대죽리 642-22
요청톤수(차량길이 및 총 중량) : 11t(9.6m 이상 6대) / 중량 3.5t`

func newTestParser() *Parser {
	now := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	return New(keywords.Default().Compile(),
		WithClock(func() time.Time { return now }),
		WithLocation(time.UTC))
}

func TestParser_Parse(t *testing.T) {
	p := newTestParser()

	rec, err := p.Parse(context.Background(), &dispatch.Request{ContractNo: "C-2025-0001", Text: sampleRequest})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := dispatch.Record{
		ContractNo:       "C-2025-0001",
		PickupDateTime:   "2025-05-27 09:00",
		DeliveryDateTime: "2025-05-27 09:00",
		PickupCompany:    "대림플라텍",
		PickupAddress:    "경기도 화성시 우정읍 버들로899-87",
		DeliveryCompany:  "현대케미칼",
		DeliveryAddress:  "충남 서산시 대산읍 대죽리 642-22",
		RequestedTonnage: "11톤",
		ContactPhone:     "031-351-9957",
	}
	if *rec != want {
		t.Errorf("Parse =\n%+v\nwant\n%+v", *rec, want)
	}
}

func TestParser_DedicatedLabels(t *testing.T) {
	text := `상차지 : 경기도 평택시 포승읍 평택항로 95 평택물류
하차지 주소 : 충남 아산시 탕정면 삼성로 181
하차지 업체명 : 삼성디스플레이
하차지 담당자 : 박영희 / 010-2222-3333
상차지 담당자 : 김철수 / 010-1111-1111`

	rec, err := newTestParser().Parse(context.Background(), &dispatch.Request{Text: text})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	checks := []struct {
		field, got, want string
	}{
		{"PickupAddress", rec.PickupAddress, "경기도 평택시 포승읍 평택항로 95"},
		{"PickupCompany", rec.PickupCompany, "평택물류"},
		{"DeliveryAddress", rec.DeliveryAddress, "충남 아산시 탕정면 삼성로 181"},
		{"DeliveryCompany", rec.DeliveryCompany, "삼성디스플레이"},
		{"ContactName", rec.ContactName, "박영희"},
		{"ContactPhone", rec.ContactPhone, "010-2222-3333"},
		{"PickupDateTime", rec.PickupDateTime, ""},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestParser_EmptyText(t *testing.T) {
	rec, err := newTestParser().Parse(context.Background(), &dispatch.Request{ContractNo: "C-1", Text: ""})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *rec != (dispatch.Record{ContractNo: "C-1"}) {
		t.Errorf("Parse of empty text = %+v, want only the contract number", *rec)
	}
}

func TestParser_DegenerateInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want dispatch.Record
	}{
		{"whitespace only", "  \n\t \r\n  ", dispatch.Record{ContractNo: "C-1"}},
		{"labels without values", "상차지 :\n비고\n※", dispatch.Record{ContractNo: "C-1"}},
		{"delimiters only", "상차지 : / / /\n하차지 : /\n담당자 : /", dispatch.Record{ContractNo: "C-1"}},
		{"invalid date kept raw", "상차일 : 99.99.99", dispatch.Record{ContractNo: "C-1", PickupDateTime: "99.99.99"}},
		{"side-less contact is not read", "담당자 : 김철수 / 010-1111-1111", dispatch.Record{ContractNo: "C-1"}},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(context.Background(), &dispatch.Request{ContractNo: "C-1", Text: tt.text})
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if *rec != tt.want {
				t.Errorf("Parse(%q) =\n%+v\nwant\n%+v", tt.text, *rec, tt.want)
			}
		})
	}
}

func TestParser_SectionHeadings(t *testing.T) {
	text := `[상차지]
상차지 주소 : 경기도 평택시 포승읍 평택항로 95
상차지 업체명 : 평택물류
[하차지]
하차지 주소 : 충남 아산시 탕정면 삼성로 181
하차지 업체명 : 삼성디스플레이`

	rec, err := newTestParser().Parse(context.Background(), &dispatch.Request{ContractNo: "C-3", Text: text})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := dispatch.Record{
		ContractNo:      "C-3",
		PickupAddress:   "경기도 평택시 포승읍 평택항로 95",
		PickupCompany:   "평택물류",
		DeliveryAddress: "충남 아산시 탕정면 삼성로 181",
		DeliveryCompany: "삼성디스플레이",
	}
	if *rec != want {
		t.Errorf("Parse =\n%+v\nwant\n%+v", *rec, want)
	}
}

func TestParser_ContactPriority(t *testing.T) {
	const (
		pickup   = "상차지 담당자 : 김철수 / 010-1111-1111"
		delivery = "하차지 담당자 : 박영희 / 010-2222-3333"
	)

	tests := []struct {
		name      string
		text      string
		wantName  string
		wantPhone string
	}{
		{"pickup first", pickup + "\n" + delivery, "박영희", "010-2222-3333"},
		{"delivery first", delivery + "\n" + pickup, "박영희", "010-2222-3333"},
		{"pickup only", pickup, "김철수", "010-1111-1111"},
		{"delivery name with pickup phone", pickup + "\n하차지 담당자 : 박영희", "박영희", "010-1111-1111"},
		{"neither side", "비고 : 없음", "", ""},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(context.Background(), &dispatch.Request{Text: tt.text})
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if rec.ContactName != tt.wantName {
				t.Errorf("ContactName = %q, want %q", rec.ContactName, tt.wantName)
			}
			if rec.ContactPhone != tt.wantPhone {
				t.Errorf("ContactPhone = %q, want %q", rec.ContactPhone, tt.wantPhone)
			}
		})
	}
}

func TestParser_NilRequest(t *testing.T) {
	if _, err := newTestParser().Parse(context.Background(), nil); !errors.Is(err, dispatch.ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}

func TestParser_Deterministic(t *testing.T) {
	p := newTestParser()
	req := &dispatch.Request{ContractNo: "C-1", Text: sampleRequest}

	first, _ := p.Parse(context.Background(), req)
	for i := 0; i < 5; i++ {
		again, _ := p.Parse(context.Background(), req)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestParser_ParseWithTrace(t *testing.T) {
	trace := newTestParser().ParseWithTrace(&dispatch.Request{ContractNo: "C-1", Text: sampleRequest})

	if !trace.Matched || trace.Record == nil {
		t.Fatalf("trace = %+v, want a matched record", trace)
	}
	if trace.Record.DeliveryCompany != "현대케미칼" {
		t.Errorf("Record.DeliveryCompany = %q", trace.Record.DeliveryCompany)
	}

	var sawCombined, sawTonnage bool
	for _, e := range trace.Extractors {
		if e.Field == "pickup_address" && e.Rule == "pickup_place" && e.Matched {
			sawCombined = true
		}
	}
	for _, f := range trace.Formats {
		if f.Field == "requested_tonnage" && f.Name == "tonnes" && f.Matched {
			sawTonnage = true
		}
	}
	if !sawCombined {
		t.Error("trace should show the combined pickup rule matching")
	}
	if !sawTonnage {
		t.Error("trace should show the tonnes format matching")
	}

	nilTrace := newTestParser().ParseWithTrace(nil)
	if nilTrace.QuickCheck.Passed || !strings.Contains(nilTrace.QuickCheck.Reason, "no request") {
		t.Errorf("nil trace QuickCheck = %+v", nilTrace.QuickCheck)
	}
}
