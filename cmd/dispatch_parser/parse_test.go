package main

import (
	"testing"

	"dispatch_parser/internal/dispatch"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantKind string
		wantNo   string
	}{
		{"text", `{"contract_no":"C-1","text":"상차지 : 평택"}`, true, "text", "C-1"},
		{"korean text key", `{"운송계약번호":"C-2","배차요청":"상차지 : 평택"}`, true, "text", "C-2"},
		{"numeric contract", `{"num":20250527,"message":"상차지 : 평택"}`, true, "text", "20250527"},
		{"fields", `{"contract_no":"F-1","fields":{"delivery_address":"충남 아산시"}}`, true, "form", "F-1"},
		{"columns", `{"columns":{"운송계약번호":"F-2","하차지 주소":"충남 아산시"}}`, true, "columns", "F-2"},
		{"blank text", `{"text":"  "}`, false, "", ""},
		{"not json", `상차지 : 평택`, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := decodeInput([]byte(tt.line))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if in.kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", in.kind, tt.wantKind)
			}
			var no string
			if in.req != nil {
				no = in.req.ContractNo
			} else {
				no = in.fields.ContractNo
			}
			if no != tt.wantNo {
				t.Errorf("contract = %q, want %q", no, tt.wantNo)
			}
		})
	}
}

func TestHasFields(t *testing.T) {
	if hasFields(&dispatch.Record{ContractNo: "C-1"}) {
		t.Error("a record with only a contract number has no fields")
	}
	if !hasFields(&dispatch.Record{Notes: "x"}) {
		t.Error("a record with notes has fields")
	}
}
