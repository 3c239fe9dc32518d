package dispatch

import "testing"

func TestFieldsFromColumns(t *testing.T) {
	f := FieldsFromColumns(map[string]string{
		"운송계약번호":               " C-9 ",
		"고객사":                  "한솔",
		"상차일 및 상차 시간 (년)":      "2025",
		"상차일 및 상차 시간 (월)":      "5",
		"상차일 및 상차 시간 (일)":      "27",
		"하차일 및 하차 시간":          "2025. 5. 28 오후 1:00:00",
		"하차지  주소":              "충남 아산시",
		"요청 톤수 (차량 길이 및 총 중량)": "11톤",
		"수작업 유무":               "Y",
		"설문 시각":                "ignored",
	})

	if f.ContractNo != "C-9" {
		t.Errorf("ContractNo = %q, want %q", f.ContractNo, "C-9")
	}
	if f.CustomerName != "한솔" {
		t.Errorf("CustomerName = %q, want fuzzy match of 고객사명", f.CustomerName)
	}
	if f.PickupDate.Kind != DateStructured || f.PickupDate.Parts.Day != "27" {
		t.Errorf("PickupDate = %+v, want structured", f.PickupDate)
	}
	if f.DeliveryDate.Kind != DateRaw || f.DeliveryDate.Raw != "2025. 5. 28 오후 1:00:00" {
		t.Errorf("DeliveryDate = %+v, want raw", f.DeliveryDate)
	}
	if f.DeliveryAddress != "충남 아산시" {
		t.Errorf("DeliveryAddress = %q, want %q", f.DeliveryAddress, "충남 아산시")
	}
	if f.Tonnage != "11톤" {
		t.Errorf("Tonnage = %q, want %q", f.Tonnage, "11톤")
	}
	if f.ManualWork != "Y" {
		t.Errorf("ManualWork = %q, want %q", f.ManualWork, "Y")
	}
	if f.PickupCompany != "" {
		t.Errorf("PickupCompany = %q, want blank", f.PickupCompany)
	}
}

func TestDateValues(t *testing.T) {
	if RawDate("").Kind != DateUnset {
		t.Error("blank raw date should be unset")
	}
	if StructuredDate(DateParts{}).Kind != DateUnset {
		t.Error("empty parts should be unset")
	}
	if (DateParts{Year: "2025", Month: "5"}).HasDate() {
		t.Error("parts without a day have no date")
	}
}
