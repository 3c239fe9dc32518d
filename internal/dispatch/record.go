// Package dispatch provides the dispatch request and parsed record types shared
// by the extraction strategies and the outer surfaces.
package dispatch

import "strconv"

// Request is a free-text dispatch request as submitted by a shipper.
type Request struct {
	ContractNo string `json:"contract_no"`
	Text       string `json:"text"`
}

// Record is the fixed-schema result of parsing one dispatch request.
// Every field is a string and "" means the value was not found.
type Record struct {
	ContractNo       string `json:"contract_no"`
	CustomerName     string `json:"customer_name"`
	PickupDateTime   string `json:"pickup_datetime"`
	DeliveryDateTime string `json:"delivery_datetime"`
	PickupCompany    string `json:"pickup_company"`
	PickupAddress    string `json:"pickup_address"`
	DeliveryCompany  string `json:"delivery_company"`
	DeliveryAddress  string `json:"delivery_address"`
	RequestedTonnage string `json:"requested_tonnage"`
	ContactName      string `json:"contact_name"`
	ContactPhone     string `json:"contact_phone"`
	Notes            string `json:"notes"`
}

// Headers are the 26 output columns in sheet order. Columns marked with an
// asterisk are required by the downstream dispatch system.
var Headers = []string{
	"No.", "운송계약번호*", "고객사명", "운송단가번호", "상차일자*", "하차일자*",
	"상차지명*", "상차지주소*", "하차지명*", "하차지주소*", "운송사명", "운송사코드*",
	"온도구분", "운송조건*", "톤수", "요청톤수*", "차량번호", "기사명", "기사님연락처",
	"운송매출*", "기타매출", "운송비용*", "기타비용", "담당자명", "담당자연락처", "비고",
}

// Row renders the record as an output row aligned with Headers. Carrier and
// billing columns are filled in later by dispatchers and are left blank.
// A non-positive no leaves the No. column blank.
func (r *Record) Row(no int) []string {
	row := make([]string, len(Headers))
	if no > 0 {
		row[0] = strconv.Itoa(no)
	}
	row[1] = r.ContractNo
	row[2] = r.CustomerName
	row[4] = r.PickupDateTime
	row[5] = r.DeliveryDateTime
	row[6] = r.PickupCompany
	row[7] = r.PickupAddress
	row[8] = r.DeliveryCompany
	row[9] = r.DeliveryAddress
	row[15] = r.RequestedTonnage
	row[23] = r.ContactName
	row[24] = r.ContactPhone
	row[25] = r.Notes
	return row
}

// Missing returns the names of required columns the parser should have
// populated but left empty.
func (r *Record) Missing() []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("contract_no", r.ContractNo)
	check("pickup_datetime", r.PickupDateTime)
	check("delivery_datetime", r.DeliveryDateTime)
	check("pickup_company", r.PickupCompany)
	check("pickup_address", r.PickupAddress)
	check("delivery_company", r.DeliveryCompany)
	check("delivery_address", r.DeliveryAddress)
	check("requested_tonnage", r.RequestedTonnage)
	return missing
}

// State is the progress of a single parse.
type State string

const (
	StateIdle       State = "idle"
	StateLocated    State = "located"
	StateNormalised State = "normalised"
	StateAssembled  State = "assembled"
	StateSuccess    State = "success"
	StateDegraded   State = "degraded"
)
