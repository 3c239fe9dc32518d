package dispatch

// DateKind tags the representation carried by a DateValue.
type DateKind int

const (
	DateUnset DateKind = iota
	DateRaw
	DateStructured
)

// DateParts holds the separately entered components of a form date.
// Missing components are "".
type DateParts struct {
	Year   string `json:"year,omitempty"`
	Month  string `json:"month,omitempty"`
	Day    string `json:"day,omitempty"`
	Hour   string `json:"hour,omitempty"`
	Minute string `json:"minute,omitempty"`
}

// HasDate reports whether year, month and day are all present.
func (p DateParts) HasDate() bool {
	return p.Year != "" && p.Month != "" && p.Day != ""
}

// DateValue is a pre-split date that is either absent, a single free-text
// column, or a set of structured components.
type DateValue struct {
	Kind  DateKind  `json:"kind"`
	Raw   string    `json:"raw,omitempty"`
	Parts DateParts `json:"parts,omitempty"`
}

// RawDate wraps a single-column date string. Blank text is Unset.
func RawDate(s string) DateValue {
	if s == "" {
		return DateValue{}
	}
	return DateValue{Kind: DateRaw, Raw: s}
}

// StructuredDate wraps separately entered date components. All-empty parts are Unset.
func StructuredDate(p DateParts) DateValue {
	if p == (DateParts{}) {
		return DateValue{}
	}
	return DateValue{Kind: DateStructured, Parts: p}
}

// Fields is a dispatch request whose fields arrived discretely, such as a
// form submission where each question maps to one column.
type Fields struct {
	ContractNo      string    `json:"contract_no"`
	CustomerName    string    `json:"customer_name,omitempty"`
	PickupDate      DateValue `json:"pickup_date"`
	DeliveryDate    DateValue `json:"delivery_date"`
	PickupContact   string    `json:"pickup_contact,omitempty"`
	PickupAddress   string    `json:"pickup_address,omitempty"`
	PickupCompany   string    `json:"pickup_company,omitempty"`
	DeliveryContact string    `json:"delivery_contact,omitempty"`
	DeliveryAddress string    `json:"delivery_address,omitempty"`
	DeliveryCompany string    `json:"delivery_company,omitempty"`
	Tonnage         string    `json:"tonnage,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ManualWork      string    `json:"manual_work,omitempty"`
}
