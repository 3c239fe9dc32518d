package dispatch

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Form column headers as they appear on the intake form.
const (
	ColContractNo         = "운송계약번호"
	ColCustomerName       = "고객사명"
	ColPickupYear         = "상차일 및 상차 시간 (년)"
	ColPickupMonth        = "상차일 및 상차 시간 (월)"
	ColPickupDay          = "상차일 및 상차 시간 (일)"
	ColPickupHour         = "상차일 및 상차 시간 (시)"
	ColPickupMinute       = "상차일 및 상차 시간 (분)"
	ColPickupDate         = "상차일 및 상차 시간"
	ColPickupContact      = "상차지 담당자 / 연락처"
	ColPickupAddress      = "상차지 주소"
	ColPickupCompany      = "상차지 업체명"
	ColDeliveryYear       = "하차일 및 하차 시간 (년)"
	ColDeliveryMonth      = "하차일 및 하차 시간 (월)"
	ColDeliveryDay        = "하차일 및 하차 시간 (일)"
	ColDeliveryHour       = "하차일 및 하차 시간 (시)"
	ColDeliveryMinute     = "하차일 및 하차 시간 (분)"
	ColDeliveryDate       = "하차일 및 하차 시간"
	ColDeliveryContact    = "하차지 담당자 / 연락처"
	ColDeliveryAddress    = "하차지 주소"
	ColDeliveryCompany    = "하차지 업체명"
	ColRequestedTonnage   = "요청 톤수 (차량 길이 및 총 중량)"
	ColNotes              = "비고"
	ColManualWork         = "수작업 유무"
	maxHeaderEditDistance = 1
)

var formColumns = []string{
	ColContractNo, ColCustomerName,
	ColPickupYear, ColPickupMonth, ColPickupDay, ColPickupHour, ColPickupMinute, ColPickupDate,
	ColPickupContact, ColPickupAddress, ColPickupCompany,
	ColDeliveryYear, ColDeliveryMonth, ColDeliveryDay, ColDeliveryHour, ColDeliveryMinute, ColDeliveryDate,
	ColDeliveryContact, ColDeliveryAddress, ColDeliveryCompany,
	ColRequestedTonnage, ColNotes, ColManualWork,
}

// FieldsFromColumns maps form answers keyed by column header onto Fields.
// Headers are compared with whitespace removed, and a header that matches no
// column exactly is accepted for the closest column within one edit.
func FieldsFromColumns(cols map[string]string) Fields {
	v := resolveColumns(cols)

	return Fields{
		ContractNo:   v[ColContractNo],
		CustomerName: v[ColCustomerName],
		PickupDate: formDate(v[ColPickupDate], DateParts{
			Year: v[ColPickupYear], Month: v[ColPickupMonth], Day: v[ColPickupDay],
			Hour: v[ColPickupHour], Minute: v[ColPickupMinute],
		}),
		DeliveryDate: formDate(v[ColDeliveryDate], DateParts{
			Year: v[ColDeliveryYear], Month: v[ColDeliveryMonth], Day: v[ColDeliveryDay],
			Hour: v[ColDeliveryHour], Minute: v[ColDeliveryMinute],
		}),
		PickupContact:   v[ColPickupContact],
		PickupAddress:   v[ColPickupAddress],
		PickupCompany:   v[ColPickupCompany],
		DeliveryContact: v[ColDeliveryContact],
		DeliveryAddress: v[ColDeliveryAddress],
		DeliveryCompany: v[ColDeliveryCompany],
		Tonnage:         v[ColRequestedTonnage],
		Notes:           v[ColNotes],
		ManualWork:      v[ColManualWork],
	}
}

// formDate prefers the structured columns and falls back to the single column.
func formDate(single string, parts DateParts) DateValue {
	if dv := StructuredDate(parts); dv.Kind != DateUnset {
		return dv
	}
	return RawDate(single)
}

func resolveColumns(cols map[string]string) map[string]string {
	canonical := make(map[string]string, len(formColumns))
	for _, c := range formColumns {
		canonical[squash(c)] = c
	}

	// Iterate headers in a stable order so fuzzy matches are deterministic.
	headers := make([]string, 0, len(cols))
	for h := range cols {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	out := make(map[string]string, len(cols))
	var fuzzy []string
	for _, h := range headers {
		if c, ok := canonical[squash(h)]; ok {
			out[c] = strings.TrimSpace(cols[h])
			continue
		}
		fuzzy = append(fuzzy, h)
	}

	for _, h := range fuzzy {
		key := squash(h)
		best, bestDist := "", maxHeaderEditDistance+1
		for _, c := range formColumns {
			if _, taken := out[c]; taken {
				continue
			}
			if d := levenshtein.ComputeDistance(key, squash(c)); d < bestDist {
				best, bestDist = c, d
			}
		}
		if best != "" {
			out[best] = strings.TrimSpace(cols[h])
		}
	}

	return out
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
