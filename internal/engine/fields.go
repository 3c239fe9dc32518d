package engine

import (
	"fmt"
	"strings"
	"time"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/patterns"
)

// ManualWorkLabel prefixes the folded 수작업 유무 answer in notes.
const ManualWorkLabel = "수작업유무"

// ParseFields builds a record from pre-split form fields. Only date assembly
// and contact splitting run. Missing required fields give a
// *dispatch.ValidationError and no record.
func (e *Engine) ParseFields(f *dispatch.Fields) (*Result, error) {
	if f == nil {
		return nil, dispatch.ErrNoInput
	}
	start := time.Now()
	today := e.today()
	// Form fields arrive already located.
	prog := newProgress()
	prog.advance(dispatch.StateLocated)

	pickupDate, pickupOK := ResolveDate(f.PickupDate, today)
	deliveryDate, deliveryOK := ResolveDate(f.DeliveryDate, today)

	var missing []string
	if !pickupOK {
		missing = append(missing, "pickup_date")
	}
	if !deliveryOK {
		missing = append(missing, "delivery_date")
	}
	if strings.TrimSpace(f.DeliveryAddress) == "" {
		missing = append(missing, "delivery_address")
	}
	if strings.TrimSpace(f.DeliveryCompany) == "" {
		missing = append(missing, "delivery_company")
	}
	if len(missing) > 0 {
		e.observer.ObserveValidationFailure(missing)
		e.logger.Info().
			Str("contract_no", f.ContractNo).
			Strs("missing", missing).
			Msg("form submission rejected")
		return nil, &dispatch.ValidationError{Fields: missing}
	}

	pickup := patterns.SplitContact(f.PickupContact)
	delivery := patterns.SplitContact(f.DeliveryContact)
	prog.advance(dispatch.StateNormalised)

	rec := &dispatch.Record{
		ContractNo:       f.ContractNo,
		CustomerName:     strings.TrimSpace(f.CustomerName),
		PickupDateTime:   pickupDate,
		DeliveryDateTime: deliveryDate,
		PickupCompany:    strings.TrimSpace(f.PickupCompany),
		PickupAddress:    strings.TrimSpace(f.PickupAddress),
		DeliveryCompany:  strings.TrimSpace(f.DeliveryCompany),
		DeliveryAddress:  strings.TrimSpace(f.DeliveryAddress),
		RequestedTonnage: strings.TrimSpace(f.Tonnage),
		ContactName:      firstNonEmpty(delivery.Name, pickup.Name),
		ContactPhone:     firstNonEmpty(delivery.Phone, pickup.Phone),
		Notes:            foldManualWork(f.Notes, f.ManualWork),
	}

	res := newResult(rec, StrategyPreSplit, prog)
	e.observer.ObserveParse(res.Strategy, res.State, time.Since(start))
	return res, nil
}

// ResolveDate renders a pre-split date as "YYYY-MM-DD HH:mm". Missing hour or
// minute parts are 00. A single-column value is read with the free-text date
// rules. ok is false when no calendar date is present.
func ResolveDate(v dispatch.DateValue, today time.Time) (string, bool) {
	switch v.Kind {
	case dispatch.DateStructured:
		p := v.Parts
		if !p.HasDate() {
			return "", false
		}
		return fmt.Sprintf("%s-%s-%s %s:%s",
			pad(p.Year, 4), pad(p.Month, 2), pad(p.Day, 2),
			pad(p.Hour, 2), pad(p.Minute, 2)), true
	case dispatch.DateRaw:
		dt, ok := patterns.ParseDateTime(v.Raw, today)
		if !ok {
			return strings.TrimSpace(v.Raw), false
		}
		return dt.Format(0, 0), true
	default:
		return "", false
	}
}

// pad left-pads a numeric part with zeros. Blank parts become all zeros.
func pad(s string, width int) string {
	s = strings.TrimSpace(s)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func foldManualWork(notes, manual string) string {
	notes = strings.TrimSpace(notes)
	manual = strings.TrimSpace(manual)
	if manual == "" {
		return notes
	}
	folded := ManualWorkLabel + ": " + manual
	if notes == "" {
		return folded
	}
	return notes + " / " + folded
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
