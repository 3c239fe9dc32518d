// Package keyword parses free-text dispatch requests by locating labelled
// fields with the keyword table.
package keyword

import (
	"context"
	"strings"
	"sync"
	"time"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/extract"
	"dispatch_parser/internal/keywords"
	"dispatch_parser/internal/patterns"
	"dispatch_parser/internal/registry"
)

// Parser is the default strategy. It never fails: fields it cannot find are "".
type Parser struct {
	table *keywords.Compiled
	now   func() time.Time
	loc   *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the clock used to resolve relative dates and missing years.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLocation sets the time zone that "today" is taken in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) { p.loc = loc }
}

// New creates a keyword parser over a compiled keyword table.
func New(table *keywords.Compiled, opts ...Option) *Parser {
	p := &Parser{table: table, now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Parser) Name() string     { return "keyword" }
func (p *Parser) Priority() int    { return 100 }
func (p *Parser) Version() string  { return p.table.Version }
func (p *Parser) Today() time.Time { return p.now().In(p.loc) }

// QuickCheck always passes: keyword parsing accepts any text.
func (p *Parser) QuickCheck(req *dispatch.Request) bool { return true }

// Parse extracts a record from the request text.
func (p *Parser) Parse(_ context.Context, req *dispatch.Request) (*dispatch.Record, error) {
	if req == nil {
		return nil, dispatch.ErrNoInput
	}
	rec, _ := p.extract(req, p.Today())
	return rec, nil
}

// ParseWithTrace implements registry.Traceable for detailed debugging.
func (p *Parser) ParseWithTrace(req *dispatch.Request) *registry.TraceResult {
	trace := &registry.TraceResult{
		StrategyName: p.Name(),
		QuickCheck:   &registry.QuickCheck{Passed: true},
	}
	if req == nil {
		trace.QuickCheck = &registry.QuickCheck{Passed: false, Reason: "no request"}
		return trace
	}

	today := p.Today()
	rec, outcomes := p.extract(req, today)
	for _, o := range outcomes {
		trace.Extractors = append(trace.Extractors, registry.Extractor{
			Field:   o.Field,
			Rule:    o.Rule,
			Source:  string(o.Source),
			Matched: o.Matched,
			Value:   o.Value,
		})
	}

	lines := extract.SplitLines(req.Text)
	dates := []struct {
		field string
		set   *extract.KeywordSet
	}{
		{"pickup_datetime", p.table.PickupDate},
		{"delivery_datetime", p.table.DeliveryDate},
	}
	for _, d := range dates {
		field := d.field
		raw := extract.LocateValue(lines, d.set)
		if raw == "" {
			continue
		}
		date, clock := patterns.TraceDate(raw)
		trace.Formats = append(trace.Formats, formatTraces(field, date)...)
		trace.Formats = append(trace.Formats, formatTraces(field, clock)...)
	}
	if raw := extract.LocateValue(lines, p.table.Tonnage); raw != "" {
		trace.Formats = append(trace.Formats, formatTraces("requested_tonnage", patterns.TraceTonnage(raw))...)
	}

	trace.Record = rec
	trace.Matched = true
	return trace
}

func formatTraces(field string, pt *patterns.ParseTrace) []registry.FormatTrace {
	out := make([]registry.FormatTrace, 0, len(pt.Formats))
	for _, f := range pt.Formats {
		out = append(out, registry.FormatTrace{
			Field:    field,
			Name:     f.Name,
			Matched:  f.Matched,
			Pattern:  f.Pattern,
			Captures: f.Captures,
		})
	}
	return out
}

// extract evaluates every field's rules once against the request lines.
func (p *Parser) extract(req *dispatch.Request, today time.Time) (*dispatch.Record, []extract.Outcome) {
	t := p.table
	lines := extract.SplitLines(req.Text)

	// Combined values are shared by the address and company fields, so each
	// is located at most once per parse.
	pickupPlace := sync.OnceValue(func() extract.Place {
		return extract.SplitAddressCompany(lines, t.PickupPlace, t.All)
	})
	deliveryPlace := sync.OnceValue(func() extract.Place {
		return extract.SplitAddressCompany(lines, t.DeliveryPlace, t.All)
	})
	pickupContact := sync.OnceValue(func() patterns.Contact {
		return sideContact(lines, t.PickupContact, t.PickupContactFallback, t.All)
	})
	deliveryContact := sync.OnceValue(func() patterns.Contact {
		return sideContact(lines, t.DeliveryContact, t.DeliveryContactFallback, t.All)
	})

	fields := []struct {
		name  string
		rules []extract.Rule
	}{
		{"customer_name", []extract.Rule{
			{Name: "customer", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return extract.LocateValue(ls, t.Customer)
			}},
		}},
		{"pickup_datetime", []extract.Rule{
			{Name: "pickup_date", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return extract.ParseDate(ls, t.PickupDate, today)
			}},
		}},
		{"delivery_datetime", []extract.Rule{
			{Name: "delivery_date", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return extract.ParseDate(ls, t.DeliveryDate, today)
			}},
		}},
		{"pickup_company", []extract.Rule{
			{Name: "pickup_place", Source: extract.SourceCombined, Apply: func(extract.Lines) string {
				return pickupPlace().Company
			}},
			{Name: "pickup_company", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return placePart(ls, t.PickupCompany, t.PickupAddress, t.All, false)
			}},
		}},
		{"pickup_address", []extract.Rule{
			{Name: "pickup_place", Source: extract.SourceCombined, Apply: func(extract.Lines) string {
				return pickupPlace().Address
			}},
			{Name: "pickup_address", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return placePart(ls, t.PickupAddress, t.PickupCompany, t.All, true)
			}},
		}},
		{"delivery_company", []extract.Rule{
			{Name: "delivery_place", Source: extract.SourceCombined, Apply: func(extract.Lines) string {
				return deliveryPlace().Company
			}},
			{Name: "delivery_company", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return placePart(ls, t.DeliveryCompany, t.DeliveryAddress, t.All, false)
			}},
		}},
		{"delivery_address", []extract.Rule{
			{Name: "delivery_place", Source: extract.SourceCombined, Apply: func(extract.Lines) string {
				return deliveryPlace().Address
			}},
			{Name: "delivery_address", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return placePart(ls, t.DeliveryAddress, t.DeliveryCompany, t.All, true)
			}},
		}},
		{"requested_tonnage", []extract.Rule{
			{Name: "tonnage", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return extract.ExtractTonnage(ls, t.Tonnage)
			}},
		}},
		// Delivery contacts win over pickup contacts; name and phone resolve
		// independently. Side-less labels such as "담당자" only bound values.
		{"contact_name", []extract.Rule{
			{Name: "delivery_contact", Source: extract.SourceDedicated, Apply: func(extract.Lines) string {
				return deliveryContact().Name
			}},
			{Name: "pickup_contact", Source: extract.SourceDedicated, Apply: func(extract.Lines) string {
				return pickupContact().Name
			}},
		}},
		{"contact_phone", []extract.Rule{
			{Name: "delivery_contact", Source: extract.SourceDedicated, Apply: func(extract.Lines) string {
				return deliveryContact().Phone
			}},
			{Name: "pickup_contact", Source: extract.SourceDedicated, Apply: func(extract.Lines) string {
				return pickupContact().Phone
			}},
		}},
		{"notes", []extract.Rule{
			{Name: "notes", Source: extract.SourceDedicated, Apply: func(ls extract.Lines) string {
				return extract.CollectNotes(ls, t.Notes, t.VehicleCount, t.All)
			}},
		}},
	}

	rec := &dispatch.Record{ContractNo: req.ContractNo}
	targets := map[string]*string{
		"customer_name":     &rec.CustomerName,
		"pickup_datetime":   &rec.PickupDateTime,
		"delivery_datetime": &rec.DeliveryDateTime,
		"pickup_company":    &rec.PickupCompany,
		"pickup_address":    &rec.PickupAddress,
		"delivery_company":  &rec.DeliveryCompany,
		"delivery_address":  &rec.DeliveryAddress,
		"requested_tonnage": &rec.RequestedTonnage,
		"contact_name":      &rec.ContactName,
		"contact_phone":     &rec.ContactPhone,
		"notes":             &rec.Notes,
	}

	var outcomes []extract.Outcome
	for _, f := range fields {
		v, trace := extract.Evaluate(f.name, lines, f.rules)
		*targets[f.name] = v
		outcomes = append(outcomes, trace...)
	}

	return rec, outcomes
}

// placePart reads one half of a place from its dedicated labels. A label that
// belongs only to this half gives the whole value; a label shared with the
// other half, such as 상차지, is split first.
func placePart(lines extract.Lines, own, other, stop *extract.KeywordSet, address bool) string {
	loc := extract.LocatePlace(lines, own, stop)
	if !loc.Found() {
		return ""
	}
	if !other.Has(loc.Keyword) {
		return strings.TrimSpace(loc.Value)
	}
	place := extract.SplitPlace(loc.Value)
	if address {
		return place.Address
	}
	return place.Company
}

// sideContact reads a contact from the combined labels and fills whichever
// half is missing from the fallback labels.
func sideContact(lines extract.Lines, combined, fallback, stop *extract.KeywordSet) patterns.Contact {
	c := extract.LocateContact(lines, combined, stop)
	if c.Name != "" && c.Phone != "" {
		return c
	}
	fb := extract.LocateContact(lines, fallback, stop)
	if c.Name == "" {
		c.Name = fb.Name
	}
	if c.Phone == "" {
		c.Phone = fb.Phone
	}
	return c
}
