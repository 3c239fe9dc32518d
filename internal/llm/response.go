package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"dispatch_parser/internal/dispatch"
)

var (
	// ErrEmptyResponse is returned when the model produced no usable text.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrInvalidResponse is returned when the response is not a record object.
	ErrInvalidResponse = errors.New("invalid model response")
)

// ResponseKeys are the JSON keys the model is asked to fill, in record order.
var ResponseKeys = []string{
	"운송계약번호", "고객사명", "상차일자", "하차일자", "상차지명", "상차지주소",
	"하차지명", "하차지주소", "요청톤수", "담당자명", "담당자연락처", "비고",
}

// FlexString accepts a JSON string, number, boolean or null.
// Models occasionally emit 5 instead of "5" for tonnage or a null for an
// unknown field.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("flex string: unsupported value %s", data)
	}
	*f = FlexString(fmt.Sprint(b))
	return nil
}

// Response is the model's answer.
type Response struct {
	ContractNo       FlexString `json:"운송계약번호"`
	CustomerName     FlexString `json:"고객사명"`
	PickupDate       FlexString `json:"상차일자"`
	DeliveryDate     FlexString `json:"하차일자"`
	PickupCompany    FlexString `json:"상차지명"`
	PickupAddress    FlexString `json:"상차지주소"`
	DeliveryCompany  FlexString `json:"하차지명"`
	DeliveryAddress  FlexString `json:"하차지주소"`
	RequestedTonnage FlexString `json:"요청톤수"`
	ContactName      FlexString `json:"담당자명"`
	ContactPhone     FlexString `json:"담당자연락처"`
	Notes            FlexString `json:"비고"`
}

// Record maps the response onto a record. The contract number is always the
// caller's, never the model's.
func (r *Response) Record(contractNo string) *dispatch.Record {
	t := func(f FlexString) string { return strings.TrimSpace(string(f)) }
	return &dispatch.Record{
		ContractNo:       contractNo,
		CustomerName:     t(r.CustomerName),
		PickupDateTime:   t(r.PickupDate),
		DeliveryDateTime: t(r.DeliveryDate),
		PickupCompany:    t(r.PickupCompany),
		PickupAddress:    t(r.PickupAddress),
		DeliveryCompany:  t(r.DeliveryCompany),
		DeliveryAddress:  t(r.DeliveryAddress),
		RequestedTonnage: t(r.RequestedTonnage),
		ContactName:      t(r.ContactName),
		ContactPhone:     t(r.ContactPhone),
		Notes:            t(r.Notes),
	}
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// responseSchema requires an object whose known keys hold scalars and at
// least one of which is present.
func responseSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		scalar := map[string]any{"type": []string{"string", "number", "boolean", "null"}}
		props := make(map[string]any, len(ResponseKeys))
		anyOf := make([]any, 0, len(ResponseKeys))
		for _, k := range ResponseKeys {
			props[k] = scalar
			anyOf = append(anyOf, map[string]any{"required": []string{k}})
		}
		doc, err := json.Marshal(map[string]any{
			"type":       "object",
			"properties": props,
			"anyOf":      anyOf,
		})
		if err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	})
	return schema, schemaErr
}

// StripCodeFence removes a Markdown code fence around the JSON body along
// with any prose before the first brace or after the last one.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
			s = s[nl+1:]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// DecodeResponse validates and decodes a raw model response.
func DecodeResponse(raw string) (*Response, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return nil, ErrEmptyResponse
	}

	sc, err := responseSchema()
	if err != nil {
		return nil, fmt.Errorf("response schema: %w", err)
	}
	result, err := sc.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(msgs, "; "))
	}

	var resp Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}
