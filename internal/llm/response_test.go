package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"비고":"x"}`, `{"비고":"x"}`},
		{"json fence", "```json\n{\"비고\":\"x\"}\n```", `{"비고":"x"}`},
		{"plain fence", "```\n{\"비고\":\"x\"}\n```", `{"비고":"x"}`},
		{"prose around", "결과입니다:\n{\"비고\":\"x\"}\n감사합니다", `{"비고":"x"}`},
		{"no object", "  nothing  ", "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.raw))
		})
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"11톤","b":5.5,"c":null,"d":true}`), &v))
	assert.Equal(t, FlexString("11톤"), v.A)
	assert.Equal(t, FlexString("5.5"), v.B)
	assert.Equal(t, FlexString(""), v.C)
	assert.Equal(t, FlexString("true"), v.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a":[1]}`), &v))
}

func TestDecodeResponse(t *testing.T) {
	raw := "```json\n" + `{
  "운송계약번호": "MODEL-1",
  "고객사명": " 한솔 ",
  "상차일자": "2025-05-27",
  "하차지명": "현대케미칼",
  "요청톤수": 11,
  "담당자연락처": null
}` + "\n```"

	resp, err := DecodeResponse(raw)
	require.NoError(t, err)

	rec := resp.Record("C-1")
	assert.Equal(t, "C-1", rec.ContractNo, "contract number comes from the caller")
	assert.Equal(t, "한솔", rec.CustomerName)
	assert.Equal(t, "2025-05-27", rec.PickupDateTime)
	assert.Equal(t, "현대케미칼", rec.DeliveryCompany)
	assert.Equal(t, "11", rec.RequestedTonnage)
	assert.Empty(t, rec.ContactPhone)
}

func TestDecodeResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "   ", ErrEmptyResponse},
		{"empty fence", "```json\n```", ErrEmptyResponse},
		{"no known keys", `{}`, ErrInvalidResponse},
		{"not an object", `["a"]`, ErrInvalidResponse},
		{"nested value", `{"비고": {"x": 1}}`, ErrInvalidResponse},
		{"broken json", `{"비고": "x"`, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResponse(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserPrompt(t *testing.T) {
	p := UserPrompt("상차지 : 평택", "C-77")
	assert.Contains(t, p, "상차지 : 평택")
	assert.Contains(t, p, "C-77")
	for _, k := range ResponseKeys {
		assert.True(t, strings.Contains(p, `"`+k+`"`), "prompt skeleton should name %s", k)
	}
}
