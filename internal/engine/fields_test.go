package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch_parser/internal/dispatch"
)

func validFields() *dispatch.Fields {
	return &dispatch.Fields{
		ContractNo:      "C-9",
		CustomerName:    " 한솔 ",
		PickupDate:      dispatch.StructuredDate(dispatch.DateParts{Year: "2025", Month: "5", Day: "27", Hour: "9"}),
		DeliveryDate:    dispatch.RawDate("2025. 5. 28 오후 1:00:00"),
		PickupContact:   "김철수 / 010-1111-1111",
		PickupAddress:   "경기도 평택시",
		PickupCompany:   "평택물류",
		DeliveryAddress: "충남 아산시",
		DeliveryCompany: "삼성디스플레이",
		Tonnage:         "11톤",
		Notes:           "지게차",
		ManualWork:      "Y",
	}
}

func TestParseFields(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(WithObserver(obs))

	res, err := e.ParseFields(validFields())
	require.NoError(t, err)

	want := dispatch.Record{
		ContractNo:       "C-9",
		CustomerName:     "한솔",
		PickupDateTime:   "2025-05-27 09:00",
		DeliveryDateTime: "2025-05-28 13:00",
		PickupCompany:    "평택물류",
		PickupAddress:    "경기도 평택시",
		DeliveryCompany:  "삼성디스플레이",
		DeliveryAddress:  "충남 아산시",
		RequestedTonnage: "11톤",
		ContactName:      "김철수",
		ContactPhone:     "010-1111-1111",
		Notes:            "지게차 / 수작업유무: Y",
	}
	assert.Equal(t, want, *res.Record)
	assert.Equal(t, StrategyPreSplit, res.Strategy)
	assert.Equal(t, dispatch.StateSuccess, res.State)
	assert.Equal(t, []dispatch.State{
		dispatch.StateIdle, dispatch.StateLocated, dispatch.StateNormalised,
		dispatch.StateAssembled, dispatch.StateSuccess,
	}, res.States)
	assert.Equal(t, []string{"presplit/success"}, obs.parses)
}

func TestParseFieldsContactPriority(t *testing.T) {
	tests := []struct {
		name      string
		delivery  string
		wantName  string
		wantPhone string
	}{
		{"delivery wins", "박영희 010-2222-3333", "박영희", "010-2222-3333"},
		{"halves resolve independently", "박영희", "박영희", "010-1111-1111"},
		{"pickup when delivery blank", "", "김철수", "010-1111-1111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			f.DeliveryContact = tt.delivery
			res, err := newTestEngine().ParseFields(f)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, res.Record.ContactName)
			assert.Equal(t, tt.wantPhone, res.Record.ContactPhone)
		})
	}
}

func TestParseFieldsValidation(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(WithObserver(obs))

	f := &dispatch.Fields{ContractNo: "C-9", PickupDate: dispatch.RawDate("미정")}
	res, err := e.ParseFields(f)
	assert.Nil(t, res)

	var verr *dispatch.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"pickup_date", "delivery_date", "delivery_address", "delivery_company"}, verr.Fields)
	assert.ErrorIs(t, err, dispatch.ErrMissingRequiredField)
	assert.Equal(t, [][]string{verr.Fields}, obs.validation)
	assert.Empty(t, obs.parses)

	_, err = e.ParseFields(nil)
	assert.ErrorIs(t, err, dispatch.ErrNoInput)
}

func TestResolveDate(t *testing.T) {
	today := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  dispatch.DateValue
		want   string
		wantOK bool
	}{
		{"structured without time", dispatch.StructuredDate(dispatch.DateParts{Year: "2025", Month: "5", Day: "7"}), "2025-05-07 00:00", true},
		{"structured with time", dispatch.StructuredDate(dispatch.DateParts{Year: "2025", Month: "12", Day: "31", Hour: "18", Minute: "5"}), "2025-12-31 18:05", true},
		{"structured without day", dispatch.StructuredDate(dispatch.DateParts{Year: "2025", Month: "5"}), "", false},
		{"raw undecided", dispatch.RawDate("25.05.27 미정"), "2025-05-27 미정", true},
		{"raw without time", dispatch.RawDate("2025-05-27"), "2025-05-27 00:00", true},
		{"raw unresolvable", dispatch.RawDate(" 협의 "), "협의", false},
		{"unset", dispatch.DateValue{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.value, today)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
