package intake

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch_parser/internal/dispatch"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	w := NewWorker(nil, newTestService(t), WorkerConfig{Subject: "dispatch.requests"}, zerolog.Nop())
	w.now = func() time.Time { return time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC) }
	return w
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandleText(t *testing.T) {
	w := newTestWorker(t)
	ctx := context.Background()
	data := mustJSON(t, Message{ContractNo: "C-1", Text: sampleRequest})

	reply, event := w.Handle(ctx, data)
	assert.Empty(t, reply.Error)
	require.NotNil(t, reply.Receipt)
	require.NotNil(t, event)
	assert.Equal(t, "C-1", event.ContractNo)
	assert.Equal(t, dispatch.StatusComplete, event.Status)
	assert.Equal(t, 1, event.RowNo)
	assert.Equal(t, reply.Receipt.Key, event.Key)

	replay, event := w.Handle(ctx, data)
	assert.True(t, replay.Receipt.Replay)
	assert.Nil(t, event, "replays publish no event")
}

func TestHandleFields(t *testing.T) {
	w := newTestWorker(t)
	f := validFields()
	f.ContractNo = ""

	_, event := w.Handle(context.Background(), mustJSON(t, Message{ContractNo: "F-9", Fields: f}))
	require.NotNil(t, event)
	assert.Equal(t, "F-9", event.ContractNo)
	assert.Equal(t, dispatch.StatusComplete, event.Status)
}

func TestHandleValidationError(t *testing.T) {
	w := newTestWorker(t)
	f := validFields()
	f.DeliveryAddress = ""

	reply, event := w.Handle(context.Background(), mustJSON(t, Message{Fields: f}))
	assert.Contains(t, reply.Error, "delivery_address")
	require.NotNil(t, reply.Receipt)
	assert.Equal(t, []string{"delivery_address"}, reply.Receipt.Missing)
	require.NotNil(t, event)
	assert.Equal(t, dispatch.StatusError, event.Status)
}

func TestHandleMalformed(t *testing.T) {
	reply, event := newTestWorker(t).Handle(context.Background(), []byte("{"))
	assert.Contains(t, reply.Error, "invalid message")
	assert.Nil(t, reply.Receipt)
	assert.Nil(t, event)
}
