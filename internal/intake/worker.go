package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"dispatch_parser/internal/dispatch"
)

// Message is a dispatch request received over NATS. Exactly one of Text or
// Fields is expected; Fields wins when both are set.
type Message struct {
	ContractNo string           `json:"contract_no"`
	Text       string           `json:"text,omitempty"`
	Fields     *dispatch.Fields `json:"fields,omitempty"`
}

// Reply is sent back to requesters that set a reply subject.
type Reply struct {
	Receipt *Receipt `json:"receipt,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// StatusEvent is published whenever a submission reaches a terminal status.
type StatusEvent struct {
	Key        string          `json:"key"`
	ContractNo string          `json:"contract_no"`
	Status     dispatch.Status `json:"status"`
	RowNo      int             `json:"row_no,omitempty"`
	At         time.Time       `json:"at"`
}

// WorkerConfig names the subjects a Worker uses.
type WorkerConfig struct {
	Subject       string
	Queue         string
	StatusSubject string // Empty disables status events.
}

// Worker consumes dispatch requests from a NATS queue group.
type Worker struct {
	nc     *nats.Conn
	svc    *Service
	cfg    WorkerConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewWorker creates a worker on an established connection.
func NewWorker(nc *nats.Conn, svc *Service, cfg WorkerConfig, logger zerolog.Logger) *Worker {
	return &Worker{nc: nc, svc: svc, cfg: cfg, logger: logger, now: time.Now}
}

// Run subscribes and processes messages until ctx is cancelled, then drains
// the subscription so in-flight messages finish.
func (w *Worker) Run(ctx context.Context) error {
	sub, err := w.nc.QueueSubscribe(w.cfg.Subject, w.cfg.Queue, func(m *nats.Msg) {
		reply, event := w.Handle(ctx, m.Data)
		if m.Reply != "" {
			data, err := json.Marshal(reply)
			if err == nil {
				err = m.Respond(data)
			}
			if err != nil {
				w.logger.Error().Err(err).Msg("failed to reply")
			}
		}
		if event != nil {
			w.publish(event)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", w.cfg.Subject, err)
	}

	w.logger.Info().
		Str("subject", w.cfg.Subject).
		Str("queue", w.cfg.Queue).
		Msg("intake worker started")

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Handle processes one message payload.
func (w *Worker) Handle(ctx context.Context, data []byte) (Reply, *StatusEvent) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		w.logger.Warn().Err(err).Msg("discarding malformed message")
		return Reply{Error: fmt.Sprintf("invalid message: %v", err)}, nil
	}

	var (
		receipt *Receipt
		err     error
	)
	if msg.Fields != nil {
		if msg.Fields.ContractNo == "" {
			msg.Fields.ContractNo = msg.ContractNo
		}
		msg.ContractNo = msg.Fields.ContractNo
		receipt, err = w.svc.SubmitFields(ctx, msg.Fields)
	} else {
		receipt, err = w.svc.SubmitText(ctx, &dispatch.Request{ContractNo: msg.ContractNo, Text: msg.Text})
	}

	reply := Reply{Receipt: receipt}
	if err != nil {
		reply.Error = err.Error()
		var verr *dispatch.ValidationError
		if !errors.As(err, &verr) {
			w.logger.Error().Err(err).Str("contract_no", msg.ContractNo).Msg("submission failed")
		}
	}
	if receipt == nil || receipt.Replay {
		return reply, nil
	}

	return reply, &StatusEvent{
		Key:        receipt.Key,
		ContractNo: msg.ContractNo,
		Status:     receipt.Status,
		RowNo:      receipt.RowNo,
		At:         w.now().UTC(),
	}
}

func (w *Worker) publish(event *StatusEvent) {
	if w.cfg.StatusSubject == "" {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := w.nc.Publish(w.cfg.StatusSubject, data); err != nil {
		w.logger.Error().Err(err).Str("key", event.Key).Msg("failed to publish status")
	}
}
