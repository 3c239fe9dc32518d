// Package intake runs submissions through the engine and records their rows
// and status in a store.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/engine"
	"dispatch_parser/internal/storage"
)

// Receipt describes a processed submission.
type Receipt struct {
	Key     string          `json:"key"`
	RowNo   int             `json:"row_no,omitempty"`
	Status  dispatch.Status `json:"status"`
	Result  *engine.Result  `json:"result,omitempty"`
	Row     []string        `json:"row,omitempty"`
	Replay  bool            `json:"replay,omitempty"` // Already processed; nothing was re-parsed.
	Missing []string        `json:"missing_required,omitempty"`
}

// Service moves submissions through 대기 → 처리중 → 처리완료 | 처리오류.
type Service struct {
	engine *engine.Engine
	store  storage.Store
	logger zerolog.Logger
}

// NewService creates a service.
func NewService(e *engine.Engine, store storage.Store, logger zerolog.Logger) *Service {
	return &Service{engine: e, store: store, logger: logger}
}

// SubmitText parses a free-text request and appends its row.
func (s *Service) SubmitText(ctx context.Context, req *dispatch.Request) (*Receipt, error) {
	if req == nil {
		return nil, dispatch.ErrNoInput
	}
	key := storage.Fingerprint(req.ContractNo, req.Text)

	return s.process(ctx, storage.Submission{
		Key:        key,
		ContractNo: req.ContractNo,
		Source:     storage.SourceText,
		Content:    req.Text,
	}, func() (*engine.Result, error) {
		return s.engine.ParseText(ctx, req)
	})
}

// SubmitFields builds a record from pre-split fields and appends its row.
// A validation failure marks the submission 처리오류 and returns the
// *dispatch.ValidationError alongside the receipt.
func (s *Service) SubmitFields(ctx context.Context, f *dispatch.Fields) (*Receipt, error) {
	if f == nil {
		return nil, dispatch.ErrNoInput
	}
	content, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	key := storage.Fingerprint(f.ContractNo, string(content))

	return s.process(ctx, storage.Submission{
		Key:        key,
		ContractNo: f.ContractNo,
		Source:     storage.SourceForm,
		Content:    string(content),
	}, func() (*engine.Result, error) {
		return s.engine.ParseFields(f)
	})
}

func (s *Service) process(ctx context.Context, sub storage.Submission, parse func() (*engine.Result, error)) (*Receipt, error) {
	log := s.logger.With().Str("key", sub.Key).Str("contract_no", sub.ContractNo).Logger()

	stored, created, err := s.store.Register(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("register submission: %w", err)
	}
	if !created && stored.Status == dispatch.StatusComplete && stored.Record != nil {
		log.Info().Int("row_no", stored.RowNo).Msg("submission already processed")
		return &Receipt{
			Key:    stored.Key,
			RowNo:  stored.RowNo,
			Status: stored.Status,
			Result: &engine.Result{Record: stored.Record, Missing: stored.Record.Missing()},
			Row:    stored.Record.Row(stored.RowNo),
			Replay: true,
		}, nil
	}

	if err := s.store.SetStatus(ctx, sub.Key, dispatch.StatusInProgress); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	res, err := parse()
	if err != nil {
		s.markError(ctx, log, sub.Key)
		receipt := &Receipt{Key: sub.Key, Status: dispatch.StatusError}
		var verr *dispatch.ValidationError
		if errors.As(err, &verr) {
			receipt.Missing = verr.Fields
		}
		return receipt, err
	}

	no, err := s.store.Append(ctx, sub.Key, res.Record, res.Strategy)
	if err != nil {
		s.markError(ctx, log, sub.Key)
		return nil, fmt.Errorf("append row: %w", err)
	}
	if err := s.store.SetStatus(ctx, sub.Key, dispatch.StatusComplete); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	log.Info().
		Int("row_no", no).
		Str("strategy", res.Strategy).
		Str("state", string(res.State)).
		Msg("submission processed")

	return &Receipt{
		Key:    sub.Key,
		RowNo:  no,
		Status: dispatch.StatusComplete,
		Result: res,
		Row:    res.Record.Row(no),
	}, nil
}

func (s *Service) markError(ctx context.Context, log zerolog.Logger, key string) {
	if err := s.store.SetStatus(ctx, key, dispatch.StatusError); err != nil {
		log.Error().Err(err).Msg("failed to mark submission as failed")
	}
}

// SetStatus updates a submission's status by key.
func (s *Service) SetStatus(ctx context.Context, key string, status dispatch.Status) error {
	return s.store.SetStatus(ctx, key, status)
}

// Get returns a stored submission.
func (s *Service) Get(ctx context.Context, key string) (*storage.Submission, error) {
	return s.store.Get(ctx, key)
}

// List returns stored submissions.
func (s *Service) List(ctx context.Context, p storage.ListParams) ([]storage.Submission, error) {
	return s.store.List(ctx, p)
}
