// Package storage persists dispatch submissions, their parsed output rows and
// processing status.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"dispatch_parser/internal/dispatch"
)

// ErrNotFound is returned when no submission has the given key.
var ErrNotFound = errors.New("submission not found")

// Submission sources.
const (
	SourceText = "text"
	SourceForm = "form"
)

// Submission is one dispatch request as received, with its output row once
// parsed. RowNo is the No. column of the output row, or 0 before appending.
type Submission struct {
	Key        string           `json:"key"`
	ContractNo string           `json:"contract_no"`
	Source     string           `json:"source"`
	Content    string           `json:"content"`
	Status     dispatch.Status  `json:"status"`
	RowNo      int              `json:"row_no,omitempty"`
	Record     *dispatch.Record `json:"record,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Sink appends parsed rows. Appending twice for one key returns the first
// row's number. strategy records which parser produced the row.
type Sink interface {
	Append(ctx context.Context, key string, rec *dispatch.Record, strategy string) (int, error)
}

// StatusStore tracks the processing status of submissions.
type StatusStore interface {
	SetStatus(ctx context.Context, key string, status dispatch.Status) error
	GetStatus(ctx context.Context, key string) (dispatch.Status, error)
}

// Store is a complete submission store.
type Store interface {
	Sink
	StatusStore
	// Register records a submission with status 대기. A submission whose key
	// already exists is returned unchanged with created false.
	Register(ctx context.Context, sub Submission) (stored *Submission, created bool, err error)
	Get(ctx context.Context, key string) (*Submission, error)
	List(ctx context.Context, p ListParams) ([]Submission, error)
	Close() error
}

// ListParams filters List.
type ListParams struct {
	Status     dispatch.Status // Exact match.
	ContractNo string          // Exact match.
	Limit      int             // Max results (default 100).
	Offset     int
}

func (p ListParams) limit() int {
	if p.Limit <= 0 || p.Limit > 1000 {
		return 100
	}
	return p.Limit
}

// Fingerprint derives the submission key from the contract number and the
// submitted content, so resubmitting identical input finds the same row.
func Fingerprint(contractNo, content string) string {
	h := xxhash.New()
	_, _ = h.WriteString(strings.TrimSpace(contractNo))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strings.TrimSpace(content))
	return fmt.Sprintf("%016x", h.Sum64())
}
