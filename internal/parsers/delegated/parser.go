// Package delegated hands dispatch requests to an external model and maps
// its Korean-keyed JSON answer onto a record.
package delegated

import (
	"context"
	"fmt"
	"strings"

	"dispatch_parser/internal/dispatch"
	"dispatch_parser/internal/llm"
)

// Completer returns the raw model answer for a request.
type Completer interface {
	Complete(ctx context.Context, text, contractNo string) (string, error)
}

// Parser is the optional model-backed strategy. Any error hands the request
// back to the keyword strategy.
type Parser struct {
	client Completer
}

// New wraps a completer as a strategy.
func New(client Completer) *Parser {
	return &Parser{client: client}
}

func (p *Parser) Name() string  { return "delegated" }
func (p *Parser) Priority() int { return 10 }

// QuickCheck skips blank text so no call is made for it.
func (p *Parser) QuickCheck(req *dispatch.Request) bool {
	return req != nil && strings.TrimSpace(req.Text) != ""
}

// Parse asks the model and decodes its answer.
func (p *Parser) Parse(ctx context.Context, req *dispatch.Request) (*dispatch.Record, error) {
	if req == nil {
		return nil, dispatch.ErrNoInput
	}
	raw, err := p.client.Complete(ctx, req.Text, req.ContractNo)
	if err != nil {
		return nil, fmt.Errorf("delegated completion: %w", err)
	}
	resp, err := llm.DecodeResponse(raw)
	if err != nil {
		return nil, err
	}
	return resp.Record(req.ContractNo), nil
}
