package remoteledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
	"github.com/Natnael-arch/DecentraP2P/pkg/circuitbreaker"
)

// ledgerService talks to an external token-ledger service holding the actual
// balances and allowances. Transfer failures are surfaced verbatim to the
// caller so a failed pull aborts the whole escrow transition.
type ledgerService struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker
}

type transferRequest struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount uint64 `json:"amount"`
}

// NewLedgerService returns a ports.AssetLedger backed by the remote service
// at the given endpoint.
func NewLedgerService(endpoint string, requestTimeout time.Duration) ports.AssetLedger {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(requestTimeout)

	return &ledgerService{
		client: client,
		cb:     circuitbreaker.NewCircuitBreaker(),
	}
}

func (l *ledgerService) Pull(ctx context.Context, from string, amount uint64) error {
	return l.post(ctx, "/v1/transfers/pull", transferRequest{From: from, Amount: amount})
}

func (l *ledgerService) Push(ctx context.Context, to string, amount uint64) error {
	return l.post(ctx, "/v1/transfers/push", transferRequest{To: to, Amount: amount})
}

func (l *ledgerService) post(ctx context.Context, path string, body transferRequest) error {
	_, err := l.cb.Execute(func() (interface{}, error) {
		resp, err := l.client.R().
			SetContext(ctx).
			SetBody(body).
			Post(path)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("ledger: %s", resp.String())
		}
		return nil, nil
	})
	return err
}
