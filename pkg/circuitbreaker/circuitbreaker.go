package circuitbreaker

import "github.com/sony/gobreaker"

var (
	// MaxNumOfFailingRequests is the number of observed requests below which
	// the breaker never trips.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the failure ratio at which the breaker opens.
	FailingRatio = 0.6
)

// NewCircuitBreaker returns the *gobreaker.CircuitBreaker guarding the
// daemon's outbound HTTP calls (token-ledger transfers, webhook deliveries).
// It opens once more than MaxNumOfFailingRequests calls have been observed
// and at least FailingRatio of them failed.
func NewCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "escrow outbound",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
	})
}
