package pubsub

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
)

// Subscription is a webhook registration for one escrow topic.
type Subscription struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type subscriptions []Subscription

func (s subscriptions) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(s))
	for i := range s {
		sub := s[i]
		subs = append(subs, &sub)
	}
	return subs
}

// NewSubscription validates the endpoint and returns a subscription with a
// fresh id.
func NewSubscription(event, endpoint, secret string) (*Subscription, error) {
	if len(event) <= 0 {
		return nil, fmt.Errorf("missing event")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint, must be a valid URI")
	}
	id := uuid.New().String()
	return &Subscription{id, event, endpoint, secret}, nil
}

func (s *Subscription) Topic() string {
	return s.Event
}

func (s *Subscription) Id() string {
	return s.ID
}

func (s *Subscription) NotifyAt() string {
	return s.Endpoint
}

func (s *Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}

func (s *Subscription) Serialize() []byte {
	b, _ := json.Marshal(*s)
	return b
}
