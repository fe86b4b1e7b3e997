package pubsub

import (
	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
)

// multiPubSub composes several pubsub services behind one port. Publish fans
// out to every service; subscription management targets the first one, which
// is expected to be the externally-facing webhook service.
type multiPubSub struct {
	services []ports.SecurePubSub
}

// NewMultiPubSub returns the composition of the given services.
func NewMultiPubSub(services ...ports.SecurePubSub) ports.SecurePubSub {
	return &multiPubSub{services}
}

func (m *multiPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	return m.services[0].Subscribe(topic, endpoint, secret)
}

func (m *multiPubSub) Unsubscribe(topic, id string) error {
	return m.services[0].Unsubscribe(topic, id)
}

func (m *multiPubSub) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return m.services[0].ListSubscriptionsForTopic(topic)
}

func (m *multiPubSub) Publish(topic string, message string) error {
	var firstErr error
	for _, svc := range m.services {
		if err := svc.Publish(topic, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiPubSub) Close() error {
	var firstErr error
	for _, svc := range m.services {
		if err := svc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
