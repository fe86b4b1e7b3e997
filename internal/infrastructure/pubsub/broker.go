package pubsub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
)

// Message is one notification flowing through the in-process broker.
type Message struct {
	Topic   string `json:"topic"`
	Payload string `json:"payload"`
}

// BrokerListener is one in-process consumer, typically a websocket connection.
type BrokerListener struct {
	id    string
	topic string
	ch    chan Message
}

// Chan returns the channel messages are delivered on. It is closed when the
// listener is removed or the broker shuts down.
func (l *BrokerListener) Chan() <-chan Message {
	return l.ch
}

// Broker fans escrow notifications out to in-process listeners. A slow
// listener never blocks the publishing transition: messages overflowing the
// listener's buffer are dropped.
type Broker struct {
	mtx       sync.RWMutex
	listeners map[string]*BrokerListener
	closed    bool
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{listeners: map[string]*BrokerListener{}}
}

// Listen registers a listener for the given topic, or every topic if the
// any-topic wildcard is passed.
func (b *Broker) Listen(topic string) *BrokerListener {
	listener := &BrokerListener{
		id:    uuid.New().String(),
		topic: topic,
		ch:    make(chan Message, 32),
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed {
		close(listener.ch)
		return listener
	}
	b.listeners[listener.id] = listener
	return listener
}

// StopListening removes the listener and closes its channel.
func (b *Broker) StopListening(listener *BrokerListener) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, ok := b.listeners[listener.id]; !ok {
		return
	}
	delete(b.listeners, listener.id)
	close(listener.ch)
}

// Subscribe implements the ports.SecurePubSub interface. In-process listeners
// are registered via Listen, not through the port.
func (b *Broker) Subscribe(topic, _, _ string) (string, error) {
	listener := b.Listen(topic)
	return listener.id, nil
}

// Unsubscribe implements the ports.SecurePubSub interface.
func (b *Broker) Unsubscribe(_, id string) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	listener, ok := b.listeners[id]
	if !ok {
		return nil
	}
	delete(b.listeners, id)
	close(listener.ch)
	return nil
}

// ListSubscriptionsForTopic implements the ports.SecurePubSub interface.
// In-process listeners are not exposed as portable subscriptions.
func (b *Broker) ListSubscriptionsForTopic(_ string) []ports.Subscription {
	return nil
}

// Publish implements the ports.SecurePubSub interface.
func (b *Broker) Publish(topic string, message string) error {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	for _, listener := range b.listeners {
		if listener.topic != topic && listener.topic != ports.AnyTopic {
			continue
		}
		select {
		case listener.ch <- Message{Topic: topic, Payload: message}:
		default:
		}
	}
	return nil
}

// Close implements the ports.SecurePubSub interface.
func (b *Broker) Close() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.closed = true
	for id, listener := range b.listeners {
		delete(b.listeners, id)
		close(listener.ch)
	}
	return nil
}

var _ ports.SecurePubSub = (*Broker)(nil)
