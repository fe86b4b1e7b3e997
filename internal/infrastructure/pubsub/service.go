package pubsub

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
	"github.com/Natnael-arch/DecentraP2P/pkg/circuitbreaker"
)

const deliveriesPerSecond = 50

// service delivers escrow notifications to registered webhook endpoints.
// Deliveries are fanned out concurrently, capped by a rate limiter and
// guarded by a circuit breaker shared across endpoints.
type service struct {
	mtx         sync.RWMutex
	subs        map[string]Subscription
	subsByTopic map[string][]string
	topics      map[string]struct{}

	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

// NewService returns a webhook SecurePubSub accepting subscriptions for the
// given topic labels (plus the any-topic wildcard).
func NewService(topics []string) ports.SecurePubSub {
	supported := make(map[string]struct{}, len(topics)+1)
	for _, topic := range topics {
		supported[topic] = struct{}{}
	}
	supported[ports.AnyTopic] = struct{}{}

	return &service{
		subs:        map[string]Subscription{},
		subsByTopic: map[string][]string{},
		topics:      supported,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		cb:          circuitbreaker.NewCircuitBreaker(),
		limiter:     ratelimit.New(deliveriesPerSecond),
	}
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	if _, ok := ws.topics[topic]; !ok {
		return "", fmt.Errorf("unknown topic %s", topic)
	}
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	ws.mtx.Lock()
	defer ws.mtx.Unlock()

	ws.subs[sub.ID] = *sub
	ws.subsByTopic[topic] = append(ws.subsByTopic[topic], sub.ID)
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	ws.mtx.Lock()
	defer ws.mtx.Unlock()

	sub, ok := ws.subs[id]
	if !ok {
		return fmt.Errorf("subscription not found")
	}
	delete(ws.subs, id)

	ids := ws.subsByTopic[sub.Event]
	for i, subID := range ids {
		if subID == id {
			ws.subsByTopic[sub.Event] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	ws.mtx.RLock()
	defer ws.mtx.RUnlock()

	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	ws.mtx.RLock()
	subs := ws.listSubscriptionsForTopic(topic)
	ws.mtx.RUnlock()

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) Close() error {
	ws.httpClient.CloseIdleConnections()
	return nil
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs := ws.getSubscriptionsForTopic(topic)
	if topic != ports.AnyTopic {
		subsForAnyTopic := ws.getSubscriptionsForTopic(ports.AnyTopic)
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

func (ws *service) getSubscriptionsForTopic(topic string) subscriptions {
	ids := ws.subsByTopic[topic]
	subs := make(subscriptions, 0, len(ids))
	for _, id := range ids {
		if sub, ok := ws.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	ws.limiter.Take()

	_, err := ws.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(
			http.MethodPost, sub.Endpoint, bytes.NewBufferString(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if sub.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			tokenString, _ := token.SignedString([]byte(sub.Secret))
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tokenString))
		}

		resp, err := ws.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("webhook replied with status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
