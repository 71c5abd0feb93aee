package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type capturePublisher struct {
	mu     sync.Mutex
	fail   bool
	events []string
}

func (p *capturePublisher) PublishEvent(event string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("redis down")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type captureSubscriber struct {
	mu      sync.Mutex
	handler func(event string, payload []byte)
}

func (s *captureSubscriber) Subscribe(handler func(event string, payload []byte)) (func(), error) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
	return func() {}, nil
}

func (s *captureSubscriber) deliver(event string, payload []byte) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h != nil {
		h(event, payload)
	}
}

func newTestClient() *Client {
	return &Client{
		ID:            uuid.New().String(),
		ParticipantID: uuid.New(),
		send:          make(chan WSMessage, 16),
	}
}

func drain(c *Client) []WSMessage {
	var msgs []WSMessage
	for {
		select {
		case m := <-c.send:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func TestBroadcastAndPublishReachesRedisWithoutLocalClients(t *testing.T) {
	pub := &capturePublisher{}
	hub := NewHub(zap.NewNop(), pub, &captureSubscriber{})

	hub.BroadcastAndPublish(EventSessionState, map[string]int{"current_question_index": 1})

	events := pub.published()
	if len(events) != 1 || events[0] != EventSessionState {
		t.Fatalf("expected session_state published for other instances, got %v", events)
	}
}

func TestBroadcastAndPublishSingleDeliveryWhenSubscribed(t *testing.T) {
	pub := &capturePublisher{}
	sub := &captureSubscriber{}
	hub := NewHub(zap.NewNop(), pub, sub)

	c := newTestClient()
	c.hub = hub
	hub.Register(c)
	drain(c) // discard the registration-time audience count

	hub.BroadcastAndPublish(EventVoteCast, map[string]int{"total": 3})
	if got := drain(c); len(got) != 0 {
		t.Fatalf("expected no direct local delivery while subscribed, got %v", got)
	}

	// The subscription callback performs the one local delivery.
	sub.deliver(EventVoteCast, []byte(`{"total":3}`))
	got := drain(c)
	if len(got) != 1 || got[0].Event != EventVoteCast {
		t.Fatalf("expected exactly one delivery via subscription, got %v", got)
	}
}

func TestBroadcastAndPublishFallsBackWhenPublishFails(t *testing.T) {
	pub := &capturePublisher{fail: true}
	sub := &captureSubscriber{}
	hub := NewHub(zap.NewNop(), pub, sub)

	c := newTestClient()
	c.hub = hub
	hub.Register(c)
	drain(c)

	hub.BroadcastAndPublish(EventResultRevealed, map[string]int{"index": 0})
	got := drain(c)
	if len(got) != 1 || got[0].Event != EventResultRevealed {
		t.Fatalf("expected local fallback delivery on publish failure, got %v", got)
	}
}

func TestAudienceCountStaysLocal(t *testing.T) {
	pub := &capturePublisher{}
	hub := NewHub(zap.NewNop(), pub, &captureSubscriber{})

	a := newTestClient()
	a.hub = hub
	hub.Register(a)

	got := drain(a)
	if len(got) != 1 || got[0].Event != EventAudienceCount {
		t.Fatalf("expected local audience count on register, got %v", got)
	}
	for _, e := range pub.published() {
		if e == EventAudienceCount {
			t.Fatal("per-instance audience count must not be published to redis")
		}
	}

	hub.Unregister(a)
	if n := hub.AudienceCount(); n != 0 {
		t.Fatalf("expected empty hub after unregister, got %d", n)
	}
}
