package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/algoviz/internal/logging"
	"github.com/aretw0/algoviz/pkg/domain"
)

// Event types carried by the stream.
const (
	EventStep      = "step"
	EventRunStart  = "run_start"
	EventRunFinish = "run_finish"
	EventState     = "state"
)

// DefaultBufferSize is the per-subscriber queue length.
const DefaultBufferSize = 256

// Message is one serialized event. Type doubles as the SSE event name.
type Message struct {
	Type string
	Data []byte
}

// envelope is the JSON shape of a broadcast event.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StreamManager fans events out to subscribers. A subscriber that does not keep up
// loses messages instead of slowing the run down.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	buffer      int
	logger      *slog.Logger
}

// StreamOption configures a StreamManager.
type StreamOption func(*StreamManager)

// WithBufferSize sets the per-subscriber queue length.
func WithBufferSize(n int) StreamOption {
	return func(sm *StreamManager) {
		if n > 0 {
			sm.buffer = n
		}
	}
}

// WithStreamLogger sets the logger.
func WithStreamLogger(l *slog.Logger) StreamOption {
	return func(sm *StreamManager) {
		if l != nil {
			sm.logger = l
		}
	}
}

// NewStreamManager creates a manager without subscribers.
func NewStreamManager(opts ...StreamOption) *StreamManager {
	sm := &StreamManager{
		subscribers: make(map[chan Message]struct{}),
		buffer:      DefaultBufferSize,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, sm.buffer)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast serializes data and queues it for every subscriber.
func (sm *StreamManager) Broadcast(eventType string, data any) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.subscribers) == 0 {
		return
	}

	payload, err := json.Marshal(envelope{Type: eventType, Data: data})
	if err != nil {
		sm.logger.Error("stream: failed to encode event", "type", eventType, "error", err)
		return
	}
	msg := Message{Type: eventType, Data: payload}
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("stream: subscriber buffer full, dropping message", "type", eventType)
		}
	}
}

// Hooks returns the lifecycle hooks that publish into the stream.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			sm.Broadcast(EventRunStart, e)
		},
		OnStep: func(_ context.Context, e domain.StepEvent) {
			sm.Broadcast(EventStep, e)
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			sm.Broadcast(EventRunFinish, e)
		},
		OnStateChange: func(_ context.Context, e *domain.StateEvent) {
			sm.Broadcast(EventState, e)
		},
	}
}
