// Package events provides the in-process publish/subscribe seam the app's
// components communicate across. It replaces the browser-style custom events
// (auth login/logout, profile updates) with an explicit injected bus.
package events

import (
	"sync"

	"go.uber.org/zap"
)

// Topics published by the application.
const (
	TopicAuthLogin      = "auth:login"
	TopicAuthLogout     = "auth:logout"
	TopicProfileUpdated = "profile:updated"
)

// Handler receives the event payload. Payload may be nil for signal-only
// topics such as auth:logout.
type Handler func(payload any)

// Bus is the publish/subscribe contract components depend on.
type Bus interface {
	Subscribe(topic string, h Handler)
	Publish(topic string, payload any)
}

var _ Bus = (*InProcessBus)(nil)

// InProcessBus delivers events synchronously, in subscription order, on the
// publishing goroutine. Handlers must not block.
type InProcessBus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewInProcessBus(logger *zap.Logger) *InProcessBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InProcessBus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

func (b *InProcessBus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

func (b *InProcessBus) Publish(topic string, payload any) {
	b.mu.RLock()
	subscribed := b.handlers[topic]
	b.mu.RUnlock()

	b.logger.Debug("Publishing event", zap.String("topic", topic), zap.Int("subscribers", len(subscribed)))
	for _, h := range subscribed {
		h(payload)
	}
}
