package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewInProcessBus(nil)

	var got []string
	bus.Subscribe(TopicProfileUpdated, func(payload any) {
		got = append(got, "first")
	})
	bus.Subscribe(TopicProfileUpdated, func(payload any) {
		got = append(got, "second")
	})

	bus.Publish(TopicProfileUpdated, nil)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestPublishCarriesPayload(t *testing.T) {
	bus := NewInProcessBus(nil)

	var got any
	bus.Subscribe(TopicAuthLogin, func(payload any) {
		got = payload
	})

	bus.Publish(TopicAuthLogin, "user-1")
	assert.Equal(t, "user-1", got)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInProcessBus(nil)
	assert.NotPanics(t, func() {
		bus.Publish(TopicAuthLogout, nil)
	})
}
