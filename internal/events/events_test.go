package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	t.Run("PayloadReachesSubscriber", func(t *testing.T) {
		bus := NewBus()

		var got map[string]string
		bus.Subscribe(TypeBookingCreated, func(event Event) error {
			return json.Unmarshal(event.Payload, &got)
		})

		err := bus.PublishJSON(TypeBookingCreated, map[string]string{"id": "abc"})
		require.NoError(t, err)
		assert.Equal(t, "abc", got["id"])
	})

	t.Run("OnlyMatchingTypeNotified", func(t *testing.T) {
		bus := NewBus()

		calls := 0
		bus.Subscribe(TypeBookingCancelled, func(Event) error {
			calls++
			return nil
		})

		require.NoError(t, bus.PublishJSON(TypeBookingCreated, struct{}{}))
		assert.Equal(t, 0, calls)

		require.NoError(t, bus.PublishJSON(TypeBookingCancelled, struct{}{}))
		assert.Equal(t, 1, calls)
	})

	t.Run("NoSubscribersIsFine", func(t *testing.T) {
		bus := NewBus()
		assert.NoError(t, bus.PublishJSON(TypeBookingCreated, struct{}{}))
	})

	t.Run("UnmarshalablePayload", func(t *testing.T) {
		bus := NewBus()
		assert.Error(t, bus.PublishJSON(TypeBookingCreated, make(chan int)))
	})
}
