package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/roomledger/roomledger_backend/internal/platform/broadcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliversToAllSubscribers(t *testing.T) {
	hub := broadcast.NewHub()
	defer hub.Close()

	chA, cancelA := hub.Subscribe()
	defer cancelA()
	chB, cancelB := hub.Subscribe()
	defer cancelB()

	require.NoError(t, hub.DataChanged(context.Background()))

	for _, ch := range []<-chan broadcast.Event{chA, chB} {
		select {
		case event := <-ch:
			assert.Equal(t, "data_changed", event.Name)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := broadcast.NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic.
	require.NoError(t, hub.DataChanged(context.Background()))
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := broadcast.NewHub()
	defer hub.Close()

	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(broadcast.Event{Name: "data_changed", At: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
