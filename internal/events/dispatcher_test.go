package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e1", Type: EventTicketCreated})
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, "e1", received[0].ID)

	// Events of other types are not delivered.
	err = dispatcher.Publish(context.Background(), Event{ID: "e2", Type: EventImportCompleted})
	require.NoError(t, err)
	require.Len(t, received, 1)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondCalled bool
	dispatcher.Subscribe(EventImportCompleted, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventImportCompleted, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventImportCompleted})
	require.NoError(t, err)
	require.True(t, secondCalled)
}
