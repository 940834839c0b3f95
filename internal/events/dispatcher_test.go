package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "event-1", Type: EventTicketCreated, TicketID: "ticket-1"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "ticket-1", received[0].TicketID)
}

func TestDispatcherIgnoresUnrelatedEvents(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCommentAdded}))
	assert.False(t, called)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var order []string
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		order = append(order, "first")
		return errors.New("handler failure")
	})
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	assert.Equal(t, []string{"first", "second"}, order)
}
