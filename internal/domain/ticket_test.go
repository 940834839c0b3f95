package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidTicketStatus(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed} {
		assert.True(t, ValidTicketStatus(status), string(status))
	}
	assert.False(t, ValidTicketStatus("ARCHIVED"))
	assert.False(t, ValidTicketStatus("open"))
	assert.False(t, ValidTicketStatus(""))
}

func TestValidTicketPriority(t *testing.T) {
	for _, priority := range []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent} {
		assert.True(t, ValidTicketPriority(priority), string(priority))
	}
	assert.False(t, ValidTicketPriority("CRITICAL"))
	assert.False(t, ValidTicketPriority(""))
}

func TestTicketShortID(t *testing.T) {
	ticket := Ticket{ID: "abcdef12-3456-7890"}
	assert.Equal(t, "abcdef12", ticket.ShortID())

	short := Ticket{ID: "abc"}
	assert.Equal(t, "abc", short.ShortID())
}

func TestCheckClosedConsistency(t *testing.T) {
	now := time.Now()

	open := Ticket{ID: "t", Status: TicketStatusOpen}
	assert.NoError(t, open.CheckClosedConsistency())

	closed := Ticket{ID: "t", Status: TicketStatusClosed, ClosedAt: &now}
	assert.NoError(t, closed.CheckClosedConsistency())

	closedWithoutStamp := Ticket{ID: "t", Status: TicketStatusClosed}
	assert.Error(t, closedWithoutStamp.CheckClosedConsistency())

	openWithStamp := Ticket{ID: "t", Status: TicketStatusOpen, ClosedAt: &now}
	assert.Error(t, openWithStamp.CheckClosedConsistency())
}
