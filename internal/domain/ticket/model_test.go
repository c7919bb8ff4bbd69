package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketID(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	id := NewTicketID(now)
	assert.Regexp(t, `^TKT-1767225600123-\d{1,3}$`, id)
}

func TestSetStatus(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(24 * time.Hour)
	tk := &Ticket{Status: StatusOpen}

	tk.SetStatus(StatusInProgress, first)
	assert.Nil(t, tk.ResolvedAt)
	assert.Nil(t, tk.ClosedAt)

	tk.SetStatus(StatusResolved, first)
	require.NotNil(t, tk.ResolvedAt)
	tk.SetStatus(StatusResolved, later)
	assert.Equal(t, first, *tk.ResolvedAt)

	tk.SetStatus(StatusClosed, later)
	require.NotNil(t, tk.ClosedAt)
	assert.Equal(t, later, *tk.ClosedAt)
	assert.Equal(t, first, *tk.ResolvedAt)
}

func TestStatusCounts(t *testing.T) {
	var c StatusCounts
	c.Add(StatusOpen, 2)
	c.Add(StatusInProgress, 1)
	c.Add("Unknown", 9)
	assert.Equal(t, StatusCounts{Open: 2, InProgress: 1}, c)
	assert.Equal(t, 3, c.Total())
}
