package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Overlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}
	b := &Booking{StartDate: day(10), EndDate: day(15)}

	t.Run("Inside", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(11), day(14)))
	})

	t.Run("Surrounds", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(9), day(16)))
	})

	t.Run("OverlapsStart", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(8), day(11)))
	})

	t.Run("OverlapsEnd", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(14), day(18)))
	})

	t.Run("TouchingEndpointsAreAdjacent", func(t *testing.T) {
		// Выезд и заезд в один день не конфликтуют
		assert.False(t, b.Overlaps(day(15), day(20)))
		assert.False(t, b.Overlaps(day(5), day(10)))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.False(t, b.Overlaps(day(20), day(25)))
	})
}

func TestBooking_StatusHelpers(t *testing.T) {
	tests := []struct {
		status   string
		active   bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusConfirmed, true, false},
		{StatusCancelled, false, true},
		{StatusCompleted, false, true},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		assert.Equal(t, tt.active, b.IsActive(), tt.status)
		assert.Equal(t, tt.terminal, b.IsTerminal(), tt.status)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusCompleted},
		{StatusConfirmed, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusCancelled, StatusPending},
		{StatusCompleted, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("approved"))
	assert.False(t, ValidStatus(""))
}

func TestValidPropertyType(t *testing.T) {
	for code := range PropertyTypes {
		assert.True(t, ValidPropertyType(code), code)
	}
	assert.False(t, ValidPropertyType("ZZ"))
	assert.False(t, ValidPropertyType(""))
	assert.False(t, ValidPropertyType("ap"))
}
