package domain_test

import (
	"testing"
	"time"

	"github.com/charging-catalog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	weekdays := []domain.WorkingHours{
		{Day: 1, OpenTime: "08:00", CloseTime: "20:00"},
		{Day: 2, OpenTime: "08:00", CloseTime: "20:00"},
		{Day: 5, OpenTime: "10:00", CloseTime: "16:00"},
	}

	tests := []struct {
		name    string
		hours   []domain.WorkingHours
		weekday int
		clock   string
		want    domain.Status
	}{
		{"inside the window", weekdays, 1, "12:00", domain.StatusOpen},
		{"opening minute is open", weekdays, 1, "08:00", domain.StatusOpen},
		{"closing minute is open", weekdays, 1, "20:00", domain.StatusOpen},
		{"minute before opening", weekdays, 1, "07:59", domain.StatusClosed},
		{"minute after closing", weekdays, 1, "20:01", domain.StatusClosed},
		{"day without an entry", weekdays, 3, "12:00", domain.StatusClosed},
		{"sunday without an entry", weekdays, 7, "12:00", domain.StatusClosed},
		{"friday short hours", weekdays, 5, "10:30", domain.StatusOpen},
		{"friday outside short hours", weekdays, 5, "09:00", domain.StatusClosed},
		{"no schedule at all", nil, 1, "12:00", domain.StatusClosed},
		{"empty schedule", []domain.WorkingHours{}, 1, "12:00", domain.StatusClosed},
		{"unparseable clock", weekdays, 1, "noon", domain.StatusClosed},
		{
			"unparseable open time",
			[]domain.WorkingHours{{Day: 1, OpenTime: "eight", CloseTime: "20:00"}},
			1, "12:00", domain.StatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ResolveStatus(tt.hours, tt.weekday, tt.clock))
		})
	}
}

func TestResolveStatus_UnsortedInput(t *testing.T) {
	hours := []domain.WorkingHours{
		{Day: 6, OpenTime: "09:00", CloseTime: "18:00"},
		{Day: 2, OpenTime: "08:00", CloseTime: "20:00"},
		{Day: 4, OpenTime: "07:00", CloseTime: "22:00"},
	}

	assert.Equal(t, domain.StatusOpen, domain.ResolveStatus(hours, 2, "09:00"))
	assert.Equal(t, domain.StatusOpen, domain.ResolveStatus(hours, 6, "17:59"))
	assert.Equal(t, domain.StatusClosed, domain.ResolveStatus(hours, 5, "12:00"))
}

func TestResolveStatusAt(t *testing.T) {
	hours := []domain.WorkingHours{
		{Day: 7, OpenTime: "10:00", CloseTime: "18:00"},
	}

	t.Run("sunday maps to iso day 7", func(t *testing.T) {
		// 2026-03-01 is a Sunday.
		sunday := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
		assert.Equal(t, domain.StatusOpen, domain.ResolveStatusAt(hours, sunday))
	})

	t.Run("weekday comes from utc", func(t *testing.T) {
		// 23:00 Saturday in UTC-2 is 01:00 Sunday UTC, outside hours.
		tz := time.FixedZone("UTC-2", -2*60*60)
		saturdayLocal := time.Date(2026, 2, 28, 23, 0, 0, 0, tz)
		assert.Equal(t, domain.StatusClosed, domain.ResolveStatusAt(hours, saturdayLocal))

		// 09:00 Sunday in UTC+2 is 07:00 Sunday UTC, before opening.
		tzEast := time.FixedZone("UTC+2", 2*60*60)
		sundayEarly := time.Date(2026, 3, 1, 9, 0, 0, 0, tzEast)
		assert.Equal(t, domain.StatusClosed, domain.ResolveStatusAt(hours, sundayEarly))

		// 13:00 Sunday in UTC+2 is 11:00 Sunday UTC, open.
		sundayOpen := time.Date(2026, 3, 1, 13, 0, 0, 0, tzEast)
		assert.Equal(t, domain.StatusOpen, domain.ResolveStatusAt(hours, sundayOpen))
	})
}
