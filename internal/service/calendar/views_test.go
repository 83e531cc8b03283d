package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var msk = time.FixedZone("MSK", 3*60*60)

func slot(id string, start time.Time, minutes int) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:              id,
		ProfessionalID:  "pro-1",
		StartDate:       start,
		EndDate:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Type:            domain.SlotTypeInPerson,
	}
}

func TestMonthGrid(t *testing.T) {
	start, end := monthGrid(2025, time.October, time.UTC)
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), end)

	// Месяц, начинающийся в понедельник и заканчивающийся в воскресенье, не дополняется
	start, end = monthGrid(2025, time.September, time.UTC)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC), end)
}

func TestBuildMonth(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, msk)

	booked := slot("booked", time.Date(2025, 10, 20, 10, 0, 0, 0, msk), 60)
	booked.IsBooked = true
	cancelled := slot("cancelled", time.Date(2025, 10, 20, 12, 0, 0, 0, msk), 60)
	cancelled.IsCancelled = true

	slots := []*domain.AvailabilitySlot{
		// 22:30 UTC 14 октября = 01:30 MSK 15 октября
		slot("late-utc", time.Date(2025, 10, 14, 22, 30, 0, 0, time.UTC), 30),
		slot("free", time.Date(2025, 10, 20, 9, 0, 0, 0, msk), 60),
		booked,
		cancelled,
		slot("padding", time.Date(2025, 11, 1, 10, 0, 0, 0, msk), 60),
	}
	bookings := []*domain.Booking{
		{ID: "b1", SlotID: "booked", AppointmentDate: booked.StartDate, Status: domain.StatusConfirmed},
		{ID: "b2", SlotID: "x", AppointmentDate: booked.StartDate, Status: domain.StatusPending},
		{ID: "b3", SlotID: "y", AppointmentDate: booked.StartDate, Status: domain.StatusCancelled},
	}

	view := BuildMonth(2025, time.October, msk, now, slots, bookings)
	assert.Equal(t, "2025-10", view.Month)
	require.Len(t, view.Weeks, 5)
	for _, week := range view.Weeks {
		require.Len(t, week, 7)
	}

	cells := map[string]models.DayCell{}
	for _, week := range view.Weeks {
		for _, c := range week {
			cells[c.Date] = c
		}
	}

	assert.False(t, cells["2025-09-29"].InMonth)
	assert.True(t, cells["2025-10-01"].InMonth)
	assert.False(t, cells["2025-11-02"].InMonth)

	assert.True(t, cells["2025-10-15"].IsToday)
	assert.True(t, cells["2025-10-14"].IsPast)
	assert.Equal(t, 1, cells["2025-10-15"].TotalSlots)
	assert.Equal(t, 0, cells["2025-10-14"].TotalSlots)

	day := cells["2025-10-20"]
	assert.Equal(t, 3, day.TotalSlots)
	assert.Equal(t, 1, day.AvailableSlots)
	assert.Equal(t, 1, day.BookedSlots)
	assert.Equal(t, 1, day.CancelledSlots)
	assert.Equal(t, 1, day.PendingBookings)
	assert.Equal(t, 1, day.ConfirmedBookings)

	assert.Equal(t, 1, cells["2025-11-01"].TotalSlots)
}

func TestBuildDay(t *testing.T) {
	now := time.Date(2025, 10, 15, 11, 0, 0, 0, msk)
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, msk)

	booked := slot("booked", time.Date(2025, 10, 15, 14, 0, 0, 0, msk), 50)
	booked.IsBooked = true
	booked.BookedByUID = ptr.Ptr("client")
	cancelled := slot("cancelled", time.Date(2025, 10, 15, 16, 0, 0, 0, msk), 50)
	cancelled.IsCancelled = true

	slots := []*domain.AvailabilitySlot{
		cancelled,
		slot("free", time.Date(2025, 10, 15, 12, 0, 0, 0, msk), 50),
		booked,
		slot("past", time.Date(2025, 10, 15, 9, 0, 0, 0, msk), 50),
		slot("tomorrow", time.Date(2025, 10, 16, 9, 0, 0, 0, msk), 50),
	}
	bookings := []*domain.Booking{
		{ID: "b1", SlotID: "booked", ClientID: "client", ClientName: ptr.Ptr("Анна"), Status: domain.StatusConfirmed},
		{ID: "b0", SlotID: "free", ClientID: "old", Status: domain.StatusCancelled},
	}

	view := BuildDay(date, msk, now, slots, bookings)
	assert.Equal(t, "2025-10-15", view.Date)
	require.Len(t, view.Entries, 4)

	var states []models.EntryState
	for _, e := range view.Entries {
		states = append(states, e.State)
	}
	assert.Equal(t, []models.EntryState{models.StatePast, models.StateAvailable, models.StateBooked, models.StateCancelled}, states)

	assert.Equal(t, "14:00", view.Entries[2].StartTime)
	assert.Equal(t, "14:50", view.Entries[2].EndTime)
	require.NotNil(t, view.Entries[2].Booking)
	assert.Equal(t, "b1", view.Entries[2].Booking.ID)
	assert.Nil(t, view.Entries[1].Booking)

	empty := BuildDay(date.AddDate(0, 0, 5), msk, now, slots, bookings)
	assert.NotNil(t, empty.Entries)
	assert.Empty(t, empty.Entries)
}

func TestBuildList(t *testing.T) {
	now := time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)
	slots := []*domain.AvailabilitySlot{
		slot("d3", time.Date(2025, 10, 17, 10, 0, 0, 0, time.UTC), 30),
		slot("d1-b", time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC), 30),
		slot("d1-a", time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), 30),
		slot("outside", time.Date(2025, 10, 25, 10, 0, 0, 0, time.UTC), 30),
	}

	view := BuildList(now, 7, time.UTC, now, slots, nil)
	assert.Equal(t, "2025-10-15", view.From)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "2025-10-15", view.Groups[0].Date)
	require.Len(t, view.Groups[0].Entries, 2)
	assert.Equal(t, "d1-a", view.Groups[0].Entries[0].SlotID)
	assert.Equal(t, "2025-10-17", view.Groups[1].Date)
}
