package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  BookingStatus
		to    BookingStatus
		actor Actor
		want  bool
	}{
		{"professional accepts pending", StatusPending, StatusConfirmed, ActorProfessional, true},
		{"client cannot accept", StatusPending, StatusConfirmed, ActorClient, false},
		{"professional rejects pending", StatusPending, StatusRejected, ActorProfessional, true},
		{"client cancels pending", StatusPending, StatusCancelled, ActorClient, true},
		{"pending cannot complete", StatusPending, StatusCompleted, ActorProfessional, false},
		{"professional completes confirmed", StatusConfirmed, StatusCompleted, ActorProfessional, true},
		{"system completes confirmed", StatusConfirmed, StatusCompleted, ActorSystem, true},
		{"client cannot complete", StatusConfirmed, StatusCompleted, ActorClient, false},
		{"confirmed cannot be rejected", StatusConfirmed, StatusRejected, ActorProfessional, false},
		{"client cancels confirmed", StatusConfirmed, StatusCancelled, ActorClient, true},
		{"rejected is terminal", StatusRejected, StatusConfirmed, ActorProfessional, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, ActorClient, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, ActorClient, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransition(tt.to, tt.actor))
		})
	}
}

func TestBooking_Terminal(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusRejected}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
}

func TestBooking_IsActiveMatchesStatusLists(t *testing.T) {
	for _, s := range ActiveStatuses {
		assert.True(t, (&Booking{Status: s}).IsActive(), s)
		assert.False(t, ReleasesSlot(s), s)
	}
	for _, s := range InactiveStatuses {
		assert.False(t, (&Booking{Status: s}).IsActive(), s)
		assert.True(t, ReleasesSlot(s), s)
	}
}

func TestBooking_EndDate(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	b := &Booking{AppointmentDate: start, DurationMinutes: 45}
	assert.Equal(t, start.Add(45*time.Minute), b.EndDate())
}

func TestSlot_Overlaps(t *testing.T) {
	base := time.Date(2025, 10, 15, 11, 30, 0, 0, time.UTC)
	slot := &AvailabilitySlot{StartDate: base, EndDate: base.Add(30 * time.Minute)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"partial overlap at start", base.Add(-10 * time.Minute), base.Add(10 * time.Minute), true},
		{"contained", base.Add(5 * time.Minute), base.Add(10 * time.Minute), true},
		{"adjacent before", base.Add(-30 * time.Minute), base, false},
		{"adjacent after", base.Add(30 * time.Minute), base.Add(60 * time.Minute), false},
		{"covers", base.Add(-time.Hour), base.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slot.Overlaps(tt.start, tt.end))
		})
	}
}

func TestSlot_IsAvailable(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	future := &AvailabilitySlot{StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)}

	assert.True(t, future.IsAvailable(now))

	booked := *future
	booked.IsBooked = true
	assert.False(t, booked.IsAvailable(now))
	assert.False(t, booked.CanBeRemoved())

	cancelled := *future
	cancelled.IsCancelled = true
	assert.False(t, cancelled.IsAvailable(now))

	past := &AvailabilitySlot{StartDate: now.Add(-time.Hour), EndDate: now}
	assert.False(t, past.IsAvailable(now))
	assert.True(t, past.IsPast(now))
}

func TestBookingPolicy(t *testing.T) {
	p := DefaultBookingPolicy("pro-1")
	assert.Equal(t, StatusPending, p.InitialStatus())
	assert.False(t, p.HasAdvanceBookingLimit())

	p.AutoConfirm = true
	p.AdvanceBookingDays = 30
	assert.Equal(t, StatusConfirmed, p.InitialStatus())
	assert.True(t, p.HasAdvanceBookingLimit())
}

func TestBookingPolicy_BookingHorizon(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	p := DefaultBookingPolicy("pro-1")

	_, ok := p.BookingHorizon(now)
	assert.False(t, ok)

	p.AdvanceBookingDays = 7
	horizon, ok := p.BookingHorizon(now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), horizon)
}

func TestProfessional_IsOwnedBy(t *testing.T) {
	p := &Professional{OwnerUID: "uid-1"}
	assert.True(t, p.IsOwnedBy("uid-1"))
	assert.False(t, p.IsOwnedBy("uid-2"))
	assert.False(t, (&Professional{}).IsOwnedBy(""))
}
