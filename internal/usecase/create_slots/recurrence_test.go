package create_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestGenerateCandidates_WeekdaysAndWindow(t *testing.T) {
	// 2025-10-13 понедельник
	req := &RecurringRequest{
		Weekdays:            []time.Weekday{time.Monday, time.Wednesday},
		StartTime:           "09:00",
		EndTime:             "11:00",
		SlotDurationMinutes: 45,
		BreakMinutes:        15,
		FromDate:            time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		ToDate:              time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC),
	}

	got, err := generateCandidates(req, time.UTC, 100)
	require.NoError(t, err)

	// 09:00-09:45, 10:00-10:45 (10:45 + 15 = 11:00, следующий не помещается) на пн и ср
	require.Len(t, got, 4)
	assert.Equal(t, time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC), got[0].start)
	assert.Equal(t, time.Date(2025, 10, 13, 9, 45, 0, 0, time.UTC), got[0].end)
	assert.Equal(t, time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC), got[1].start)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC), got[2].start)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 45, 0, 0, time.UTC), got[3].end)
}

func TestGenerateCandidates_LastSlotEndsAtWindowEnd(t *testing.T) {
	req := &RecurringRequest{
		Weekdays:            []time.Weekday{time.Tuesday},
		StartTime:           "14:00",
		EndTime:             "15:30",
		SlotDurationMinutes: 30,
		FromDate:            time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		ToDate:              time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
	}

	got, err := generateCandidates(req, time.UTC, 100)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2025, 10, 14, 15, 30, 0, 0, time.UTC), got[2].end)
}

func TestGenerateCandidates_UsesLocalWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	req := &RecurringRequest{
		Weekdays:            []time.Weekday{time.Wednesday},
		StartTime:           "09:00",
		EndTime:             "10:00",
		SlotDurationMinutes: 60,
		FromDate:            time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		ToDate:              time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	}

	got, err := generateCandidates(req, loc, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2025, 10, 15, 6, 0, 0, 0, time.UTC), got[0].start.UTC())
}

func TestGenerateCandidates_Limit(t *testing.T) {
	req := &RecurringRequest{
		Weekdays:            []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartTime:           "08:00",
		EndTime:             "20:00",
		SlotDurationMinutes: 5,
		FromDate:            time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		ToDate:              time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
	}

	_, err := generateCandidates(req, time.UTC, domain.MaxRecurringSlots)
	assert.ErrorIs(t, err, ErrTooManySlots)
}

func TestPartitionCandidates(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return time.Date(2025, 10, 15, h, m, 0, 0, time.UTC) }

	candidates := []candidate{
		{start: at(11, 0), end: at(11, 30)},  // пересекается с существующим
		{start: at(9, 0), end: at(9, 30)},    // уже прошёл
		{start: at(10, 0), end: at(10, 30)},  // ок
		{start: at(10, 15), end: at(10, 45)}, // пересекается с предыдущим кандидатом
		{start: at(12, 0), end: at(12, 30)},  // ок: существующий отменён
		{start: at(11, 30), end: at(12, 0)},  // ок: впритык к существующему
	}
	existing := []*domain.AvailabilitySlot{
		{ID: "busy", StartDate: at(11, 0), EndDate: at(11, 30)},
		{ID: "gone", StartDate: at(12, 0), EndDate: at(12, 30), IsCancelled: true},
	}

	accepted, skipped := partitionCandidates(candidates, existing, now)

	require.Len(t, accepted, 3)
	assert.Equal(t, at(10, 0), accepted[0].start)
	assert.Equal(t, at(11, 30), accepted[1].start)
	assert.Equal(t, at(12, 0), accepted[2].start)

	reasons := map[time.Time]SkipReason{}
	for _, s := range skipped {
		reasons[s.StartDate] = s.Reason
	}
	assert.Equal(t, map[time.Time]SkipReason{
		at(9, 0):   SkipPast,
		at(10, 15): SkipOverlapsBatch,
		at(11, 0):  SkipOverlapsExisting,
	}, reasons)
}
