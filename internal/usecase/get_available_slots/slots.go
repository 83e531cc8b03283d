package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// bookingWindow сужает запрошенный период до окна, в котором политика разрешает бронировать
// Начало не раньше now + minBookingNotice; при ограничении advanceBookingDays конец не позже
// полуночи дня now + advanceBookingDays + 1
func bookingWindow(from, to, now time.Time, policy *domain.BookingPolicy) (time.Time, time.Time) {
	earliest := now.Add(time.Duration(policy.MinBookingNoticeMinutes) * time.Minute)
	if from.After(earliest) {
		earliest = from
	}

	latest := to
	if limit, ok := policy.BookingHorizon(now); ok {
		if limit.Before(latest) {
			latest = limit
		}
	}

	return earliest, latest
}

// filterBookable оставляет слоты, начинающиеся внутри окна [from, to)
func filterBookable(slots []*domain.AvailabilitySlot, from, to time.Time) []*domain.AvailabilitySlot {
	result := make([]*domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsBooked || slot.IsCancelled {
			continue
		}
		if slot.StartDate.Before(from) || !slot.StartDate.Before(to) {
			continue
		}
		result = append(result, slot)
	}
	return result
}
