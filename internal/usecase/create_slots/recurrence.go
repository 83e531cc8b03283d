package create_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// candidate интервал будущего слота
type candidate struct {
	start time.Time
	end   time.Time
}

func (c candidate) overlaps(other candidate) bool {
	return c.start.Before(other.end) && c.end.After(other.start)
}

// generateCandidates раскладывает шаблон по дням диапазона
// Время начала считается по настенным часам зоны loc, поэтому переход на летнее время не сдвигает расписание.
// Возвращает ErrTooManySlots, если кандидатов больше limit
func generateCandidates(req *RecurringRequest, loc *time.Location, limit int) ([]candidate, error) {
	weekdays := make(map[time.Weekday]bool, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		weekdays[wd] = true
	}

	startMin := req.StartTime.Minutes()
	endMin := req.EndTime.Minutes()
	step := req.SlotDurationMinutes + req.BreakMinutes
	duration := time.Duration(req.SlotDurationMinutes) * time.Minute

	from, to := dateOnly(req.FromDate), dateOnly(req.ToDate)

	result := make([]candidate, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !weekdays[day.Weekday()] {
			continue
		}

		y, mo, d := day.Date()
		for m := startMin; m+req.SlotDurationMinutes <= endMin; m += step {
			start := time.Date(y, mo, d, m/60, m%60, 0, 0, loc)
			result = append(result, candidate{start: start, end: start.Add(duration)})
			if len(result) > limit {
				return nil, ErrTooManySlots
			}
		}
	}

	return result, nil
}

// partitionCandidates отбрасывает прошедшие кандидаты и пересекающиеся с существующими слотами или друг с другом
func partitionCandidates(candidates []candidate, existing []*domain.AvailabilitySlot, now time.Time) ([]candidate, []SkippedSlot) {
	sorted := make([]candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })

	accepted := make([]candidate, 0, len(sorted))
	skipped := make([]SkippedSlot, 0)

	skip := func(c candidate, reason SkipReason) {
		skipped = append(skipped, SkippedSlot{StartDate: c.start, EndDate: c.end, Reason: reason})
	}

	for _, c := range sorted {
		if !c.start.After(now) {
			skip(c, SkipPast)
			continue
		}

		if overlapsExisting(c, existing) {
			skip(c, SkipOverlapsExisting)
			continue
		}

		// accepted отсортирован по началу: достаточно проверить последний
		if n := len(accepted); n > 0 && c.overlaps(accepted[n-1]) {
			skip(c, SkipOverlapsBatch)
			continue
		}

		accepted = append(accepted, c)
	}

	return accepted, skipped
}

func overlapsExisting(c candidate, existing []*domain.AvailabilitySlot) bool {
	for _, s := range existing {
		if !s.IsCancelled && s.Overlaps(c.start, c.end) {
			return true
		}
	}
	return false
}
