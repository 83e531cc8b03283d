package calendar

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

// startOfDay полночь дня t в часовом поясе loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// monthGrid границы сетки месяца: с понедельника первой недели до понедельника после последней
func monthGrid(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -mondayOffset(first.Weekday()))

	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 7-mondayOffset(last.Weekday()))
	return start, end
}

// mondayOffset номер дня недели, где понедельник = 0
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// bookingsBySlot активные бронирования по ID слота
func bookingsBySlot(bookings []*domain.Booking) map[string]*domain.Booking {
	result := make(map[string]*domain.Booking, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			result[b.SlotID] = b
		}
	}
	return result
}

func entryState(slot *domain.AvailabilitySlot, now time.Time) models.EntryState {
	switch {
	case slot.IsCancelled:
		return models.StateCancelled
	case slot.IsBooked:
		return models.StateBooked
	case slot.IsPast(now):
		return models.StatePast
	}
	return models.StateAvailable
}

func buildEntry(slot *domain.AvailabilitySlot, booking *domain.Booking, loc *time.Location, now time.Time) models.Entry {
	entry := models.Entry{
		SlotID:          slot.ID,
		StartDate:       slot.StartDate,
		EndDate:         slot.EndDate,
		StartTime:       slot.StartDate.In(loc).Format(domain.TimeFormat),
		EndTime:         slot.EndDate.In(loc).Format(domain.TimeFormat),
		DurationMinutes: slot.DurationMinutes,
		State:           entryState(slot, now),
		Type:            string(slot.Type),
		Location:        slot.Location,
		Price:           slot.Price,
	}
	if booking != nil {
		entry.Booking = &models.BookingSummary{
			ID:         booking.ID,
			Status:     string(booking.Status),
			ClientID:   booking.ClientID,
			ClientName: booking.ClientName,
			Notes:      booking.Notes,
		}
	}
	return entry
}

// groupEntries раскладывает слоты по дням начала в часовом поясе loc
func groupEntries(slots []*domain.AvailabilitySlot, bookings []*domain.Booking, loc *time.Location, now time.Time) map[string][]models.Entry {
	sorted := make([]*domain.AvailabilitySlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	bySlot := bookingsBySlot(bookings)
	result := make(map[string][]models.Entry)
	for _, slot := range sorted {
		key := slot.StartDate.In(loc).Format(domain.DateFormat)
		result[key] = append(result[key], buildEntry(slot, bySlot[slot.ID], loc, now))
	}
	return result
}

// BuildMonth строит месячную сетку со счётчиками по дням
func BuildMonth(year int, month time.Month, loc *time.Location, now time.Time,
	slots []*domain.AvailabilitySlot, bookings []*domain.Booking) *models.MonthView {
	start, end := monthGrid(year, month, loc)
	today := startOfDay(now, loc)

	cells := make(map[string]*models.DayCell)
	var weeks [][]models.DayCell
	var week []models.DayCell
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		week = append(week, models.DayCell{
			Date:    day.Format(domain.DateFormat),
			InMonth: day.Month() == month,
			IsToday: day.Equal(today),
			IsPast:  day.Before(today),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	for w := range weeks {
		for d := range weeks[w] {
			cells[weeks[w][d].Date] = &weeks[w][d]
		}
	}

	for _, slot := range slots {
		cell, ok := cells[slot.StartDate.In(loc).Format(domain.DateFormat)]
		if !ok {
			continue
		}
		cell.TotalSlots++
		switch {
		case slot.IsCancelled:
			cell.CancelledSlots++
		case slot.IsBooked:
			cell.BookedSlots++
		case slot.IsAvailable(now):
			cell.AvailableSlots++
		}
	}

	for _, b := range bookings {
		cell, ok := cells[b.AppointmentDate.In(loc).Format(domain.DateFormat)]
		if !ok {
			continue
		}
		switch b.Status {
		case domain.StatusPending:
			cell.PendingBookings++
		case domain.StatusConfirmed:
			cell.ConfirmedBookings++
		}
	}

	return &models.MonthView{
		Month:    time.Date(year, month, 1, 0, 0, 0, 0, loc).Format(domain.MonthFormat),
		Timezone: loc.String(),
		Weeks:    weeks,
	}
}

// BuildDay строит временную шкалу дня
func BuildDay(date time.Time, loc *time.Location, now time.Time,
	slots []*domain.AvailabilitySlot, bookings []*domain.Booking) *models.DayView {
	key := startOfDay(date, loc).Format(domain.DateFormat)
	entries := groupEntries(slots, bookings, loc, now)[key]
	if entries == nil {
		entries = []models.Entry{}
	}

	return &models.DayView{
		Date:     key,
		Timezone: loc.String(),
		Entries:  entries,
	}
}

// BuildList строит список записей на days дней начиная с from, пропуская пустые дни
func BuildList(from time.Time, days int, loc *time.Location, now time.Time,
	slots []*domain.AvailabilitySlot, bookings []*domain.Booking) *models.ListView {
	start := startOfDay(from, loc)
	byDay := groupEntries(slots, bookings, loc, now)

	groups := make([]models.DayGroup, 0)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(domain.DateFormat)
		if entries, ok := byDay[key]; ok {
			groups = append(groups, models.DayGroup{Date: key, Entries: entries})
		}
	}

	return &models.ListView{
		From:     start.Format(domain.DateFormat),
		Days:     days,
		Timezone: loc.String(),
		Groups:   groups,
	}
}
