package domain

import "time"

// SlotType формат приёма
type SlotType string

const (
	SlotTypeOnline   SlotType = "online"
	SlotTypeInPerson SlotType = "in_person"
)

// IsValid проверяет, что тип слота известен
func (t SlotType) IsValid() bool {
	return t == SlotTypeOnline || t == SlotTypeInPerson
}

// AvailabilitySlot represents a discrete bookable time window offered by a professional
type AvailabilitySlot struct {
	ID              string
	ProfessionalID  string
	StartDate       time.Time
	EndDate         time.Time
	DurationMinutes int
	Type            SlotType
	Location        *string
	Price           float64
	IsBooked        bool
	IsCancelled     bool
	BookedByUID     *string
	RecurrenceID    *string // ID пакета слотов, созданных одним повторяющимся шаблоном

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps returns true if the slot intersects [start, end)
// Adjacent intervals (one ends exactly where the other starts) do not overlap
func (s *AvailabilitySlot) Overlaps(start, end time.Time) bool {
	return s.StartDate.Before(end) && s.EndDate.After(start)
}

// IsAvailable returns true if the slot can be booked at the moment now
func (s *AvailabilitySlot) IsAvailable(now time.Time) bool {
	return !s.IsBooked && !s.IsCancelled && s.StartDate.After(now)
}

// IsPast returns true if the slot has already started
func (s *AvailabilitySlot) IsPast(now time.Time) bool {
	return !s.StartDate.After(now)
}

// CanBeRemoved returns true if the slot may be deleted or cancelled (never while booked)
func (s *AvailabilitySlot) CanBeRemoved() bool {
	return !s.IsBooked
}

// SlotFilter фильтр для выборки слотов
type SlotFilter struct {
	ProfessionalID   string     // Обязательный параметр
	From             *time.Time // Слоты, заканчивающиеся после From
	To               *time.Time // Слоты, начинающиеся до To
	OnlyAvailable    bool       // Только не забронированные и не отменённые
	IncludeCancelled bool       // Включать ли отменённые слоты
}
