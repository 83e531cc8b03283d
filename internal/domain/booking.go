package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Actor роль участника, меняющего статус бронирования
type Actor string

const (
	ActorClient       Actor = "client"
	ActorProfessional Actor = "professional"
	ActorSystem       Actor = "system" // фоновые задачи
)

// transitions допустимые переходы статусов и кто их может выполнить
var transitions = map[BookingStatus]map[BookingStatus][]Actor{
	StatusPending: {
		StatusConfirmed: {ActorProfessional},
		StatusRejected:  {ActorProfessional},
		StatusCancelled: {ActorClient, ActorProfessional},
	},
	StatusConfirmed: {
		StatusCompleted: {ActorProfessional, ActorSystem},
		StatusCancelled: {ActorClient, ActorProfessional},
	},
}

// Booking represents a client's reservation against a slot
type Booking struct {
	ID              string
	SlotID          string
	ProfessionalID  string
	ClientID        string
	AppointmentDate time.Time
	DurationMinutes int
	Type            SlotType
	Location        *string
	Fee             float64
	Status          BookingStatus

	// Denormalized client data for the professional's view
	ClientName  *string
	ClientEmail *string
	Notes       *string

	StatusReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndDate returns the moment the appointment ends
func (b *Booking) EndDate() time.Time {
	return b.AppointmentDate.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// IsActive returns true if the booking holds its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending ||
		b.Status == StatusConfirmed ||
		b.Status == StatusCompleted
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return len(transitions[b.Status]) == 0
}

// CanTransition returns true if actor may move the booking to status to
func (b *Booking) CanTransition(to BookingStatus, actor Actor) bool {
	allowed, ok := transitions[b.Status][to]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == actor {
			return true
		}
	}
	return false
}

// ReleasesSlot returns true if moving to status frees the slot for other clients
func ReleasesSlot(status BookingStatus) bool {
	return status == StatusRejected || status == StatusCancelled
}

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ProfessionalBookingsFilter фильтр для получения бронирований специалиста
type ProfessionalBookingsFilter struct {
	ProfessionalID  string         // Обязательный параметр
	From            *time.Time     // Начало периода (по дате приёма)
	To              *time.Time     // Конец периода (не включая)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отклонённые и отменённые
}
