package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Type тип события
type Type string

const (
	SlotCreated   Type = "slot.created"
	SlotBooked    Type = "slot.booked"
	SlotReleased  Type = "slot.released"
	SlotCancelled Type = "slot.cancelled"
	SlotDeleted   Type = "slot.deleted"

	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status_changed"
)

// TopicAll подписка на все события
const TopicAll = "*"

// Event изменение слота или бронирования
type Event struct {
	ID             string                   `json:"id"`
	Type           Type                     `json:"type"`
	ProfessionalID string                   `json:"professionalId"`
	ClientID       string                   `json:"clientId,omitempty"`
	Slot           *domain.AvailabilitySlot `json:"slot,omitempty"`
	Booking        *domain.Booking          `json:"booking,omitempty"`
	OccurredAt     time.Time                `json:"occurredAt"`
}

// SlotTopic топик изменений слотов специалиста
func SlotTopic(professionalID string) string {
	return "slots:" + professionalID
}

// ProfessionalBookingsTopic топик бронирований специалиста
func ProfessionalBookingsTopic(professionalID string) string {
	return "bookings:professional:" + professionalID
}

// ClientBookingsTopic топик бронирований клиента
func ClientBookingsTopic(clientID string) string {
	return "bookings:client:" + clientID
}

// NewSlotEvent событие по слоту
func NewSlotEvent(t Type, slot *domain.AvailabilitySlot) Event {
	e := Event{
		ID:             uuid.NewString(),
		Type:           t,
		ProfessionalID: slot.ProfessionalID,
		Slot:           slot,
		OccurredAt:     time.Now().UTC(),
	}
	if slot.BookedByUID != nil {
		e.ClientID = *slot.BookedByUID
	}
	return e
}

// NewBookingEvent событие по бронированию
func NewBookingEvent(t Type, booking *domain.Booking) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           t,
		ProfessionalID: booking.ProfessionalID,
		ClientID:       booking.ClientID,
		Booking:        booking,
		OccurredAt:     time.Now().UTC(),
	}
}

// Topics топики, в которые доставляется событие (кроме TopicAll)
func (e Event) Topics() []string {
	if e.Booking != nil {
		topics := []string{ProfessionalBookingsTopic(e.ProfessionalID)}
		if e.ClientID != "" {
			topics = append(topics, ClientBookingsTopic(e.ClientID))
		}
		return topics
	}
	return []string{SlotTopic(e.ProfessionalID)}
}
