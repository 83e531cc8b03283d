package watch_events

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	availabilityModels "github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	bookingModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// EventMessage сообщение, отправляемое подписчику
type EventMessage struct {
	ID             string                           `json:"id"`
	Type           string                           `json:"type"`
	ProfessionalID string                           `json:"professionalId"`
	Slot           *availabilityModels.SlotResponse `json:"slot,omitempty"`
	Booking        *bookingModels.BookingResponse   `json:"booking,omitempty"`
	OccurredAt     time.Time                        `json:"occurredAt"`
}

// FromEvent конвертирует событие в сообщение с учётом прав наблюдателя
// Данные бронирования видят только его клиент и владелец профиля
func FromEvent(e events.Event, viewerID string, owner bool) *EventMessage {
	msg := &EventMessage{
		ID:             e.ID,
		Type:           string(e.Type),
		ProfessionalID: e.ProfessionalID,
		OccurredAt:     e.OccurredAt,
	}

	privileged := owner || (e.ClientID != "" && e.ClientID == viewerID)

	if e.Slot != nil {
		slot := availabilityModels.FromDomainSlot(e.Slot)
		if !privileged {
			slot = slot.Public()
		}
		msg.Slot = slot
	}
	if e.Booking != nil && privileged {
		msg.Booking = bookingModels.FromDomainBooking(e.Booking)
	}

	return msg
}
