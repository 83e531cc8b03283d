package create_booking

import (
	availabilityModels "github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	bookingModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	bookSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID string  `json:"slotId"`
	Notes  *string `json:"notes,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking  *bookingModels.BookingResponse   `json:"booking"`
	Slot     *availabilityModels.SlotResponse `json:"slot"`
	Degraded bool                             `json:"degraded,omitempty"` // Данные клиента не удалось получить
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID string) *bookSlot.Request {
	return &bookSlot.Request{
		ClientID: clientID,
		SlotID:   r.SlotID,
		Notes:    r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:  bookingModels.FromDomainBooking(resp.Booking),
		Slot:     availabilityModels.FromDomainSlot(resp.Slot),
		Degraded: resp.Degraded,
	}
}
