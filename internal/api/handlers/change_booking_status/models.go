package change_booking_status

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_booking_status"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Action string  `json:"action"` // accept, reject, complete, cancel
	Reason *string `json:"reason,omitempty"`
}

// ChangeStatusResponse HTTP response model
type ChangeStatusResponse struct {
	Booking      *models.BookingResponse `json:"booking"`
	Actor        string                  `json:"actor"`
	SlotReleased bool                    `json:"slotReleased"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *ChangeStatusRequest) ToUseCaseRequest(bookingID, userID string) *changeStatus.Request {
	return &changeStatus.Request{
		BookingID: bookingID,
		ActorID:   userID,
		Action:    changeStatus.Action(r.Action),
		Reason:    r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *changeStatus.Response) *ChangeStatusResponse {
	return &ChangeStatusResponse{
		Booking:      models.FromDomainBooking(resp.Booking),
		Actor:        string(resp.Actor),
		SlotReleased: resp.ReleasedSlot != nil,
	}
}
