package change_booking_status

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.BookingStatus, error) {
	if req.ActorID == "" {
		return "", fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if _, err := uuid.Parse(req.BookingID); err != nil {
		return "", fmt.Errorf("%w: bookingId must be a valid UUID", ErrInvalidInput)
	}

	target, ok := req.Action.targetStatus()
	if !ok {
		return "", fmt.Errorf("%w: action must be one of: accept, reject, complete, cancel", ErrInvalidInput)
	}

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxStatusReasonLength {
		return "", fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxStatusReasonLength)
	}

	return target, nil
}
