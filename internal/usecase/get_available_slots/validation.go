package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if _, err := uuid.Parse(req.ProfessionalID); err != nil {
		return fmt.Errorf("%w: professionalId must be a valid UUID", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if !req.From.Before(req.To) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidTimeRange)
	}

	if req.To.Sub(req.From) > domain.MaxCalendarListDays*24*time.Hour {
		return fmt.Errorf("%w: period must not exceed %d days", ErrInvalidTimeRange, domain.MaxCalendarListDays)
	}

	return nil
}
