package book_slot

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID == "" {
		return fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}

	if _, err := uuid.Parse(req.SlotID); err != nil {
		return fmt.Errorf("%w: slotId must be a valid UUID", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateBookingWindow проверяет минимальное время до приёма и горизонт бронирования
func validateBookingWindow(start, now time.Time, policy *domain.BookingPolicy) error {
	minAllowed := now.Add(time.Duration(policy.MinBookingNoticeMinutes) * time.Minute)
	if start.Before(minAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, policy.MinBookingNoticeMinutes)
	}

	// Если AdvanceBookingDays = 0, нет ограничений на дату
	horizon, ok := policy.BookingHorizon(now)
	if !ok {
		return nil
	}

	if !start.Before(horizon) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	}

	return nil
}
