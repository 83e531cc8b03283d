package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_booking_status"
)

const (
	JobCompleteBookings = "complete_past_bookings"

	completeBatchSize = 200
)

// CompleteBookings переводит в completed подтверждённые бронирования,
// приём по которым закончился раньше, чем grace назад
type CompleteBookings struct {
	bookingRepo  BookingRepository
	completer    BookingCompleter
	grace        time.Duration
	timeProvider TimeProvider
	logger       Logger
}

func NewCompleteBookings(bookingRepo BookingRepository, completer BookingCompleter, grace time.Duration, logger Logger) *CompleteBookings {
	return &CompleteBookings{
		bookingRepo:  bookingRepo,
		completer:    completer,
		grace:        grace,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

func (j *CompleteBookings) Name() string {
	return JobCompleteBookings
}

// Run обрабатывает одну пачку; оставшиеся бронирования заберёт следующий запуск
func (j *CompleteBookings) Run(ctx context.Context) error {
	cutoff := j.timeProvider.Now().Add(-j.grace)

	bookings, err := j.bookingRepo.ListConfirmedEndedBefore(ctx, cutoff, completeBatchSize)
	if err != nil {
		return fmt.Errorf("list confirmed bookings: %w", err)
	}

	var completed, skipped, failed int
	for _, b := range bookings {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := j.completer.AutoComplete(ctx, b.ID)
		switch {
		case err == nil:
			completed++
		case errors.Is(err, changeStatus.ErrInvalidTransition),
			errors.Is(err, changeStatus.ErrStatusConflict),
			errors.Is(err, changeStatus.ErrBookingNotFound):
			// Статус успели изменить вручную
			skipped++
		default:
			failed++
			j.logger.Error("%s: booking id=%s: %v", JobCompleteBookings, b.ID, err)
		}
	}

	j.logger.Info("%s: completed=%d, skipped=%d, failed=%d (cutoff=%s)",
		JobCompleteBookings, completed, skipped, failed, cutoff.Format(time.RFC3339))

	if failed > 0 {
		return fmt.Errorf("%d of %d bookings failed to complete", failed, len(bookings))
	}
	return nil
}
