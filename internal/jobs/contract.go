package jobs

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_booking_status"
)

type BookingRepository interface {
	ListConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]*domain.Booking, error)
}

type BookingCompleter interface {
	AutoComplete(ctx context.Context, bookingID string) (*changeStatus.Response, error)
}

type SlotRepository interface {
	DeleteUnbookedEndedBefore(ctx context.Context, t time.Time) (int64, error)
}

type Metrics interface {
	IncJobRun(job, result string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
