package watch_events

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals/models"
)

type EventSource interface {
	Subscribe(topics ...string) (<-chan events.Event, func())
}

type ProfessionalService interface {
	GetByID(ctx context.Context, id string) (*models.ProfessionalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
