package get_my_professional

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals/models"
)

type ProfessionalService interface {
	GetByOwner(ctx context.Context, uid string) (*models.ProfessionalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
