package list_professionals

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals/models"
)

type ProfessionalService interface {
	List(ctx context.Context, req *models.ListProfessionalsRequest) (*models.ProfessionalListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
