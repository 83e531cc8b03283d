package professionals

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ProfessionalRepository интерфейс репозитория специалистов
type ProfessionalRepository interface {
	Create(ctx context.Context, p *domain.Professional) (*domain.Professional, error)
	GetByID(ctx context.Context, id string) (*domain.Professional, error)
	GetByOwnerUID(ctx context.Context, uid string) (*domain.Professional, error)
	List(ctx context.Context, filter domain.ProfessionalFilter) ([]*domain.Professional, error)
	Update(ctx context.Context, p *domain.Professional) (*domain.Professional, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
