package create_slot

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
)

type CreateSlotUseCase interface {
	CreateSingle(ctx context.Context, req *createSlots.SingleRequest) (*domain.AvailabilitySlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
