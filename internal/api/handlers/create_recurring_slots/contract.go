package create_recurring_slots

import (
	"context"

	createSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
)

type GenerateSlotsUseCase interface {
	GenerateRecurring(ctx context.Context, req *createSlots.RecurringRequest) (*createSlots.RecurringResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
