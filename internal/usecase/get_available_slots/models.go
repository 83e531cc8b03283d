package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProfessionalID string
	From           time.Time // Начало периода
	To             time.Time // Конец периода (не включая)
}

// Response модель ответа со списком слотов, доступных для бронирования
type Response struct {
	ProfessionalID string
	From           time.Time // Фактическое начало окна с учётом политики
	To             time.Time // Фактический конец окна с учётом политики
	Slots          []*domain.AvailabilitySlot
}
