package create_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotParams общие параметры создаваемых слотов
type SlotParams struct {
	Type     domain.SlotType
	Location *string // Обязателен для in_person
	Price    float64
}

// SingleRequest запрос на создание одного слота
type SingleRequest struct {
	ActorID        string // UID пользователя, выполняющего запрос
	ProfessionalID string
	StartDate      time.Time
	EndDate        time.Time
	SlotParams
}

// RecurringRequest шаблон повторяющихся слотов
type RecurringRequest struct {
	ActorID        string
	ProfessionalID string

	Weekdays            []time.Weekday
	StartTime           types.TimeString // Начало окна в течение дня ("09:00")
	EndTime             types.TimeString // Конец окна ("17:00"), последний слот заканчивается не позже
	SlotDurationMinutes int
	BreakMinutes        int       // Перерыв между соседними слотами
	FromDate            time.Time // Первый день (включительно), учитывается только дата
	ToDate              time.Time // Последний день (включительно)
	Timezone            string    // IANA, например "Europe/Berlin"

	SlotParams
}

// SkipReason причина, по которой кандидат не был создан
type SkipReason string

const (
	SkipPast             SkipReason = "past"
	SkipOverlapsExisting SkipReason = "overlaps_existing"
	SkipOverlapsBatch    SkipReason = "overlaps_batch"
)

// SkippedSlot кандидат, отброшенный при генерации
type SkippedSlot struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    SkipReason
}

// RecurringResponse результат генерации
type RecurringResponse struct {
	RecurrenceID string
	Created      []*domain.AvailabilitySlot
	Skipped      []SkippedSlot
}
