package create_recurring_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidInput          = "некорректный шаблон расписания"
	msgNotFound              = "специалист не найден"
	msgForbidden             = "доступ запрещен"
	msgTooManySlots          = "шаблон порождает слишком много слотов"
	msgConflict              = "расписание изменилось, повторите запрос"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/professionals/{id}/slots/recurring
// Прошедшие и пересекающиеся кандидаты не создаются и возвращаются в skipped
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/slots/recurring - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body CreateRecurringRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /professionals/{id}/slots/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req, err := body.ToUseCaseRequest(professionalID, userID)
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/slots/recurring - Invalid template: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	result, err := h.useCase.GenerateRecurring(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, createSlots.ErrInvalidInput):
			h.logger.Warn("POST /professionals/{id}/slots/recurring - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createSlots.ErrTooManySlots):
			handlers.RespondBadRequest(w, msgTooManySlots)

		case errors.Is(err, createSlots.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createSlots.ErrForbidden):
			h.logger.Warn("POST /professionals/{id}/slots/recurring - Access denied: professional_id=%s, user_id=%s",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createSlots.ErrSlotOverlaps):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /professionals/{id}/slots/recurring - Failed to generate slots: professional_id=%s, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /professionals/{id}/slots/recurring - Generated: professional_id=%s, created=%d, skipped=%d",
		professionalID, len(result.Created), len(result.Skipped))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
