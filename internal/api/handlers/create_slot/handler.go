package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	createSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidInput          = "некорректные параметры слота"
	msgNotFound              = "специалист не найден"
	msgForbidden             = "доступ запрещен"
	msgSlotInPast            = "слот не может начинаться в прошлом"
	msgSlotOverlaps          = "слот пересекается с существующим"
)

type Handler struct {
	useCase CreateSlotUseCase
	logger  Logger
}

func NewHandler(useCase CreateSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/professionals/{id}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /professionals/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.useCase.CreateSingle(r.Context(), req.ToUseCaseRequest(professionalID, userID))
	if err != nil {
		switch {
		case errors.Is(err, createSlots.ErrInvalidInput):
			h.logger.Warn("POST /professionals/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createSlots.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createSlots.ErrForbidden):
			h.logger.Warn("POST /professionals/{id}/slots - Access denied: professional_id=%s, user_id=%s",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createSlots.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createSlots.ErrSlotOverlaps):
			handlers.RespondConflict(w, msgSlotOverlaps)

		default:
			h.logger.Error("POST /professionals/{id}/slots - Failed to create slot: professional_id=%s, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /professionals/{id}/slots - Slot created: slot_id=%s, professional_id=%s",
		slot.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainSlot(slot))
}
