package get_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidParams         = "некорректные параметры запроса"
	msgInvalidTimeRange      = "некорректный период"
	msgNotFound              = "специалист не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/professionals/{id}/slots
// Query params: from, to (RFC3339), includeCancelled (опционально, только для владельца)
// Авторизация опциональна: владелец профиля видит все слоты, остальные только доступные
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	viewerID, _ := middleware.GetUserID(r.Context())

	serviceReq, err := ToServiceRequest(r, professionalID, viewerID, h.now().UTC())
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListSlots(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrProfessionalNotFound):
			h.logger.Warn("GET /professionals/{id}/slots - Professional not found: professional_id=%s", professionalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /professionals/{id}/slots - Failed to list slots: professional_id=%s, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/slots - Slots retrieved successfully: professional_id=%s, slots_count=%d",
		professionalID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
