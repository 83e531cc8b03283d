package get_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgNotFound              = "специалист не найден"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{id}/policy
// Если специалист не задавал политику, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/policy - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	result, err := h.service.Get(r.Context(), professionalID)
	if err != nil {
		if errors.Is(err, policy.ErrProfessionalNotFound) {
			h.logger.Warn("GET /professionals/{id}/policy - Professional not found: professional_id=%s", professionalID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /professionals/{id}/policy - Failed to get policy: professional_id=%s, error=%v",
			professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /professionals/{id}/policy - Policy retrieved: professional_id=%s, default=%t",
		professionalID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
