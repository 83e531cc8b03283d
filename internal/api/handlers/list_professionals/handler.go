package list_professionals

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals"
	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service ProfessionalService
	logger  Logger
}

func NewHandler(service ProfessionalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals
// Query params: category, language, search, limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	offset, err := handlers.QueryInt(r, "offset")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	serviceReq := &models.ListProfessionalsRequest{
		Category: handlers.QueryString(r, "category"),
		Language: handlers.QueryString(r, "language"),
		Search:   handlers.QueryString(r, "search"),
		Limit:    limit,
		Offset:   offset,
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, professionals.ErrInvalidInput) {
			h.logger.Warn("GET /professionals - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /professionals - Failed to list professionals: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /professionals - Professionals retrieved: count=%d", len(result.Professionals))
	handlers.RespondJSON(w, http.StatusOK, result)
}
