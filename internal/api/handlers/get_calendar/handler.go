package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidParams         = "некорректные параметры календаря"
	msgInvalidTimezone       = "неизвестный часовой пояс"
	msgNotFound              = "специалист не найден"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{id}/calendar
// Query params: view (month|day|list), date (YYYY-MM или YYYY-MM-DD), tz, days (для list)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/calendar - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	days, err := handlers.QueryInt(r, "days")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	viewerID, _ := middleware.GetUserID(r.Context())
	query := r.URL.Query()

	serviceReq := &models.Request{
		ProfessionalID: professionalID,
		ViewerID:       viewerID,
		View:           models.View(query.Get("view")),
		Date:           query.Get("date"),
		Timezone:       query.Get("tz"),
		Days:           days,
	}

	result, err := h.service.Get(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calendar.ErrInvalidTimezone):
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("GET /professionals/{id}/calendar - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /professionals/{id}/calendar - Failed to build calendar: professional_id=%s, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
