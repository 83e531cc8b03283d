package get_slots

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

// ToServiceRequest создает запрос к сервису из query параметров
// Без from берётся текущий момент, без to - период по умолчанию от from
func ToServiceRequest(r *http.Request, professionalID, viewerID string, now time.Time) (*models.ListSlotsRequest, error) {
	req := &models.ListSlotsRequest{
		ProfessionalID: professionalID,
		ViewerID:       viewerID,
	}

	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return nil, err
	}

	req.From = now
	if from != nil {
		req.From = *from
	}
	req.To = req.From.AddDate(0, 0, domain.DefaultCalendarListDays)
	if to != nil {
		req.To = *to
	}

	if v := r.URL.Query().Get("includeCancelled"); v != "" {
		includeCancelled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
