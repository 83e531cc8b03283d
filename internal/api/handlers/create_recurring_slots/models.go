package create_recurring_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	createSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// CreateRecurringRequest HTTP request model
type CreateRecurringRequest struct {
	Weekdays            []string `json:"weekdays"`  // ["monday", "wednesday"] или ["mon", "wed"]
	StartTime           string   `json:"startTime"` // HH:MM
	EndTime             string   `json:"endTime"`   // HH:MM
	SlotDurationMinutes int      `json:"slotDurationMinutes"`
	BreakMinutes        int      `json:"breakMinutes"`
	FromDate            string   `json:"fromDate"` // YYYY-MM-DD
	ToDate              string   `json:"toDate"`   // YYYY-MM-DD
	Timezone            string   `json:"timezone"`
	Type                string   `json:"type"`
	Location            *string  `json:"location,omitempty"`
	Price               float64  `json:"price"`
}

// SkippedSlotResponse кандидат, который не был создан
type SkippedSlotResponse struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
}

// CreateRecurringResponse HTTP response model
type CreateRecurringResponse struct {
	RecurrenceID string                `json:"recurrenceId,omitempty"`
	Created      []models.SlotResponse `json:"created"`
	Skipped      []SkippedSlotResponse `json:"skipped"`
}

func parseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdays[key]; ok {
		return d, nil
	}
	if len(key) == 3 {
		for name, d := range weekdays {
			if strings.HasPrefix(name, key) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRecurringRequest) ToUseCaseRequest(professionalID, userID string) (*createSlots.RecurringRequest, error) {
	days := make([]time.Weekday, 0, len(r.Weekdays))
	for _, s := range r.Weekdays {
		d, err := parseWeekday(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %w", err)
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime: %w", err)
	}

	fromDate, err := time.Parse(domain.DateFormat, r.FromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid fromDate: %w", err)
	}
	toDate, err := time.Parse(domain.DateFormat, r.ToDate)
	if err != nil {
		return nil, fmt.Errorf("invalid toDate: %w", err)
	}

	return &createSlots.RecurringRequest{
		ActorID:             userID,
		ProfessionalID:      professionalID,
		Weekdays:            days,
		StartTime:           startTime,
		EndTime:             endTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		BreakMinutes:        r.BreakMinutes,
		FromDate:            fromDate,
		ToDate:              toDate,
		Timezone:            r.Timezone,
		SlotParams: createSlots.SlotParams{
			Type:     domain.SlotType(r.Type),
			Location: r.Location,
			Price:    r.Price,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSlots.RecurringResponse) *CreateRecurringResponse {
	skipped := make([]SkippedSlotResponse, 0, len(resp.Skipped))
	for _, s := range resp.Skipped {
		skipped = append(skipped, SkippedSlotResponse{
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
			Reason:    string(s.Reason),
		})
	}

	return &CreateRecurringResponse{
		RecurrenceID: resp.RecurrenceID,
		Created:      models.FromDomainSlots(resp.Created),
		Skipped:      skipped,
	}
}
