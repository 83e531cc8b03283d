package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ListSlotsRequest запрос на получение слотов специалиста
type ListSlotsRequest struct {
	ProfessionalID   string
	ViewerID         string // Пустой для анонимного запроса
	From             time.Time
	To               time.Time
	IncludeCancelled bool // Учитывается только для владельца
}

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID              string    `json:"id"`
	ProfessionalID  string    `json:"professionalId"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            string    `json:"type"`
	Location        *string   `json:"location,omitempty"`
	Price           float64   `json:"price"`
	IsBooked        bool      `json:"isBooked"`
	IsCancelled     bool      `json:"isCancelled"`
	BookedByUID     *string   `json:"bookedByUid,omitempty"`
	RecurrenceID    *string   `json:"recurrenceId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	ProfessionalID string         `json:"professionalId"`
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	Slots          []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:              s.ID,
		ProfessionalID:  s.ProfessionalID,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		DurationMinutes: s.DurationMinutes,
		Type:            string(s.Type),
		Location:        s.Location,
		Price:           s.Price,
		IsBooked:        s.IsBooked,
		IsCancelled:     s.IsCancelled,
		BookedByUID:     s.BookedByUID,
		RecurrenceID:    s.RecurrenceID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainSlots конвертирует список слотов в DTO
func FromDomainSlots(slots []*domain.AvailabilitySlot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		if resp := FromDomainSlot(s); resp != nil {
			result = append(result, *resp)
		}
	}
	return result
}

// Public скрывает данные клиента для постороннего наблюдателя
func (r *SlotResponse) Public() *SlotResponse {
	cp := *r
	cp.BookedByUID = nil
	return &cp
}
