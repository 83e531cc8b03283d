package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UpsertPolicyRequest запрос на изменение политики бронирования
// Поддерживает частичное обновление - nil поля сохраняют текущее значение
type UpsertPolicyRequest struct {
	UserID                    string `json:"-"`
	MinBookingNoticeMinutes   *int   `json:"minBookingNoticeMinutes,omitempty"`
	AdvanceBookingDays        *int   `json:"advanceBookingDays,omitempty"`
	AutoConfirm               *bool  `json:"autoConfirm,omitempty"`
	CancellationNoticeMinutes *int   `json:"cancellationNoticeMinutes,omitempty"`
}

// ApplyToPolicy применяет обновления к политике
func (r *UpsertPolicyRequest) ApplyToPolicy(p *domain.BookingPolicy) {
	if r.MinBookingNoticeMinutes != nil {
		p.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.AutoConfirm != nil {
		p.AutoConfirm = *r.AutoConfirm
	}
	if r.CancellationNoticeMinutes != nil {
		p.CancellationNoticeMinutes = *r.CancellationNoticeMinutes
	}
}

// PolicyResponse ответ с политикой бронирования
type PolicyResponse struct {
	ProfessionalID            string     `json:"professionalId"`
	MinBookingNoticeMinutes   int        `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays        int        `json:"advanceBookingDays"` // 0 = без ограничений
	AutoConfirm               bool       `json:"autoConfirm"`
	CancellationNoticeMinutes int        `json:"cancellationNoticeMinutes"`
	IsDefault                 bool       `json:"isDefault"` // Специалист не задавал политику
	UpdatedAt                 *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy, isDefault bool) *PolicyResponse {
	resp := &PolicyResponse{
		ProfessionalID:            p.ProfessionalID,
		MinBookingNoticeMinutes:   p.MinBookingNoticeMinutes,
		AdvanceBookingDays:        p.AdvanceBookingDays,
		AutoConfirm:               p.AutoConfirm,
		CancellationNoticeMinutes: p.CancellationNoticeMinutes,
		IsDefault:                 isDefault,
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
