package domain

import "time"

// ProfessionalCategory направление специалиста
type ProfessionalCategory string

const (
	CategoryDoctor       ProfessionalCategory = "doctor"
	CategoryCounselor    ProfessionalCategory = "counselor"
	CategoryLawyer       ProfessionalCategory = "lawyer"
	CategorySocialWorker ProfessionalCategory = "social_worker"
	CategoryOther        ProfessionalCategory = "other"
)

// IsValid проверяет, что категория известна
func (c ProfessionalCategory) IsValid() bool {
	switch c {
	case CategoryDoctor, CategoryCounselor, CategoryLawyer, CategorySocialWorker, CategoryOther:
		return true
	}
	return false
}

// Professional represents a service provider who publishes slots
type Professional struct {
	ID             string
	OwnerUID       string // UID учётной записи у провайдера аутентификации
	Name           string
	Category       ProfessionalCategory
	Specialization *string
	Bio            *string
	Languages      []string
	Location       *string
	Email          *string
	Phone          *string
	IsVerified     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if uid manages this profile
func (p *Professional) IsOwnedBy(uid string) bool {
	return uid != "" && p.OwnerUID == uid
}

// ProfessionalFilter фильтр каталога специалистов
type ProfessionalFilter struct {
	Category *ProfessionalCategory
	Language *string
	Search   *string // Поиск по имени и специализации (ILIKE)
	Limit    int
	Offset   int
}

// BookingPolicy правила бронирования специалиста
type BookingPolicy struct {
	ProfessionalID            string
	MinBookingNoticeMinutes   int  // Минимальное время до начала приёма при бронировании
	AdvanceBookingDays        int  // 0 = unlimited
	AutoConfirm               bool // Бронирование сразу получает статус confirmed
	CancellationNoticeMinutes int  // Клиент не может отменить позже, чем за N минут

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultBookingPolicy политика, действующая, пока специалист не задал свою
func DefaultBookingPolicy(professionalID string) *BookingPolicy {
	return &BookingPolicy{
		ProfessionalID:            professionalID,
		MinBookingNoticeMinutes:   DefaultMinBookingNoticeMinutes,
		AdvanceBookingDays:        DefaultAdvanceBookingDays,
		AutoConfirm:               DefaultAutoConfirm,
		CancellationNoticeMinutes: DefaultCancellationNoticeMinutes,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *BookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// BookingHorizon момент, до которого (не включая) слот может начинаться при бронировании:
// полночь после дня now + AdvanceBookingDays. ok=false, если ограничения нет
func (p *BookingPolicy) BookingHorizon(now time.Time) (horizon time.Time, ok bool) {
	if !p.HasAdvanceBookingLimit() {
		return time.Time{}, false
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, p.AdvanceBookingDays+1), true
}

// InitialStatus статус нового бронирования с учетом автоподтверждения
func (p *BookingPolicy) InitialStatus() BookingStatus {
	if p.AutoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}
