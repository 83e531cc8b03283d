package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateProfessionalRequest запрос на создание профиля специалиста
type CreateProfessionalRequest struct {
	OwnerUID       string   `json:"-"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Specialization *string  `json:"specialization,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	Location       *string  `json:"location,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateProfessionalRequest) ToDomain(id string) *domain.Professional {
	return &domain.Professional{
		ID:             id,
		OwnerUID:       r.OwnerUID,
		Name:           r.Name,
		Category:       domain.ProfessionalCategory(r.Category),
		Specialization: r.Specialization,
		Bio:            r.Bio,
		Languages:      r.Languages,
		Location:       r.Location,
		Email:          r.Email,
		Phone:          r.Phone,
	}
}

// UpdateProfessionalRequest частичное обновление профиля; nil поля не меняются
type UpdateProfessionalRequest struct {
	UserID         string    `json:"-"`
	Name           *string   `json:"name,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Languages      *[]string `json:"languages,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
}

// ApplyTo применяет изменения к профилю
func (r *UpdateProfessionalRequest) ApplyTo(p *domain.Professional) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = domain.ProfessionalCategory(*r.Category)
	}
	if r.Specialization != nil {
		p.Specialization = r.Specialization
	}
	if r.Bio != nil {
		p.Bio = r.Bio
	}
	if r.Languages != nil {
		p.Languages = *r.Languages
	}
	if r.Location != nil {
		p.Location = r.Location
	}
	if r.Email != nil {
		p.Email = r.Email
	}
	if r.Phone != nil {
		p.Phone = r.Phone
	}
}

// ListProfessionalsRequest фильтр каталога
type ListProfessionalsRequest struct {
	Category *string
	Language *string
	Search   *string
	Limit    int
	Offset   int
}

// ProfessionalResponse ответ с данными специалиста
type ProfessionalResponse struct {
	ID             string    `json:"id"`
	OwnerUID       string    `json:"ownerUid"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Specialization *string   `json:"specialization,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Languages      []string  `json:"languages"`
	Location       *string   `json:"location,omitempty"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfessionalListResponse страница каталога
type ProfessionalListResponse struct {
	Professionals []ProfessionalResponse `json:"professionals"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// FromDomainProfessional конвертирует domain модель в DTO
func FromDomainProfessional(p *domain.Professional) *ProfessionalResponse {
	if p == nil {
		return nil
	}

	langs := p.Languages
	if langs == nil {
		langs = []string{}
	}

	return &ProfessionalResponse{
		ID:             p.ID,
		OwnerUID:       p.OwnerUID,
		Name:           p.Name,
		Category:       string(p.Category),
		Specialization: p.Specialization,
		Bio:            p.Bio,
		Languages:      langs,
		Location:       p.Location,
		Email:          p.Email,
		Phone:          p.Phone,
		IsVerified:     p.IsVerified,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
