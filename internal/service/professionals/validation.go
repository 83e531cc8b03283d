package professionals

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const maxLanguages = 10

var (
	languageRe = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})?$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9 ()-]{5,20}$`)
)

// normalize приводит языки к нижнему регистру и убирает пробелы по краям
func normalize(p *domain.Professional) {
	p.Name = strings.TrimSpace(p.Name)
	for i, lang := range p.Languages {
		p.Languages[i] = strings.ToLower(strings.TrimSpace(lang))
	}
}

// validateProfessional проверяет профиль перед сохранением
func validateProfessional(p *domain.Professional) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(p.Name) > domain.MaxProfessionalNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxProfessionalNameLength)
	}

	if !p.Category.IsValid() {
		return fmt.Errorf("%w: category must be one of: doctor, counselor, lawyer, social_worker, other", ErrInvalidInput)
	}

	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > domain.MaxProfessionalBioLength {
		return fmt.Errorf("%w: bio must be at most %d characters", ErrInvalidInput, domain.MaxProfessionalBioLength)
	}

	if p.Location != nil && utf8.RuneCountInString(*p.Location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: location must be at most %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}

	if len(p.Languages) > maxLanguages {
		return fmt.Errorf("%w: at most %d languages allowed", ErrInvalidInput, maxLanguages)
	}
	for _, lang := range p.Languages {
		if !languageRe.MatchString(lang) {
			return fmt.Errorf("%w: invalid language code %q", ErrInvalidInput, lang)
		}
	}

	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}

	if p.Phone != nil && !phoneRe.MatchString(*p.Phone) {
		return fmt.Errorf("%w: invalid phone", ErrInvalidInput)
	}

	return nil
}

// validateListRequest проверяет и дополняет параметры страницы каталога
func validateListRequest(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = domain.DefaultProfessionalsPageSize
	}
	if limit < 0 || limit > domain.MaxProfessionalsPageSize {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxProfessionalsPageSize)
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must be non-negative", ErrInvalidInput)
	}
	return limit, offset, nil
}
