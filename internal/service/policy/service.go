package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

// Service сервис политик бронирования
type Service struct {
	policyRepo       PolicyRepository
	professionalRepo ProfessionalRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	professionalRepo ProfessionalRepository,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:       policyRepo,
		professionalRepo: professionalRepo,
		logger:           logger,
	}
}

// Get получает политику специалиста
// Публичный метод - если специалист не задавал политику, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context, professionalID string) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for professional=%s", professionalID)

	if _, err := s.getProfessional(ctx, "Get", professionalID); err != nil {
		return nil, err
	}

	policy, isDefault, err := s.current(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPolicy(policy, isDefault), nil
}

// Upsert создает или обновляет политику. Доступно только владельцу профиля
func (s *Service) Upsert(ctx context.Context, professionalID string, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: updating policy for professional=%s by user=%s", professionalID, req.UserID)

	professional, err := s.getProfessional(ctx, "Upsert", professionalID)
	if err != nil {
		return nil, err
	}

	if !professional.IsOwnedBy(req.UserID) {
		s.logger.Warn("Upsert: user=%s does not own professional=%s", req.UserID, professionalID)
		return nil, ErrAccessDenied
	}

	policy, _, err := s.current(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	req.ApplyToPolicy(policy)
	if err := validatePolicy(policy); err != nil {
		s.logger.Warn("Upsert: validation failed for professional=%s: %v", professionalID, err)
		return nil, err
	}

	saved, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("Upsert: repository error for professional=%s: %v", professionalID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved policy for professional=%s", professionalID)
	return models.FromDomainPolicy(saved, false), nil
}

// current возвращает сохранённую политику или политику по умолчанию
func (s *Service) current(ctx context.Context, professionalID string) (*domain.BookingPolicy, bool, error) {
	policy, err := s.policyRepo.GetByProfessionalID(ctx, professionalID)
	if err == nil {
		return policy, false, nil
	}
	if errors.Is(err, policyRepo.ErrPolicyNotFound) {
		return domain.DefaultBookingPolicy(professionalID), true, nil
	}
	s.logger.Error("current: repository error for professional=%s: %v", professionalID, err)
	return nil, false, fmt.Errorf("%w: current - repository error: %v", ErrInternal, err)
}

func (s *Service) getProfessional(ctx context.Context, method, id string) (*domain.Professional, error) {
	professional, err := s.professionalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("%s: professional id=%s not found", method, id)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("%s: failed to get professional id=%s: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get professional: %v", ErrInternal, method, err)
	}
	return professional, nil
}

// validatePolicy проверяет диапазоны значений политики
func validatePolicy(p *domain.BookingPolicy) error {
	if p.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || p.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	if p.AdvanceBookingDays < domain.MinAdvanceBookingDays || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if p.CancellationNoticeMinutes < 0 || p.CancellationNoticeMinutes > domain.MaxCancellationNoticeMinutes {
		return fmt.Errorf("%w: cancellationNoticeMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxCancellationNoticeMinutes)
	}

	return nil
}
