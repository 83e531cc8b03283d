package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
)

// UseCase use case для получения слотов, доступных для бронирования
type UseCase struct {
	slotRepo         SlotRepository
	professionalRepo ProfessionalRepository
	policyRepo       PolicyRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	professionalRepo ProfessionalRepository,
	policyRepo PolicyRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:         slotRepo,
		professionalRepo: professionalRepo,
		policyRepo:       policyRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%s, from=%s, to=%s",
		req.ProfessionalID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем существование специалиста
	if _, err := uc.professionalRepo.GetByID(ctx, req.ProfessionalID); err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%s not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	// 3. Получаем политику; если специалист её не задавал, используем дефолтные значения
	policy, err := uc.policyRepo.GetByProfessionalID(ctx, req.ProfessionalID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get policy: %v", err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		policy = domain.DefaultBookingPolicy(req.ProfessionalID)
	}

	// 4. Сужаем период до окна бронирования
	from, to := bookingWindow(req.From, req.To, now, policy)
	resp := &Response{
		ProfessionalID: req.ProfessionalID,
		From:           from,
		To:             to,
		Slots:          []*domain.AvailabilitySlot{},
	}
	if !from.Before(to) {
		uc.logger.Info("GetAvailableSlots: booking window is empty for professional=%s", req.ProfessionalID)
		return resp, nil
	}

	// 5. Получаем свободные слоты в окне
	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		ProfessionalID: req.ProfessionalID,
		From:           &from,
		To:             &to,
		OnlyAvailable:  true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	resp.Slots = filterBookable(slots, from, to)

	uc.logger.Info("GetAvailableSlots: found %d bookable slots for professional=%s", len(resp.Slots), req.ProfessionalID)
	return resp, nil
}
