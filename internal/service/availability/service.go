package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// Service сервис управления слотами доступности
type Service struct {
	slotRepo         SlotRepository
	professionalRepo ProfessionalRepository
	bookable         BookableSlotsLister
	txManager        TransactionManager
	publisher        Publisher
	logger           Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	professionalRepo ProfessionalRepository,
	bookable BookableSlotsLister,
	txManager TransactionManager,
	publisher Publisher,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:         slotRepo,
		professionalRepo: professionalRepo,
		bookable:         bookable,
		txManager:        txManager,
		publisher:        publisher,
		logger:           logger,
	}
}

// GetSlot получает слот по ID
// UID клиента виден только самому клиенту и владельцу профиля
func (s *Service) GetSlot(ctx context.Context, id string, viewerID string) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapSlotError("GetSlot", id, err)
	}

	resp := models.FromDomainSlot(slot)
	if slot.BookedByUID == nil || (viewerID != "" && *slot.BookedByUID == viewerID) {
		return resp, nil
	}

	owner, err := s.isOwner(ctx, slot.ProfessionalID, viewerID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return resp.Public(), nil
	}
	return resp, nil
}

// ListSlots возвращает слоты специалиста за период
// Владелец видит все слоты (включая забронированные и, по запросу, отменённые),
// остальные только будущие свободные слоты внутри окна бронирования
func (s *Service) ListSlots(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListSlots: professional=%s, viewer=%s, from=%s, to=%s",
		req.ProfessionalID, req.ViewerID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	owner, err := s.isOwner(ctx, req.ProfessionalID, req.ViewerID)
	if err != nil {
		return nil, err
	}

	if !owner {
		return s.listPublic(ctx, req)
	}

	if !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidTimeRange)
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		ProfessionalID:   req.ProfessionalID,
		From:             &req.From,
		To:               &req.To,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("ListSlots: repository error for professional=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	return &models.SlotListResponse{
		ProfessionalID: req.ProfessionalID,
		From:           req.From,
		To:             req.To,
		Slots:          models.FromDomainSlots(slots),
	}, nil
}

func (s *Service) listPublic(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	result, err := s.bookable.Execute(ctx, &get_available_slots.Request{
		ProfessionalID: req.ProfessionalID,
		From:           req.From,
		To:             req.To,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_available_slots.ErrProfessionalNotFound):
			return nil, ErrProfessionalNotFound
		case errors.Is(err, get_available_slots.ErrInvalidTimeRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
		case errors.Is(err, get_available_slots.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: listPublic - %v", ErrInternal, err)
	}

	resp := &models.SlotListResponse{
		ProfessionalID: result.ProfessionalID,
		From:           result.From,
		To:             result.To,
		Slots:          models.FromDomainSlots(result.Slots),
	}
	return resp, nil
}

// DeleteSlot удаляет свободный слот; доступно только владельцу профиля
func (s *Service) DeleteSlot(ctx context.Context, id string, userID string) error {
	s.logger.Info("DeleteSlot: slot id=%s by user=%s", id, userID)

	var deleted *domain.AvailabilitySlot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.loadOwnedSlot(txCtx, "DeleteSlot", id, userID)
		if err != nil {
			return err
		}
		if err := s.slotRepo.Delete(txCtx, id); err != nil {
			return s.mapSlotError("DeleteSlot", id, err)
		}
		deleted = slot
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(events.NewSlotEvent(events.SlotDeleted, deleted))
	s.logger.Info("DeleteSlot: slot id=%s deleted", id)
	return nil
}

// CancelSlot скрывает свободный слот от клиентов, сохраняя его в истории
func (s *Service) CancelSlot(ctx context.Context, id string, userID string) (*models.SlotResponse, error) {
	s.logger.Info("CancelSlot: slot id=%s by user=%s", id, userID)

	var cancelled *domain.AvailabilitySlot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.loadOwnedSlot(txCtx, "CancelSlot", id, userID); err != nil {
			return err
		}
		if err := s.slotRepo.Cancel(txCtx, id); err != nil {
			return s.mapSlotError("CancelSlot", id, err)
		}
		slot, err := s.slotRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapSlotError("CancelSlot", id, err)
		}
		cancelled = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.NewSlotEvent(events.SlotCancelled, cancelled))
	s.logger.Info("CancelSlot: slot id=%s cancelled", id)
	return models.FromDomainSlot(cancelled), nil
}

// loadOwnedSlot загружает слот и проверяет, что пользователь управляет его специалистом
func (s *Service) loadOwnedSlot(ctx context.Context, method, id, userID string) (*domain.AvailabilitySlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapSlotError(method, id, err)
	}

	owner, err := s.isOwner(ctx, slot.ProfessionalID, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		s.logger.Warn("%s: user=%s does not own slot id=%s", method, userID, id)
		return nil, ErrAccessDenied
	}

	if !slot.CanBeRemoved() {
		s.logger.Warn("%s: slot id=%s is booked", method, id)
		return nil, ErrSlotBooked
	}

	return slot, nil
}

// isOwner проверяет существование специалиста и владение профилем
func (s *Service) isOwner(ctx context.Context, professionalID, userID string) (bool, error) {
	professional, err := s.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("isOwner: professional id=%s not found", professionalID)
			return false, ErrProfessionalNotFound
		}
		s.logger.Error("isOwner: failed to get professional id=%s: %v", professionalID, err)
		return false, fmt.Errorf("%w: isOwner - failed to get professional: %v", ErrInternal, err)
	}
	return professional.IsOwnedBy(userID), nil
}

func (s *Service) mapSlotError(method, id string, err error) error {
	switch {
	case errors.Is(err, slotRepo.ErrSlotNotFound):
		s.logger.Warn("%s: slot id=%s not found", method, id)
		return ErrSlotNotFound
	case errors.Is(err, slotRepo.ErrSlotBooked):
		s.logger.Warn("%s: slot id=%s was booked concurrently", method, id)
		return ErrSlotBooked
	case errors.Is(err, slotRepo.ErrSlotHasHistory):
		s.logger.Warn("%s: slot id=%s has booking history", method, id)
		return ErrSlotHasHistory
	}
	s.logger.Error("%s: repository error for slot id=%s: %v", method, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
}
