package change_booking_status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case смены статуса бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	slotRepo         SlotRepository
	professionalRepo ProfessionalRepository
	policyRepo       PolicyRepository
	txManager        TransactionManager
	publisher        Publisher
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	professionalRepo ProfessionalRepository,
	policyRepo PolicyRepository,
	txManager TransactionManager,
	publisher Publisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		slotRepo:         slotRepo,
		professionalRepo: professionalRepo,
		policyRepo:       policyRepo,
		txManager:        txManager,
		publisher:        publisher,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute меняет статус бронирования от имени клиента или специалиста
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeBookingStatus: booking=%s, actor=%s, action=%s", req.BookingID, req.ActorID, req.Action)

	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ChangeBookingStatus: validation failed: %v", err)
		return nil, err
	}

	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	actor, err := uc.resolveActor(ctx, booking, req.ActorID)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()

	if err := uc.checkTransition(ctx, booking, target, actor, now); err != nil {
		return nil, err
	}

	return uc.apply(ctx, booking, target, actor, req.Reason)
}

// AutoComplete завершает подтверждённое бронирование от имени системы
func (uc *UseCase) AutoComplete(ctx context.Context, bookingID string) (*Response, error) {
	booking, err := uc.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkTransition(ctx, booking, domain.StatusCompleted, domain.ActorSystem, uc.timeProvider.Now()); err != nil {
		return nil, err
	}

	return uc.apply(ctx, booking, domain.StatusCompleted, domain.ActorSystem, nil)
}

func (uc *UseCase) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ChangeBookingStatus: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ChangeBookingStatus: failed to get booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	return booking, nil
}

// resolveActor определяет роль пользователя в бронировании
func (uc *UseCase) resolveActor(ctx context.Context, booking *domain.Booking, actorID string) (domain.Actor, error) {
	if booking.ClientID == actorID {
		return domain.ActorClient, nil
	}

	professional, err := uc.professionalRepo.GetByID(ctx, booking.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("ChangeBookingStatus: professional id=%s not found, user=%s is not the client of booking id=%s",
				booking.ProfessionalID, actorID, booking.ID)
			return "", ErrForbidden
		}
		uc.logger.Error("ChangeBookingStatus: failed to get professional id=%s: %v", booking.ProfessionalID, err)
		return "", fmt.Errorf("%w: failed to get professional: %w", ErrInternal, err)
	}

	if professional.IsOwnedBy(actorID) {
		return domain.ActorProfessional, nil
	}

	uc.logger.Warn("ChangeBookingStatus: user=%s has no access to booking id=%s", actorID, booking.ID)
	return "", ErrForbidden
}

func (uc *UseCase) checkTransition(ctx context.Context, booking *domain.Booking, target domain.BookingStatus, actor domain.Actor, now time.Time) error {
	if !booking.CanTransition(target, actor) {
		uc.logger.Warn("ChangeBookingStatus: %s cannot move booking id=%s from %s to %s",
			actor, booking.ID, booking.Status, target)
		return fmt.Errorf("%w: %s -> %s by %s", ErrInvalidTransition, booking.Status, target, actor)
	}

	if target == domain.StatusCompleted && now.Before(booking.AppointmentDate) {
		return ErrTooEarlyToComplete
	}

	if target == domain.StatusCancelled && actor == domain.ActorClient {
		policy, err := uc.policyRepo.GetByProfessionalID(ctx, booking.ProfessionalID)
		if err != nil {
			if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
				return fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
			}
			policy = domain.DefaultBookingPolicy(booking.ProfessionalID)
		}

		deadline := booking.AppointmentDate.Add(-time.Duration(policy.CancellationNoticeMinutes) * time.Minute)
		if policy.CancellationNoticeMinutes > 0 && now.After(deadline) {
			uc.logger.Warn("ChangeBookingStatus: cancellation deadline %s passed for booking id=%s", deadline, booking.ID)
			return fmt.Errorf("%w: must cancel at least %d minutes in advance", ErrCancellationTooLate, policy.CancellationNoticeMinutes)
		}
	}

	return nil
}

// apply меняет статус (CAS по текущему статусу) и освобождает слот в одной транзакции
func (uc *UseCase) apply(ctx context.Context, booking *domain.Booking, target domain.BookingStatus, actor domain.Actor, reason *string) (*Response, error) {
	resp := &Response{Actor: actor}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		updated, err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status, target, reason)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrStatusConflict
			}
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}
		resp.Booking = updated

		if !domain.ReleasesSlot(target) {
			return nil
		}

		if err := uc.slotRepo.Release(txCtx, booking.SlotID, booking.ClientID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotHeld) || errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("ChangeBookingStatus: slot id=%s was not held by booking id=%s: %v", booking.SlotID, booking.ID, err)
				return nil
			}
			return fmt.Errorf("%w: failed to release slot: %w", ErrInternal, err)
		}

		released, err := uc.slotRepo.GetByID(txCtx, booking.SlotID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload slot: %w", ErrInternal, err)
		}
		resp.ReleasedSlot = released
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrStatusConflict) || txmanager.IsRetryable(err) {
			uc.logger.Warn("ChangeBookingStatus: booking id=%s changed concurrently", booking.ID)
			return nil, ErrStatusConflict
		}
		uc.logger.Error("ChangeBookingStatus: transaction failed for booking id=%s: %v", booking.ID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	uc.publisher.Publish(events.NewBookingEvent(events.BookingStatusChanged, resp.Booking))
	if resp.ReleasedSlot != nil {
		uc.publisher.Publish(events.NewSlotEvent(events.SlotReleased, resp.ReleasedSlot))
	}

	uc.logger.Info("ChangeBookingStatus: booking id=%s %s -> %s by %s", booking.ID, booking.Status, target, actor)
	return resp, nil
}
