package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identity"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case бронирования слота клиентом
type UseCase struct {
	slotRepo         SlotRepository
	bookingRepo      BookingRepository
	professionalRepo ProfessionalRepository
	policyRepo       PolicyRepository
	identityClient   IdentityClient
	txManager        TransactionManager
	publisher        Publisher
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	professionalRepo ProfessionalRepository,
	policyRepo PolicyRepository,
	identityClient IdentityClient,
	txManager TransactionManager,
	publisher Publisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:         slotRepo,
		bookingRepo:      bookingRepo,
		professionalRepo: professionalRepo,
		policyRepo:       policyRepo,
		identityClient:   identityClient,
		txManager:        txManager,
		publisher:        publisher,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute бронирует слот
// Слот захватывается условным UPDATE (is_booked = false) в одной сериализуемой транзакции
// с созданием бронирования, поэтому два клиента не могут получить один слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: client=%s, slot=%s", req.ClientID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем слот (без блокировки, окончательная проверка в транзакции)
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookSlot: slot id=%s not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("BookSlot: failed to get slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
	}

	if slot.IsPast(now) {
		uc.logger.Warn("BookSlot: slot id=%s already started at %s", slot.ID, slot.StartDate)
		return nil, ErrSlotInPast
	}
	if slot.IsBooked || slot.IsCancelled {
		uc.metrics.IncBookingConflict("precheck")
		uc.logger.Warn("BookSlot: slot id=%s not available (booked=%t, cancelled=%t)", slot.ID, slot.IsBooked, slot.IsCancelled)
		return nil, ErrSlotNotAvailable
	}

	// 3. Клиент не может бронировать слоты своего профиля
	professional, err := uc.professionalRepo.GetByID(ctx, slot.ProfessionalID)
	if err != nil && !errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
		uc.logger.Error("BookSlot: failed to get professional id=%s: %v", slot.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %w", ErrInternal, err)
	}
	if professional != nil && professional.IsOwnedBy(req.ClientID) {
		uc.logger.Warn("BookSlot: client=%s tried to book own slot id=%s", req.ClientID, slot.ID)
		return nil, ErrOwnSlot
	}

	// 4. Политика бронирования специалиста (по умолчанию, если не задана)
	policy, err := uc.policyRepo.GetByProfessionalID(ctx, slot.ProfessionalID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("BookSlot: failed to get policy for professional=%s: %v", slot.ProfessionalID, err)
			return nil, fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
		}
		policy = domain.DefaultBookingPolicy(slot.ProfessionalID)
		uc.logger.Info("BookSlot: using default policy for professional=%s", slot.ProfessionalID)
	}

	if err := validateBookingWindow(slot.StartDate, now, policy); err != nil {
		uc.logger.Warn("BookSlot: booking window validation failed: %v", err)
		return nil, err
	}

	// 5. Профиль клиента (graceful degradation при недоступности провайдера)
	degraded := false
	client, err := uc.identityClient.GetUserWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrServiceDegraded):
			degraded = true
			uc.logger.Warn("BookSlot: booking without client profile: %v", err)
		case errors.Is(err, identity.ErrUserNotFound), errors.Is(err, identity.ErrUserDisabled):
			return nil, fmt.Errorf("%w: %v", ErrClientNotAllowed, err)
		default:
			return nil, fmt.Errorf("%w: failed to get client profile: %w", ErrInternal, err)
		}
	}

	var (
		booked *domain.AvailabilitySlot
		result *domain.Booking
	)

	// 6. Захват слота и создание бронирования в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		marked, err := uc.slotRepo.MarkBooked(txCtx, slot.ID, req.ClientID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to mark slot booked: %w", ErrInternal, err)
		}

		booking := &domain.Booking{
			ID:              uuid.NewString(),
			SlotID:          marked.ID,
			ProfessionalID:  marked.ProfessionalID,
			ClientID:        req.ClientID,
			AppointmentDate: marked.StartDate,
			DurationMinutes: marked.DurationMinutes,
			Type:            marked.Type,
			Location:        marked.Location,
			Fee:             marked.Price,
			Status:          policy.InitialStatus(),
			Notes:           req.Notes,
		}
		if client != nil {
			booking.ClientName = nonEmpty(client.DisplayName)
			booking.ClientEmail = nonEmpty(client.Email)
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotAlreadyBooked) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		booked = marked
		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || txmanager.IsRetryable(err) {
			uc.metrics.IncBookingConflict("race")
			uc.logger.Warn("BookSlot: slot id=%s taken concurrently", slot.ID)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrSlotNotFound) {
			return nil, err
		}
		uc.logger.Error("BookSlot: transaction failed for slot id=%s: %v", slot.ID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	uc.metrics.IncBookingCreated(string(result.Status))
	uc.publisher.Publish(events.NewSlotEvent(events.SlotBooked, booked))
	uc.publisher.Publish(events.NewBookingEvent(events.BookingCreated, result))

	uc.logger.Info("BookSlot: successfully created booking id=%s status=%s", result.ID, result.Status)

	return &Response{
		Booking:  result,
		Slot:     booked,
		Degraded: degraded,
	}, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
