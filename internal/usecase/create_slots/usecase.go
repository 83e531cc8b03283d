package create_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const (
	modeSingle    = "single"
	modeRecurring = "recurring"
)

// UseCase use case публикации слотов специалистом
type UseCase struct {
	slotRepo         SlotRepository
	professionalRepo ProfessionalRepository
	txManager        TransactionManager
	publisher        Publisher
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	professionalRepo ProfessionalRepository,
	txManager TransactionManager,
	publisher Publisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:         slotRepo,
		professionalRepo: professionalRepo,
		txManager:        txManager,
		publisher:        publisher,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// CreateSingle создает один слот
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) CreateSingle(ctx context.Context, req *SingleRequest) (*domain.AvailabilitySlot, error) {
	uc.logger.Info("CreateSlot: professional=%s, actor=%s, start=%s, end=%s",
		req.ProfessionalID, req.ActorID, req.StartDate, req.EndDate)

	if err := validateSingle(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	if err := uc.checkOwnership(ctx, req.ProfessionalID, req.ActorID); err != nil {
		return nil, err
	}

	slot := &domain.AvailabilitySlot{
		ID:              uuid.NewString(),
		ProfessionalID:  req.ProfessionalID,
		StartDate:       req.StartDate.UTC(),
		EndDate:         req.EndDate.UTC(),
		DurationMinutes: int(req.EndDate.Sub(req.StartDate).Minutes()),
		Type:            req.Type,
		Location:        req.Location,
		Price:           req.Price,
	}

	var created *domain.AvailabilitySlot
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.slotRepo.FindOverlapping(txCtx, slot.ProfessionalID, slot.StartDate, slot.EndDate)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlapping slots: %w", ErrInternal, err)
		}
		if len(existing) > 0 {
			uc.logger.Warn("CreateSlot: overlaps slot id=%s", existing[0].ID)
			return ErrSlotOverlaps
		}

		slots, err := uc.slotRepo.CreateBatch(txCtx, []*domain.AvailabilitySlot{slot})
		if err != nil {
			return fmt.Errorf("%w: failed to create slot: %w", ErrInternal, err)
		}

		created = slots[0]
		return nil
	})
	if err != nil {
		return nil, uc.txError("CreateSlot", err)
	}

	uc.metrics.AddSlotsCreated(modeSingle, 1)
	uc.publisher.Publish(events.NewSlotEvent(events.SlotCreated, created))

	uc.logger.Info("CreateSlot: successfully created slot id=%s", created.ID)
	return created, nil
}

// GenerateRecurring создает слоты по повторяющемуся шаблону
// Прошедшие и пересекающиеся кандидаты пропускаются, остальные сохраняются одним пакетом
// с общим recurrence_id
func (uc *UseCase) GenerateRecurring(ctx context.Context, req *RecurringRequest) (*RecurringResponse, error) {
	uc.logger.Info("GenerateSlots: professional=%s, actor=%s, %s..%s %s-%s every %d+%d min, tz=%s",
		req.ProfessionalID, req.ActorID,
		req.FromDate.Format(domain.DateFormat), req.ToDate.Format(domain.DateFormat),
		req.StartTime, req.EndTime, req.SlotDurationMinutes, req.BreakMinutes, req.Timezone)

	loc, err := validateRecurring(req)
	if err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	if err := uc.checkOwnership(ctx, req.ProfessionalID, req.ActorID); err != nil {
		return nil, err
	}

	candidates, err := generateCandidates(req, loc, domain.MaxRecurringSlots)
	if err != nil {
		uc.logger.Warn("GenerateSlots: %v (limit %d)", err, domain.MaxRecurringSlots)
		return nil, fmt.Errorf("%w: limit is %d", err, domain.MaxRecurringSlots)
	}

	resp := &RecurringResponse{
		Created: make([]*domain.AvailabilitySlot, 0),
		Skipped: make([]SkippedSlot, 0),
	}
	if len(candidates) == 0 {
		uc.logger.Info("GenerateSlots: template produced no candidates")
		return resp, nil
	}

	recurrenceID := uuid.NewString()
	now := uc.timeProvider.Now()

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		rangeStart, rangeEnd := candidates[0].start, candidates[len(candidates)-1].end
		existing, err := uc.slotRepo.FindOverlapping(txCtx, req.ProfessionalID, rangeStart, rangeEnd)
		if err != nil {
			return fmt.Errorf("%w: failed to load existing slots: %w", ErrInternal, err)
		}

		accepted, skipped := partitionCandidates(candidates, existing, now)
		resp.Skipped = skipped
		resp.Created = make([]*domain.AvailabilitySlot, 0, len(accepted))

		if len(accepted) == 0 {
			return nil
		}

		slots := make([]*domain.AvailabilitySlot, 0, len(accepted))
		for _, c := range accepted {
			slots = append(slots, &domain.AvailabilitySlot{
				ID:              uuid.NewString(),
				ProfessionalID:  req.ProfessionalID,
				StartDate:       c.start.UTC(),
				EndDate:         c.end.UTC(),
				DurationMinutes: req.SlotDurationMinutes,
				Type:            req.Type,
				Location:        req.Location,
				Price:           req.Price,
				RecurrenceID:    &recurrenceID,
			})
		}

		created, err := uc.slotRepo.CreateBatch(txCtx, slots)
		if err != nil {
			return fmt.Errorf("%w: failed to create slots: %w", ErrInternal, err)
		}

		resp.Created = created
		return nil
	})
	if err != nil {
		return nil, uc.txError("GenerateSlots", err)
	}

	if len(resp.Created) > 0 {
		resp.RecurrenceID = recurrenceID
		uc.metrics.AddSlotsCreated(modeRecurring, len(resp.Created))
		for _, s := range resp.Created {
			uc.publisher.Publish(events.NewSlotEvent(events.SlotCreated, s))
		}
	}

	uc.logger.Info("GenerateSlots: created %d, skipped %d (recurrence=%s)",
		len(resp.Created), len(resp.Skipped), resp.RecurrenceID)

	return resp, nil
}

// checkOwnership проверяет, что actor управляет профилем специалиста
func (uc *UseCase) checkOwnership(ctx context.Context, professionalID, actorID string) error {
	professional, err := uc.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateSlots: professional id=%s not found", professionalID)
			return ErrProfessionalNotFound
		}
		uc.logger.Error("CreateSlots: failed to get professional id=%s: %v", professionalID, err)
		return fmt.Errorf("%w: failed to get professional: %w", ErrInternal, err)
	}

	if !professional.IsOwnedBy(actorID) {
		uc.logger.Warn("CreateSlots: user=%s does not manage professional=%s", actorID, professionalID)
		return ErrForbidden
	}

	return nil
}

func (uc *UseCase) txError(op string, err error) error {
	switch {
	case errors.Is(err, ErrSlotOverlaps):
		return err
	case txmanager.IsRetryable(err):
		// Конкурентная вставка пересекающегося слота
		uc.logger.Warn("%s: serialization conflict: %v", op, err)
		return ErrSlotOverlaps
	case errors.Is(err, ErrInternal):
		uc.logger.Error("%s: %v", op, err)
		return err
	default:
		uc.logger.Error("%s: transaction failed: %v", op, err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
