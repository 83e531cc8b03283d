package jobs

import (
	"context"
	"fmt"
	"time"
)

const JobPurgeSlots = "purge_stale_slots"

// PurgeSlots удаляет свободные слоты, закончившиеся раньше, чем retention назад
type PurgeSlots struct {
	slotRepo     SlotRepository
	retention    time.Duration
	timeProvider TimeProvider
	logger       Logger
}

func NewPurgeSlots(slotRepo SlotRepository, retention time.Duration, logger Logger) *PurgeSlots {
	return &PurgeSlots{
		slotRepo:     slotRepo,
		retention:    retention,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

func (j *PurgeSlots) Name() string {
	return JobPurgeSlots
}

func (j *PurgeSlots) Run(ctx context.Context) error {
	cutoff := j.timeProvider.Now().Add(-j.retention)

	deleted, err := j.slotRepo.DeleteUnbookedEndedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete stale slots: %w", err)
	}

	j.logger.Info("%s: deleted %d slots ended before %s", JobPurgeSlots, deleted, cutoff.Format(time.RFC3339))
	return nil
}
