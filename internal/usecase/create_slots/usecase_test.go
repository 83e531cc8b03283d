package create_slots

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	proID    = "pro-1"
	ownerUID = "owner-uid"
)

// 2025-10-15 среда
var now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type memSlots struct {
	mu    sync.Mutex
	slots []*domain.AvailabilitySlot
}

func (m *memSlots) CreateBatch(_ context.Context, slots []*domain.AvailabilitySlot) ([]*domain.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		s.CreatedAt = now
		s.UpdatedAt = now
	}
	m.slots = append(m.slots, slots...)
	return slots, nil
}

func (m *memSlots) FindOverlapping(_ context.Context, professionalID string, start, end time.Time) ([]*domain.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AvailabilitySlot, 0)
	for _, s := range m.slots {
		if s.ProfessionalID == professionalID && !s.IsCancelled && s.Overlaps(start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeProfessionals struct{}

func (fakeProfessionals) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	if id != proID {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	return &domain.Professional{ID: proID, OwnerUID: ownerUID}, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct{ events []events.Event }

func (p *recordingPublisher) Publish(e events.Event) { p.events = append(p.events, e) }

type slotMetrics struct{ byMode map[string]int }

func (m *slotMetrics) AddSlotsCreated(mode string, n int) { m.byMode[mode] += n }

func newUseCase(slots *memSlots, pub *recordingPublisher, m *slotMetrics) *UseCase {
	uc := NewUseCase(slots, fakeProfessionals{}, passthroughTx{}, pub, m, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func onlineParams() SlotParams {
	return SlotParams{Type: domain.SlotTypeOnline, Price: 40}
}

func TestCreateSingle(t *testing.T) {
	slots := &memSlots{}
	pub := &recordingPublisher{}
	m := &slotMetrics{byMode: map[string]int{}}
	uc := newUseCase(slots, pub, m)

	start := now.Add(2 * time.Hour)
	created, err := uc.CreateSingle(context.Background(), &SingleRequest{
		ActorID:        ownerUID,
		ProfessionalID: proID,
		StartDate:      start,
		EndDate:        start.Add(50 * time.Minute),
		SlotParams:     onlineParams(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 50, created.DurationMinutes)
	assert.False(t, created.IsBooked)
	assert.Nil(t, created.RecurrenceID)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.SlotCreated, pub.events[0].Type)
	assert.Equal(t, 1, m.byMode["single"])

	// Пересекающийся слот отклоняется
	_, err = uc.CreateSingle(context.Background(), &SingleRequest{
		ActorID:        ownerUID,
		ProfessionalID: proID,
		StartDate:      start.Add(30 * time.Minute),
		EndDate:        start.Add(90 * time.Minute),
		SlotParams:     onlineParams(),
	})
	assert.ErrorIs(t, err, ErrSlotOverlaps)

	// Соседний слот допустим
	_, err = uc.CreateSingle(context.Background(), &SingleRequest{
		ActorID:        ownerUID,
		ProfessionalID: proID,
		StartDate:      start.Add(50 * time.Minute),
		EndDate:        start.Add(80 * time.Minute),
		SlotParams:     onlineParams(),
	})
	assert.NoError(t, err)
}

func TestCreateSingle_Errors(t *testing.T) {
	start := now.Add(2 * time.Hour)

	tests := []struct {
		name    string
		req     SingleRequest
		wantErr error
	}{
		{"end before start", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: start, EndDate: start.Add(-time.Minute), SlotParams: onlineParams()}, ErrInvalidInput},
		{"too short", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: start, EndDate: start.Add(4 * time.Minute), SlotParams: onlineParams()}, ErrInvalidInput},
		{"too long", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: start, EndDate: start.Add(481 * time.Minute), SlotParams: onlineParams()}, ErrInvalidInput},
		{"past", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: now.Add(-time.Hour), EndDate: now, SlotParams: onlineParams()}, ErrSlotInPast},
		{"in person without location", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: start, EndDate: start.Add(time.Hour), SlotParams: SlotParams{Type: domain.SlotTypeInPerson}}, ErrInvalidInput},
		{"unknown type", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: start, EndDate: start.Add(time.Hour), SlotParams: SlotParams{Type: "phone"}}, ErrInvalidInput},
		{"negative price", SingleRequest{ActorID: ownerUID, ProfessionalID: proID, StartDate: start, EndDate: start.Add(time.Hour), SlotParams: SlotParams{Type: domain.SlotTypeOnline, Price: -1}}, ErrInvalidInput},
		{"not owner", SingleRequest{ActorID: "someone", ProfessionalID: proID, StartDate: start, EndDate: start.Add(time.Hour), SlotParams: onlineParams()}, ErrForbidden},
		{"unknown professional", SingleRequest{ActorID: ownerUID, ProfessionalID: "pro-x", StartDate: start, EndDate: start.Add(time.Hour), SlotParams: onlineParams()}, ErrProfessionalNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			uc := newUseCase(&memSlots{}, pub, &slotMetrics{byMode: map[string]int{}})

			req := tt.req
			_, err := uc.CreateSingle(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, pub.events)
		})
	}
}

func TestGenerateRecurring(t *testing.T) {
	slots := &memSlots{}
	pub := &recordingPublisher{}
	m := &slotMetrics{byMode: map[string]int{}}
	uc := newUseCase(slots, pub, m)

	// Существующий слот в среду 15.10 в 10:00
	existingStart := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	slots.slots = append(slots.slots, &domain.AvailabilitySlot{
		ID:             "existing",
		ProfessionalID: proID,
		StartDate:      existingStart,
		EndDate:        existingStart.Add(30 * time.Minute),
	})

	resp, err := uc.GenerateRecurring(context.Background(), &RecurringRequest{
		ActorID:             ownerUID,
		ProfessionalID:      proID,
		Weekdays:            []time.Weekday{time.Monday, time.Wednesday},
		StartTime:           "08:00",
		EndTime:             "11:00",
		SlotDurationMinutes: 60,
		FromDate:            time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		ToDate:              time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC),
		Timezone:            "UTC",
		SlotParams:          onlineParams(),
	})
	require.NoError(t, err)

	// Кандидаты: 13.10, 15.10, 20.10, 22.10 по 3 слота (08, 09, 10)
	// 13.10 и 15.10 08:00, 09:00 уже начались, 15.10 10:00 пересекается с существующим
	assert.Len(t, resp.Created, 6)
	assert.Len(t, resp.Skipped, 6)
	assert.NotEmpty(t, resp.RecurrenceID)

	for _, s := range resp.Created {
		require.NotNil(t, s.RecurrenceID)
		assert.Equal(t, resp.RecurrenceID, *s.RecurrenceID)
		assert.True(t, s.StartDate.After(now))
		assert.Equal(t, 60, s.DurationMinutes)
	}

	var past, overlapping int
	for _, s := range resp.Skipped {
		switch s.Reason {
		case SkipPast:
			past++
		case SkipOverlapsExisting:
			overlapping++
		}
	}
	assert.Equal(t, 5, past)
	assert.Equal(t, 1, overlapping)

	assert.Len(t, pub.events, 6)
	assert.Equal(t, 6, m.byMode["recurring"])
	assert.Len(t, slots.slots, 7)
}

func TestGenerateRecurring_RerunSkipsEverything(t *testing.T) {
	slots := &memSlots{}
	uc := newUseCase(slots, &recordingPublisher{}, &slotMetrics{byMode: map[string]int{}})

	req := &RecurringRequest{
		ActorID:             ownerUID,
		ProfessionalID:      proID,
		Weekdays:            []time.Weekday{time.Thursday},
		StartTime:           "10:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
		BreakMinutes:        10,
		FromDate:            time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		ToDate:              time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC),
		SlotParams:          SlotParams{Type: domain.SlotTypeInPerson, Location: ptr.Ptr("Clinic"), Price: 0},
	}

	first, err := uc.GenerateRecurring(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, first.Created, 9)

	second, err := uc.GenerateRecurring(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 9)
	assert.Empty(t, second.RecurrenceID)
}

func TestGenerateRecurring_Errors(t *testing.T) {
	base := func() RecurringRequest {
		return RecurringRequest{
			ActorID:             ownerUID,
			ProfessionalID:      proID,
			Weekdays:            []time.Weekday{time.Monday},
			StartTime:           "09:00",
			EndTime:             "12:00",
			SlotDurationMinutes: 30,
			FromDate:            time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
			ToDate:              time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC),
			SlotParams:          onlineParams(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *RecurringRequest)
		wantErr error
	}{
		{"no weekdays", func(r *RecurringRequest) { r.Weekdays = nil }, ErrInvalidInput},
		{"duplicate weekday", func(r *RecurringRequest) { r.Weekdays = []time.Weekday{time.Monday, time.Monday} }, ErrInvalidInput},
		{"window inverted", func(r *RecurringRequest) { r.StartTime, r.EndTime = "12:00", "09:00" }, ErrInvalidInput},
		{"bad time", func(r *RecurringRequest) { r.StartTime = "9am" }, ErrInvalidInput},
		{"window shorter than slot", func(r *RecurringRequest) { r.EndTime = "09:20" }, ErrInvalidInput},
		{"break too long", func(r *RecurringRequest) { r.BreakMinutes = domain.MaxRecurringBreakMinutes + 1 }, ErrInvalidInput},
		{"range inverted", func(r *RecurringRequest) { r.ToDate = r.FromDate.AddDate(0, 0, -1) }, ErrInvalidInput},
		{"range too long", func(r *RecurringRequest) { r.ToDate = r.FromDate.AddDate(0, 0, domain.MaxRecurringRangeDays) }, ErrInvalidInput},
		{"unknown timezone", func(r *RecurringRequest) { r.Timezone = "Nowhere/Land" }, ErrInvalidInput},
		{"not owner", func(r *RecurringRequest) { r.ActorID = "stranger" }, ErrForbidden},
		{"too many slots", func(r *RecurringRequest) {
			r.Weekdays = []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
			r.StartTime, r.EndTime = "00:00", "23:55"
			r.SlotDurationMinutes = 5
		}, ErrTooManySlots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&memSlots{}, &recordingPublisher{}, &slotMetrics{byMode: map[string]int{}})
			req := base()
			tt.mutate(&req)

			_, err := uc.GenerateRecurring(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
