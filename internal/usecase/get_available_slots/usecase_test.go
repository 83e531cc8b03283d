package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const proID = "5b8e2a1c-3d4f-4e5a-9b6c-7d8e9f0a1b2c"

var now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeSlots struct {
	slots  []*domain.AvailabilitySlot
	filter domain.SlotFilter
}

func (f *fakeSlots) List(_ context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	f.filter = filter
	var result []*domain.AvailabilitySlot
	for _, s := range f.slots {
		if filter.From != nil && !s.EndDate.After(*filter.From) {
			continue
		}
		if filter.To != nil && !s.StartDate.Before(*filter.To) {
			continue
		}
		if filter.OnlyAvailable && (s.IsBooked || s.IsCancelled) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

type fakeProfessionals struct{ known bool }

func (f fakeProfessionals) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	if !f.known {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	return &domain.Professional{ID: id}, nil
}

type fakePolicies struct{ policy *domain.BookingPolicy }

func (f fakePolicies) GetByProfessionalID(_ context.Context, _ string) (*domain.BookingPolicy, error) {
	if f.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.policy, nil
}

func slotAt(id string, start time.Time) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:              id,
		ProfessionalID:  proID,
		StartDate:       start,
		EndDate:         start.Add(30 * time.Minute),
		DurationMinutes: 30,
		Type:            domain.SlotTypeOnline,
	}
}

func newUseCase(slots *fakeSlots, policy *domain.BookingPolicy) *UseCase {
	uc := NewUseCase(slots, fakeProfessionals{known: true}, fakePolicies{policy: policy}, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func TestExecute_DefaultPolicyAppliesMinNotice(t *testing.T) {
	booked := slotAt("booked", now.Add(3*time.Hour))
	booked.IsBooked = true
	booked.BookedByUID = ptr.Ptr("someone")

	slots := &fakeSlots{slots: []*domain.AvailabilitySlot{
		slotAt("started", now.Add(-10*time.Minute)),
		slotAt("too-soon", now.Add(30*time.Minute)),
		slotAt("at-notice", now.Add(time.Hour)),
		booked,
		slotAt("tomorrow", now.Add(24*time.Hour)),
	}}
	uc := newUseCase(slots, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: proID,
		From:           now.Add(-24 * time.Hour),
		To:             now.Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)

	var ids []string
	for _, s := range resp.Slots {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"at-notice", "tomorrow"}, ids)
	assert.Equal(t, now.Add(time.Hour), resp.From)
	assert.True(t, slots.filter.OnlyAvailable)
}

func TestExecute_AdvanceBookingLimit(t *testing.T) {
	slots := &fakeSlots{slots: []*domain.AvailabilitySlot{
		slotAt("day1", now.Add(24*time.Hour)),
		slotAt("day2-late", time.Date(2025, 10, 17, 23, 0, 0, 0, time.UTC)),
		slotAt("day3", time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)),
	}}
	policy := &domain.BookingPolicy{ProfessionalID: proID, AdvanceBookingDays: 2}
	uc := newUseCase(slots, policy)

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: proID,
		From:           now,
		To:             now.Add(10 * 24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "day2-late", resp.Slots[1].ID)
	assert.Equal(t, time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC), resp.To)
}

func TestExecute_EmptyWindow(t *testing.T) {
	slots := &fakeSlots{slots: []*domain.AvailabilitySlot{slotAt("past", now.Add(-2*time.Hour))}}
	uc := newUseCase(slots, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: proID,
		From:           now.Add(-5 * time.Hour),
		To:             now.Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		known   bool
		wantErr error
	}{
		{"bad id", Request{ProfessionalID: "42", From: now, To: now.Add(time.Hour)}, true, ErrInvalidInput},
		{"missing range", Request{ProfessionalID: proID}, true, ErrInvalidInput},
		{"inverted range", Request{ProfessionalID: proID, From: now, To: now.Add(-time.Hour)}, true, ErrInvalidTimeRange},
		{"range too wide", Request{ProfessionalID: proID, From: now, To: now.AddDate(0, 3, 0)}, true, ErrInvalidTimeRange},
		{"unknown professional", Request{ProfessionalID: proID, From: now, To: now.Add(time.Hour)}, false, ErrProfessionalNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(&fakeSlots{}, fakeProfessionals{known: tt.known}, fakePolicies{}, logger.NewNop())
			uc.timeProvider = fixedTime{t: now}

			req := tt.req
			_, err := uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
