package book_slot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identity"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	slotID    = "5b0c4b1e-8f1a-4c55-9d77-3f1f7c1f0a01"
	proID     = "pro-1"
	ownerUID  = "owner-uid"
	clientUID = "client-uid"
	otherUID  = "other-uid"
)

var now = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeSlots struct {
	mu    sync.Mutex
	slots map[string]*domain.AvailabilitySlot
}

func (f *fakeSlots) GetByID(_ context.Context, id string) (*domain.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlots) MarkBooked(_ context.Context, id string, uid string) (*domain.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if s.IsBooked || s.IsCancelled {
		return nil, slotRepo.ErrSlotNotAvailable
	}
	s.IsBooked = true
	s.BookedByUID = ptr.Ptr(uid)
	cp := *s
	return &cp, nil
}

type fakeBookings struct {
	mu      sync.Mutex
	created []*domain.Booking
	err     error
}

func (f *fakeBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	f.created = append(f.created, b)
	return b, nil
}

type fakeProfessionals struct{}

func (fakeProfessionals) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	if id != proID {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	return &domain.Professional{ID: proID, OwnerUID: ownerUID}, nil
}

type fakePolicies struct {
	policy *domain.BookingPolicy
}

func (f fakePolicies) GetByProfessionalID(_ context.Context, _ string) (*domain.BookingPolicy, error) {
	if f.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.policy, nil
}

type fakeIdentity struct {
	user *identity.User
	err  error
}

func (f fakeIdentity) GetUserWithGracefulDegradation(_ context.Context, _ string) (*identity.User, error) {
	return f.user, f.err
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type countingMetrics struct {
	mu        sync.Mutex
	created   map[string]int
	conflicts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{created: map[string]int{}, conflicts: map[string]int{}}
}

func (m *countingMetrics) IncBookingCreated(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[status]++
}

func (m *countingMetrics) IncBookingConflict(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[reason]++
}

type fixture struct {
	slots     *fakeSlots
	bookings  *fakeBookings
	publisher *recordingPublisher
	metrics   *countingMetrics
	policies  fakePolicies
	identity  fakeIdentity
}

func newFixture() *fixture {
	location := "Community centre, room 4"
	return &fixture{
		slots: &fakeSlots{slots: map[string]*domain.AvailabilitySlot{
			slotID: {
				ID:              slotID,
				ProfessionalID:  proID,
				StartDate:       now.Add(24 * time.Hour),
				EndDate:         now.Add(24*time.Hour + 30*time.Minute),
				DurationMinutes: 30,
				Type:            domain.SlotTypeInPerson,
				Location:        &location,
				Price:           25,
			},
		}},
		bookings:  &fakeBookings{},
		publisher: &recordingPublisher{},
		metrics:   newCountingMetrics(),
		identity: fakeIdentity{user: &identity.User{
			UID:         clientUID,
			DisplayName: "Jonas P.",
			Email:       "jonas@example.org",
		}},
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(f.slots, f.bookings, fakeProfessionals{}, f.policies, f.identity,
		passthroughTx{}, f.publisher, f.metrics, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{
		ClientID: clientUID,
		SlotID:   slotID,
		Notes:    ptr.Ptr("first visit"),
	})
	require.NoError(t, err)

	b := resp.Booking
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, slotID, b.SlotID)
	assert.Equal(t, proID, b.ProfessionalID)
	assert.Equal(t, clientUID, b.ClientID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, now.Add(24*time.Hour), b.AppointmentDate)
	assert.Equal(t, 30, b.DurationMinutes)
	assert.Equal(t, domain.SlotTypeInPerson, b.Type)
	assert.InDelta(t, 25.0, b.Fee, 0.001)
	assert.Equal(t, "Jonas P.", ptr.Value(b.ClientName))
	assert.Equal(t, "jonas@example.org", ptr.Value(b.ClientEmail))
	assert.Equal(t, "first visit", ptr.Value(b.Notes))
	assert.False(t, resp.Degraded)

	assert.True(t, resp.Slot.IsBooked)
	assert.Equal(t, clientUID, ptr.Value(resp.Slot.BookedByUID))

	assert.Equal(t, []events.Type{events.SlotBooked, events.BookingCreated}, f.publisher.types())
	assert.Equal(t, 1, f.metrics.created["pending"])
}

func TestExecute_AutoConfirmPolicy(t *testing.T) {
	f := newFixture()
	policy := domain.DefaultBookingPolicy(proID)
	policy.AutoConfirm = true
	f.policies = fakePolicies{policy: policy}

	resp, err := f.useCase().Execute(context.Background(), &Request{ClientID: clientUID, SlotID: slotID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
}

func TestExecute_LastAllowedDayLaterThanNow(t *testing.T) {
	f := newFixture()
	p := domain.DefaultBookingPolicy(proID)
	p.AdvanceBookingDays = 7
	f.policies = fakePolicies{policy: p}

	// now 09:00, последний разрешённый день 22.10, приём в 15:00
	start := time.Date(2025, 10, 22, 15, 0, 0, 0, time.UTC)
	f.slots.slots[slotID].StartDate = start
	f.slots.slots[slotID].EndDate = start.Add(30 * time.Minute)

	resp, err := f.useCase().Execute(context.Background(), &Request{ClientID: clientUID, SlotID: slotID})
	require.NoError(t, err)
	assert.Equal(t, start, resp.Booking.AppointmentDate)
}

func TestExecute_DegradedIdentity(t *testing.T) {
	f := newFixture()
	f.identity = fakeIdentity{err: identity.ErrServiceDegraded}

	resp, err := f.useCase().Execute(context.Background(), &Request{ClientID: clientUID, SlotID: slotID})
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Nil(t, resp.Booking.ClientName)
	assert.Nil(t, resp.Booking.ClientEmail)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "missing client",
			req:     &Request{SlotID: slotID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed slot id",
			req:     &Request{ClientID: clientUID, SlotID: "not-a-uuid"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "notes too long",
			req:     &Request{ClientID: clientUID, SlotID: slotID, Notes: ptr.Ptr(string(make([]rune, domain.MaxNotesLength+1)))},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown slot",
			req:     &Request{ClientID: clientUID, SlotID: "0d9a3a43-1111-4a4a-9a9a-000000000000"},
			wantErr: ErrSlotNotFound,
		},
		{
			name: "already booked",
			req:  &Request{ClientID: clientUID, SlotID: slotID},
			setup: func(f *fixture) {
				f.slots.slots[slotID].IsBooked = true
				f.slots.slots[slotID].BookedByUID = ptr.Ptr(otherUID)
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "cancelled",
			req:     &Request{ClientID: clientUID, SlotID: slotID},
			setup:   func(f *fixture) { f.slots.slots[slotID].IsCancelled = true },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "in the past",
			req:  &Request{ClientID: clientUID, SlotID: slotID},
			setup: func(f *fixture) {
				f.slots.slots[slotID].StartDate = now.Add(-time.Hour)
				f.slots.slots[slotID].EndDate = now.Add(-30 * time.Minute)
			},
			wantErr: ErrSlotInPast,
		},
		{
			name:    "own slot",
			req:     &Request{ClientID: ownerUID, SlotID: slotID},
			wantErr: ErrOwnSlot,
		},
		{
			name: "inside min notice",
			req:  &Request{ClientID: clientUID, SlotID: slotID},
			setup: func(f *fixture) {
				f.slots.slots[slotID].StartDate = now.Add(30 * time.Minute)
				f.slots.slots[slotID].EndDate = now.Add(time.Hour)
			},
			wantErr: ErrTooLateToBook,
		},
		{
			name: "beyond advance horizon",
			req:  &Request{ClientID: clientUID, SlotID: slotID},
			setup: func(f *fixture) {
				p := domain.DefaultBookingPolicy(proID)
				p.AdvanceBookingDays = 7
				f.policies = fakePolicies{policy: p}
				f.slots.slots[slotID].StartDate = now.AddDate(0, 0, 10)
				f.slots.slots[slotID].EndDate = now.AddDate(0, 0, 10).Add(30 * time.Minute)
			},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name: "midnight after last allowed day",
			req:  &Request{ClientID: clientUID, SlotID: slotID},
			setup: func(f *fixture) {
				p := domain.DefaultBookingPolicy(proID)
				p.AdvanceBookingDays = 7
				f.policies = fakePolicies{policy: p}
				start := time.Date(2025, 10, 23, 0, 0, 0, 0, time.UTC)
				f.slots.slots[slotID].StartDate = start
				f.slots.slots[slotID].EndDate = start.Add(30 * time.Minute)
			},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name:    "disabled account",
			req:     &Request{ClientID: clientUID, SlotID: slotID},
			setup:   func(f *fixture) { f.identity = fakeIdentity{err: identity.ErrUserDisabled} },
			wantErr: ErrClientNotAllowed,
		},
		{
			name:    "active booking already exists",
			req:     &Request{ClientID: clientUID, SlotID: slotID},
			setup:   func(f *fixture) { f.bookings.err = bookingRepo.ErrSlotAlreadyBooked },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "storage failure",
			req:     &Request{ClientID: clientUID, SlotID: slotID},
			setup:   func(f *fixture) { f.bookings.err = errors.New("connection reset") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.useCase().Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestExecute_ConcurrentClientsGetOneBooking(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	const clients = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{
				ClientID: clientUID + "-" + string(rune('a'+i)),
				SlotID:   slotID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, clients-1, conflicts)
	assert.Len(t, f.bookings.created, 1)
}
