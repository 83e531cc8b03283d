package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type memPolicies struct {
	stored map[string]domain.BookingPolicy
	err    error
}

func (m *memPolicies) GetByProfessionalID(_ context.Context, id string) (*domain.BookingPolicy, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.stored[id]
	if !ok {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return &p, nil
}

func (m *memPolicies) Upsert(_ context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	m.stored[p.ProfessionalID] = *p
	return p, nil
}

type fakeProfessionals struct{}

func (fakeProfessionals) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	if id != "pro-1" {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	return &domain.Professional{ID: id, OwnerUID: "owner"}, nil
}

func TestService_GetDefaults(t *testing.T) {
	svc := NewService(&memPolicies{stored: map[string]domain.BookingPolicy{}}, fakeProfessionals{}, logger.NewNop())

	resp, err := svc.Get(context.Background(), "pro-1")
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, domain.DefaultMinBookingNoticeMinutes, resp.MinBookingNoticeMinutes)
	assert.Equal(t, 0, resp.AdvanceBookingDays)
	assert.False(t, resp.AutoConfirm)
	assert.Nil(t, resp.UpdatedAt)

	_, err = svc.Get(context.Background(), "pro-x")
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestService_UpsertPartial(t *testing.T) {
	repo := &memPolicies{stored: map[string]domain.BookingPolicy{}}
	svc := NewService(repo, fakeProfessionals{}, logger.NewNop())
	ctx := context.Background()

	resp, err := svc.Upsert(ctx, "pro-1", &models.UpsertPolicyRequest{UserID: "owner", AutoConfirm: ptr.Ptr(true)})
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	assert.True(t, resp.AutoConfirm)
	assert.Equal(t, domain.DefaultMinBookingNoticeMinutes, resp.MinBookingNoticeMinutes)

	resp, err = svc.Upsert(ctx, "pro-1", &models.UpsertPolicyRequest{UserID: "owner", AdvanceBookingDays: ptr.Ptr(30)})
	require.NoError(t, err)
	assert.True(t, resp.AutoConfirm)
	assert.Equal(t, 30, resp.AdvanceBookingDays)
	assert.Equal(t, 30, repo.stored["pro-1"].AdvanceBookingDays)
}

func TestService_UpsertErrors(t *testing.T) {
	tests := []struct {
		name    string
		proID   string
		req     models.UpsertPolicyRequest
		repoErr error
		wantErr error
	}{
		{"not owner", "pro-1", models.UpsertPolicyRequest{UserID: "client"}, nil, ErrAccessDenied},
		{"unknown professional", "pro-x", models.UpsertPolicyRequest{UserID: "owner"}, nil, ErrProfessionalNotFound},
		{"negative notice", "pro-1", models.UpsertPolicyRequest{UserID: "owner", MinBookingNoticeMinutes: ptr.Ptr(-1)}, nil, ErrInvalidInput},
		{"advance too far", "pro-1", models.UpsertPolicyRequest{UserID: "owner", AdvanceBookingDays: ptr.Ptr(400)}, nil, ErrInvalidInput},
		{"cancellation too long", "pro-1", models.UpsertPolicyRequest{UserID: "owner", CancellationNoticeMinutes: ptr.Ptr(20000)}, nil, ErrInvalidInput},
		{"repository failure", "pro-1", models.UpsertPolicyRequest{UserID: "owner"}, errors.New("db down"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memPolicies{stored: map[string]domain.BookingPolicy{}, err: tt.repoErr}
			svc := NewService(repo, fakeProfessionals{}, logger.NewNop())
			req := tt.req
			_, err := svc.Upsert(context.Background(), tt.proID, &req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.stored)
		})
	}
}
