package professionals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type memRepo struct {
	byID       map[string]*domain.Professional
	lastFilter domain.ProfessionalFilter
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*domain.Professional{}}
}

func (m *memRepo) Create(_ context.Context, p *domain.Professional) (*domain.Professional, error) {
	for _, existing := range m.byID {
		if existing.OwnerUID == p.OwnerUID {
			return nil, professionalRepo.ErrDuplicateOwner
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return p, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetByOwnerUID(_ context.Context, uid string) (*domain.Professional, error) {
	for _, p := range m.byID {
		if p.OwnerUID == uid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, professionalRepo.ErrProfessionalNotFound
}

func (m *memRepo) List(_ context.Context, filter domain.ProfessionalFilter) ([]*domain.Professional, error) {
	m.lastFilter = filter
	var result []*domain.Professional
	for _, p := range m.byID {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *memRepo) Update(_ context.Context, p *domain.Professional) (*domain.Professional, error) {
	if _, ok := m.byID[p.ID]; !ok {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return p, nil
}

func validCreate(owner string) *models.CreateProfessionalRequest {
	return &models.CreateProfessionalRequest{
		OwnerUID:  owner,
		Name:      "  Мария Иванова ",
		Category:  "counselor",
		Languages: []string{"RU", " en "},
		Email:     ptr.Ptr("maria@example.org"),
		Phone:     ptr.Ptr("+7 (900) 123-45-67"),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, logger.NewNop())

	resp, err := svc.Create(ctx, validCreate("uid-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Мария Иванова", resp.Name)
	assert.Equal(t, []string{"ru", "en"}, resp.Languages)

	_, err = svc.Create(ctx, validCreate("uid-1"))
	assert.ErrorIs(t, err, ErrProfileAlreadyExists)

	own, err := svc.GetByOwner(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, own.ID)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateProfessionalRequest)
	}{
		{"empty name", func(r *models.CreateProfessionalRequest) { r.Name = "   " }},
		{"unknown category", func(r *models.CreateProfessionalRequest) { r.Category = "plumber" }},
		{"bad language", func(r *models.CreateProfessionalRequest) { r.Languages = []string{"russian language"} }},
		{"bad email", func(r *models.CreateProfessionalRequest) { r.Email = ptr.Ptr("not-an-email") }},
		{"bad phone", func(r *models.CreateProfessionalRequest) { r.Phone = ptr.Ptr("call me") }},
		{"no owner", func(r *models.CreateProfessionalRequest) { r.OwnerUID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemRepo(), logger.NewNop())
			req := validCreate("uid-1")
			tt.mutate(req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, logger.NewNop())

	created, err := svc.Create(ctx, validCreate("uid-1"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &models.UpdateProfessionalRequest{
		UserID:   "uid-1",
		Category: ptr.Ptr("social_worker"),
		Bio:      ptr.Ptr("Помощь семьям"),
	})
	require.NoError(t, err)
	assert.Equal(t, "social_worker", updated.Category)
	assert.Equal(t, "Помощь семьям", ptr.Value(updated.Bio))
	assert.Equal(t, "Мария Иванова", updated.Name)

	_, err = svc.Update(ctx, created.ID, &models.UpdateProfessionalRequest{UserID: "uid-2", Name: ptr.Ptr("Чужой")})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Update(ctx, created.ID, &models.UpdateProfessionalRequest{UserID: "uid-1", Category: ptr.Ptr("wizard")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, "missing", &models.UpdateProfessionalRequest{UserID: "uid-1"})
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, logger.NewNop())

	_, err := svc.Create(ctx, validCreate("uid-1"))
	require.NoError(t, err)
	lawyer := validCreate("uid-2")
	lawyer.Category = "lawyer"
	_, err = svc.Create(ctx, lawyer)
	require.NoError(t, err)

	resp, err := svc.List(ctx, &models.ListProfessionalsRequest{Category: ptr.Ptr("lawyer")})
	require.NoError(t, err)
	assert.Len(t, resp.Professionals, 1)
	assert.Equal(t, domain.DefaultProfessionalsPageSize, resp.Limit)
	assert.Equal(t, domain.DefaultProfessionalsPageSize, repo.lastFilter.Limit)

	_, err = svc.List(ctx, &models.ListProfessionalsRequest{Category: ptr.Ptr("plumber")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(ctx, &models.ListProfessionalsRequest{Limit: 1000})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
