package professionals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals/models"
)

// Service сервис каталога специалистов
type Service struct {
	professionalRepo ProfessionalRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса специалистов
func NewService(professionalRepo ProfessionalRepository, logger Logger) *Service {
	return &Service{
		professionalRepo: professionalRepo,
		logger:           logger,
	}
}

// Create создает профиль специалиста; у одной учётной записи может быть только один профиль
func (s *Service) Create(ctx context.Context, req *models.CreateProfessionalRequest) (*models.ProfessionalResponse, error) {
	s.logger.Info("Create: creating professional profile for owner=%s", req.OwnerUID)

	if req.OwnerUID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	professional := req.ToDomain(uuid.NewString())
	normalize(professional)
	if err := validateProfessional(professional); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.professionalRepo.Create(ctx, professional)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrDuplicateOwner) {
			s.logger.Warn("Create: owner=%s already has a profile", req.OwnerUID)
			return nil, ErrProfileAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created professional id=%s", created.ID)
	return models.FromDomainProfessional(created), nil
}

// GetByID получает профиль специалиста. Публичный метод
func (s *Service) GetByID(ctx context.Context, id string) (*models.ProfessionalResponse, error) {
	professional, err := s.professionalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}
	return models.FromDomainProfessional(professional), nil
}

// GetByOwner получает профиль текущего пользователя
func (s *Service) GetByOwner(ctx context.Context, uid string) (*models.ProfessionalResponse, error) {
	professional, err := s.professionalRepo.GetByOwnerUID(ctx, uid)
	if err != nil {
		return nil, s.mapRepoError("GetByOwner", uid, err)
	}
	return models.FromDomainProfessional(professional), nil
}

// List возвращает страницу каталога с фильтрами по категории, языку и поисковой строке
func (s *Service) List(ctx context.Context, req *models.ListProfessionalsRequest) (*models.ProfessionalListResponse, error) {
	limit, offset, err := validateListRequest(req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	filter := domain.ProfessionalFilter{
		Language: req.Language,
		Search:   req.Search,
		Limit:    limit,
		Offset:   offset,
	}
	if req.Category != nil {
		category := domain.ProfessionalCategory(*req.Category)
		if !category.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *req.Category)
		}
		filter.Category = &category
	}

	list, err := s.professionalRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.ProfessionalListResponse{
		Professionals: make([]models.ProfessionalResponse, 0, len(list)),
		Limit:         limit,
		Offset:        offset,
	}
	for _, p := range list {
		resp.Professionals = append(resp.Professionals, *models.FromDomainProfessional(p))
	}

	s.logger.Info("List: fetched %d professionals", len(resp.Professionals))
	return resp, nil
}

// Update частично обновляет профиль. Доступно только владельцу
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateProfessionalRequest) (*models.ProfessionalResponse, error) {
	s.logger.Info("Update: updating professional id=%s by user=%s", id, req.UserID)

	professional, err := s.professionalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Update", id, err)
	}

	if !professional.IsOwnedBy(req.UserID) {
		s.logger.Warn("Update: user=%s does not own professional id=%s", req.UserID, id)
		return nil, ErrAccessDenied
	}

	req.ApplyTo(professional)
	normalize(professional)
	if err := validateProfessional(professional); err != nil {
		s.logger.Warn("Update: validation failed for professional id=%s: %v", id, err)
		return nil, err
	}

	updated, err := s.professionalRepo.Update(ctx, professional)
	if err != nil {
		return nil, s.mapRepoError("Update", id, err)
	}

	s.logger.Info("Update: updated professional id=%s", id)
	return models.FromDomainProfessional(updated), nil
}

func (s *Service) mapRepoError(method, id string, err error) error {
	if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
		s.logger.Warn("%s: professional %s not found", method, id)
		return ErrProfessionalNotFound
	}
	s.logger.Error("%s: repository error for professional %s: %v", method, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
}
