package professional

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	table = "professionals"

	ownerIndex        = "professionals_owner_uid_uidx"
	pqUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"owner_uid",
	"name",
	"category",
	"specialization",
	"bio",
	"languages",
	"location",
	"email",
	"phone",
	"is_verified",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога специалистов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория специалистов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет профиль специалиста. ID генерируется вызывающей стороной
func (r *Repository) Create(ctx context.Context, p *domain.Professional) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"owner_uid",
			"name",
			"category",
			"specialization",
			"bio",
			"languages",
			"location",
			"email",
			"phone",
		).
		Values(
			p.ID,
			p.OwnerUID,
			p.Name,
			p.Category,
			p.Specialization,
			p.Bio,
			pq.Array(languages(p.Languages)),
			p.Location,
			p.Email,
			p.Phone,
		).
		Suffix("RETURNING is_verified, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation && pqErr.Constraint == ownerIndex {
			return nil, ErrDuplicateOwner
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// GetByID получает специалиста по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Professional, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByOwnerUID получает профиль, принадлежащий учётной записи
func (r *Repository) GetByOwnerUID(ctx context.Context, uid string) (*domain.Professional, error) {
	return r.getOne(ctx, "GetByOwnerUID", squirrel.Eq{"owner_uid": uid})
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Eq) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	p, err := scanProfessional(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan professional: %w", ErrScanRow, method, err)
	}

	return p, nil
}

// List возвращает страницу каталога
// Поиск выполняется по имени и специализации без учёта регистра
func (r *Repository) List(ctx context.Context, filter domain.ProfessionalFilter) ([]*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.Category != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.Language != nil {
		selectBuilder = selectBuilder.Where("? = ANY(languages)", *filter.Language)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"specialization": pattern},
		})
	}

	selectBuilder = selectBuilder.OrderBy("is_verified DESC", "name ASC", "id ASC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Update обновляет изменяемые поля профиля
func (r *Repository) Update(ctx context.Context, p *domain.Professional) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("specialization", p.Specialization).
		Set("bio", p.Bio).
		Set("languages", pq.Array(languages(p.Languages))).
		Set("location", p.Location).
		Set("email", p.Email).
		Set("phone", p.Phone).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING is_verified, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return p, nil
}

// languages не даёт записать NULL в NOT NULL колонку
func languages(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfessional(row rowScanner) (*domain.Professional, error) {
	var p domain.Professional
	var langs pq.StringArray

	err := row.Scan(
		&p.ID,
		&p.OwnerUID,
		&p.Name,
		&p.Category,
		&p.Specialization,
		&p.Bio,
		&langs,
		&p.Location,
		&p.Email,
		&p.Phone,
		&p.IsVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Languages = []string(langs)
	return &p, nil
}
