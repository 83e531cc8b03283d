package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "professional_booking_policy"

// Repository репозиторий политик бронирования специалистов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProfessionalID получает политику специалиста
// Если политика не задана, возвращает ErrPolicyNotFound
func (r *Repository) GetByProfessionalID(ctx context.Context, professionalID string) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"professional_id",
		"min_booking_notice_minutes",
		"advance_booking_days",
		"auto_confirm",
		"cancellation_notice_minutes",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessionalID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.BookingPolicy
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ProfessionalID,
		&p.MinBookingNoticeMinutes,
		&p.AdvanceBookingDays,
		&p.AutoConfirm,
		&p.CancellationNoticeMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessionalID - scan policy: %w", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Upsert создает или полностью заменяет политику специалиста
func (r *Repository) Upsert(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"professional_id",
			"min_booking_notice_minutes",
			"advance_booking_days",
			"auto_confirm",
			"cancellation_notice_minutes",
		).
		Values(
			p.ProfessionalID,
			p.MinBookingNoticeMinutes,
			p.AdvanceBookingDays,
			p.AutoConfirm,
			p.CancellationNoticeMinutes,
		).
		Suffix(`ON CONFLICT (professional_id) DO UPDATE SET
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			auto_confirm = EXCLUDED.auto_confirm,
			cancellation_notice_minutes = EXCLUDED.cancellation_notice_minutes,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
