package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	table = "slots"

	pqForeignKeyViolation = "23503"
)

var columns = []string{
	"id",
	"professional_id",
	"start_date",
	"end_date",
	"duration_minutes",
	"type",
	"location",
	"price",
	"is_booked",
	"is_cancelled",
	"booked_by_uid",
	"recurrence_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет слот. ID генерируется вызывающей стороной
func (r *Repository) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	created, err := r.CreateBatch(ctx, []*domain.AvailabilitySlot{slot})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateBatch сохраняет несколько слотов одним INSERT
// Для повторяющихся шаблонов вызывается внутри транзакции вместе с FindOverlapping
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.AvailabilitySlot) ([]*domain.AvailabilitySlot, error) {
	if len(slots) == 0 {
		return slots, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(table).
		Columns(
			"id",
			"professional_id",
			"start_date",
			"end_date",
			"duration_minutes",
			"type",
			"location",
			"price",
			"is_booked",
			"is_cancelled",
			"recurrence_id",
		)

	byID := make(map[string]*domain.AvailabilitySlot, len(slots))
	for _, s := range slots {
		insert = insert.Values(
			s.ID,
			s.ProfessionalID,
			s.StartDate,
			s.EndDate,
			s.DurationMinutes,
			s.Type,
			s.Location,
			s.Price,
			false,
			false,
			s.RecurrenceID,
		)
		byID[s.ID] = s
	}

	query, args, err := insert.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - scan returning: %v", ErrScanRow, err)
		}
		if s, ok := byID[id]; ok {
			s.IsBooked = false
			s.IsCancelled = false
			s.BookedByUID = nil
			s.CreatedAt = createdAt
			s.UpdatedAt = updatedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - rows error: %w", ErrExecQuery, err)
	}

	return slots, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// List возвращает слоты специалиста, отсортированные по началу
// From/To выбирают слоты, пересекающиеся с периодом [From, To)
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": filter.ProfessionalID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_date": *filter.To})
	}

	if filter.OnlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_booked": false, "is_cancelled": false})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_cancelled": false})
	}

	query, args, err := selectBuilder.OrderBy("start_date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// FindOverlapping возвращает неотменённые слоты специалиста, пересекающиеся с [start, end)
// Внутри транзакции найденные строки блокируются (FOR UPDATE)
func (r *Repository) FindOverlapping(ctx context.Context, professionalID string, start, end time.Time) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID, "is_cancelled": false}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start}).
		OrderBy("start_date ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// MarkBooked атомарно помечает слот забронированным клиентом
// Срабатывает только если слот свободен и не отменён, иначе ErrSlotNotAvailable
func (r *Repository) MarkBooked(ctx context.Context, id string, clientUID string) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_booked", true).
		Set("booked_by_uid", clientUID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_booked": false, "is_cancelled": false}).
		Suffix("RETURNING " + returningColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missReason(ctx, "MarkBooked", id, ErrSlotNotAvailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: MarkBooked - execute update: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// Release снимает бронь со слота, если его удерживает указанный клиент
func (r *Repository) Release(ctx context.Context, id string, clientUID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_booked", false).
		Set("booked_by_uid", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_booked": true, "booked_by_uid": clientUID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, "Release", id, query, args, ErrSlotNotHeld)
}

// Cancel скрывает свободный слот, сохраняя его в истории
func (r *Repository) Cancel(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_cancelled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_booked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execCAS(ctx, executor, "Cancel", id, query, args, ErrSlotBooked)
}

// Delete удаляет свободный слот, на который никогда не было бронирований
// Слот с историей бронирований можно только отменить: ErrSlotHasHistory
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "is_booked": false}).
		Where("NOT EXISTS (SELECT 1 FROM bookings b WHERE b.slot_id = slots.id)").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return ErrSlotHasHistory
		}
		return fmt.Errorf("%w: Delete - execute: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if affected > 0 {
		return nil
	}

	return r.deleteMissReason(ctx, id)
}

// deleteMissReason различает отсутствующий, забронированный слот и слот с историей
func (r *Repository) deleteMissReason(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("is_booked").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build exists query: %v", ErrBuildQuery, err)
	}

	var booked bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Delete - check exists: %w", ErrExecQuery, err)
	}

	if booked {
		return ErrSlotBooked
	}
	return ErrSlotHasHistory
}

// DeleteUnbookedEndedBefore удаляет свободные и отменённые слоты, закончившиеся до t
// Слоты, на которые есть бронирования в истории, не трогаются
func (r *Repository) DeleteUnbookedEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"is_booked": false}).
		Where(squirrel.Lt{"end_date": t}).
		Where("NOT EXISTS (SELECT 1 FROM bookings b WHERE b.slot_id = slots.id)").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedEndedBefore - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedEndedBefore - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedEndedBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// execCAS выполняет условное изменение; при промахе различает отсутствие слота и нарушенное условие
func (r *Repository) execCAS(ctx context.Context, executor DBExecutor, method, id, query string, args []interface{}, miss error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, method, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if affected == 0 {
		return r.missReason(ctx, method, id, miss)
	}

	return nil
}

func (r *Repository) missReason(ctx context.Context, method, id string, miss error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build exists query: %v", ErrBuildQuery, method, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s - check exists: %w", ErrExecQuery, method, err)
	}

	return miss
}

func returningColumns() string {
	return strings.Join(columns, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	err := row.Scan(
		&s.ID,
		&s.ProfessionalID,
		&s.StartDate,
		&s.EndDate,
		&s.DurationMinutes,
		&s.Type,
		&s.Location,
		&s.Price,
		&s.IsBooked,
		&s.IsCancelled,
		&s.BookedByUID,
		&s.RecurrenceID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
