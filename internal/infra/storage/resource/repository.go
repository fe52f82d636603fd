package resource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с ресурсами и их расписаниями.
// Конфигурация и payload расписания хранятся как JSONB и декодируются
// в типизированные структуры здесь, на границе хранилища — дальше движок
// работает только с domain.ResourceConfig и domain.TimetablePayload.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ресурс вместе с конфигурацией и расписанием (если есть)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"resource_type",
		"name",
		"config",
		"created_at",
		"updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var res domain.Resource
	var configRaw []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.CompanyID,
		&res.ResourceType,
		&res.Name,
		&configRaw,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	if len(configRaw) > 0 {
		if err := json.Unmarshal(configRaw, &res.Config); err != nil {
			return nil, fmt.Errorf("%w: GetByID - config json: %v", ErrDecodePayload, err)
		}
	}
	res.Config.ApplyDefaults()

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	timetable, err := r.getTimetableByResourceID(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	res.Timetable = timetable

	return &res, nil
}

// getTimetableByResourceID загружает расписание ресурса.
// Отсутствие расписания — не ошибка: возвращается nil.
func (r *Repository) getTimetableByResourceID(ctx context.Context, resourceID int64) (*domain.TimetablePayload, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"name",
		"kind",
		"payload",
	).
		From("timetables").
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getTimetableByResourceID - build select query: %v", ErrBuildQuery, err)
	}

	var tt domain.TimetablePayload
	var payloadRaw []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tt.ID,
		&tt.ResourceID,
		&tt.Name,
		&tt.Kind,
		&payloadRaw,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getTimetableByResourceID - scan timetable: %v", ErrScanRow, err)
	}

	switch tt.Kind {
	case domain.TimetableStatic:
		var schedule domain.WeeklySchedule
		if len(payloadRaw) > 0 {
			if err := json.Unmarshal(payloadRaw, &schedule); err != nil {
				return nil, fmt.Errorf("%w: getTimetableByResourceID - schedule json: %v", ErrDecodePayload, err)
			}
		}
		tt.Schedule = &schedule
	case domain.TimetableDynamic:
		dates, err := r.getTimetableDates(ctx, tt.ID)
		if err != nil {
			return nil, err
		}
		tt.Dates = dates
	}

	return &tt, nil
}

// getTimetableDates загружает override-строки динамического расписания
func (r *Repository) getTimetableDates(ctx context.Context, timetableID int64) (map[string]domain.DayHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"date",
		"start_time",
		"end_time",
		"breaks",
	).
		From("timetable_dates").
		Where(squirrel.Eq{"timetable_id": timetableID}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getTimetableDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getTimetableDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make(map[string]domain.DayHours)
	for rows.Next() {
		var date string
		var day domain.DayHours
		var breaksRaw []byte

		if err := rows.Scan(&date, &day.Start, &day.End, &breaksRaw); err != nil {
			return nil, fmt.Errorf("%w: getTimetableDates - scan row: %v", ErrScanRow, err)
		}

		if len(breaksRaw) > 0 {
			if err := json.Unmarshal(breaksRaw, &day.Breaks); err != nil {
				return nil, fmt.Errorf("%w: getTimetableDates - breaks json: %v", ErrDecodePayload, err)
			}
		}

		dates[date] = day
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getTimetableDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// Create создает новый ресурс (используется сидером и импортом)
func (r *Repository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	configRaw, err := json.Marshal(res.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal config: %v", ErrDecodePayload, err)
	}

	query, args, err := psqlbuilder.Insert("resources").
		Columns("company_id", "resource_type", "name", "config").
		Values(res.CompanyID, res.ResourceType, res.Name, configRaw).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// CreateTimetable создает расписание ресурса.
// Для static-расписаний payload — недельный шаблон; для dynamic строки
// дат добавляются отдельно через UpsertTimetableDate.
func (r *Repository) CreateTimetable(ctx context.Context, tt *domain.TimetablePayload) (*domain.TimetablePayload, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var payloadRaw []byte
	var err error
	if tt.Schedule != nil {
		payloadRaw, err = json.Marshal(tt.Schedule)
		if err != nil {
			return nil, fmt.Errorf("%w: CreateTimetable - marshal schedule: %v", ErrDecodePayload, err)
		}
	} else {
		payloadRaw = []byte("{}")
	}

	query, args, err := psqlbuilder.Insert("timetables").
		Columns("resource_id", "name", "kind", "payload").
		Values(tt.ResourceID, tt.Name, tt.Kind, payloadRaw).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimetable - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&tt.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateTimetable - execute insert: %v", ErrExecQuery, err)
	}

	return tt, nil
}

// UpsertTimetableDate добавляет или обновляет override-строку динамического расписания
func (r *Repository) UpsertTimetableDate(ctx context.Context, timetableID int64, date string, day domain.DayHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	breaksRaw, err := json.Marshal(day.Breaks)
	if err != nil {
		return fmt.Errorf("%w: UpsertTimetableDate - marshal breaks: %v", ErrDecodePayload, err)
	}

	query, args, err := psqlbuilder.Insert("timetable_dates").
		Columns("timetable_id", "date", "start_time", "end_time", "breaks").
		Values(timetableID, date, day.Start, day.End, breaksRaw).
		Suffix("ON CONFLICT (timetable_id, date) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, breaks = EXCLUDED.breaks").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertTimetableDate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertTimetableDate - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
