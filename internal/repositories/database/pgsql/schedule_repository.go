package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/SscSPs/cancha_booking_app/internal/models"
	"github.com/SscSPs/cancha_booking_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const templateRowColumns = `field_schedule_id, field_id, day_of_week, start_time, end_time, is_available`

// PgxScheduleRepository stores normalized template rows and the legacy dense encoding.
type PgxScheduleRepository struct {
	BaseRepository
}

func newPgxScheduleRepository(pool *pgxpool.Pool) *PgxScheduleRepository {
	return &PgxScheduleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ScheduleRepositoryFacade = (*PgxScheduleRepository)(nil)

func (r *PgxScheduleRepository) FindTemplateRows(ctx context.Context, fieldID string, weekday time.Weekday) ([]domain.TemplateRow, error) {
	query := `SELECT ` + templateRowColumns + `
		FROM field_schedules
		WHERE field_id = $1 AND day_of_week = $2
		ORDER BY start_time;`
	return r.queryTemplateRows(ctx, query, fieldID, int16(weekday))
}

func (r *PgxScheduleRepository) ListTemplateRows(ctx context.Context, fieldID string) ([]domain.TemplateRow, error) {
	query := `SELECT ` + templateRowColumns + `
		FROM field_schedules
		WHERE field_id = $1
		ORDER BY day_of_week, start_time;`
	return r.queryTemplateRows(ctx, query, fieldID)
}

func (r *PgxScheduleRepository) queryTemplateRows(ctx context.Context, query string, args ...any) ([]domain.TemplateRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query schedule rows")
	}
	defer rows.Close()

	var ms []models.FieldSchedule
	for rows.Next() {
		var m models.FieldSchedule
		if err := rows.Scan(&m.ScheduleID, &m.FieldID, &m.DayOfWeek, &m.StartTime, &m.EndTime, &m.IsAvailable); err != nil {
			return nil, mapPgError(err, "failed to scan schedule row")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating schedule rows")
	}
	return mapping.ToDomainTemplateRowSlice(ms), nil
}

// FindDenseSchedule returns the legacy encoding of a field.
func (r *PgxScheduleRepository) FindDenseSchedule(ctx context.Context, fieldID string) (*domain.DenseSchedule, error) {
	query := `
		SELECT schedule_id, field_id, schedule_mon, schedule_tue, schedule_wed, schedule_thu, schedule_fri, schedule_sat, schedule_sun
		FROM schedules
		WHERE field_id = $1;
	`
	var m models.Schedule
	err := r.Pool.QueryRow(ctx, query, fieldID).Scan(
		&m.ScheduleID, &m.FieldID, &m.Mon, &m.Tue, &m.Wed, &m.Thu, &m.Fri, &m.Sat, &m.Sun,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("schedule for field " + fieldID)
		}
		return nil, mapPgError(err, "failed to find dense schedule")
	}
	dense := mapping.ToDomainDenseSchedule(m)
	return &dense, nil
}

// ReplaceTemplateDay deletes and rewrites one weekday inside a single transaction.
func (r *PgxScheduleRepository) ReplaceTemplateDay(ctx context.Context, fieldID string, weekday time.Weekday, rows []domain.TemplateRow) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM field_schedules WHERE field_id = $1 AND day_of_week = $2;`, fieldID, int16(weekday)); err != nil {
		return mapPgError(err, "failed to clear schedule day")
	}
	if err = insertTemplateRows(ctx, tx, rows); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ImportDenseSchedule upserts the legacy row and normalizes the weekdays that have no rows yet.
func (r *PgxScheduleRepository) ImportDenseSchedule(ctx context.Context, dense domain.DenseSchedule, decoded map[time.Weekday][]domain.TemplateRow) (written []time.Weekday, err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	m := mapping.ToModelSchedule(uuid.NewString(), dense)
	upsert := `
		INSERT INTO schedules (schedule_id, field_id, schedule_mon, schedule_tue, schedule_wed, schedule_thu, schedule_fri, schedule_sat, schedule_sun)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (field_id) DO UPDATE SET
			schedule_mon = EXCLUDED.schedule_mon,
			schedule_tue = EXCLUDED.schedule_tue,
			schedule_wed = EXCLUDED.schedule_wed,
			schedule_thu = EXCLUDED.schedule_thu,
			schedule_fri = EXCLUDED.schedule_fri,
			schedule_sat = EXCLUDED.schedule_sat,
			schedule_sun = EXCLUDED.schedule_sun;
	`
	if _, err = tx.Exec(ctx, upsert, m.ScheduleID, m.FieldID, m.Mon, m.Tue, m.Wed, m.Thu, m.Fri, m.Sat, m.Sun); err != nil {
		return nil, mapPgError(err, "failed to store dense schedule")
	}

	for w := time.Sunday; w <= time.Saturday; w++ {
		rows, ok := decoded[w]
		if !ok {
			continue
		}
		var existing int
		if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM field_schedules WHERE field_id = $1 AND day_of_week = $2;`, dense.FieldID, int16(w)).Scan(&existing); err != nil {
			return nil, mapPgError(err, "failed to count schedule rows")
		}
		if existing > 0 {
			continue
		}
		if err = insertTemplateRows(ctx, tx, rows); err != nil {
			return nil, err
		}
		written = append(written, w)
	}

	if err = r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return written, nil
}

func insertTemplateRows(ctx context.Context, tx pgx.Tx, rows []domain.TemplateRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		if row.ScheduleID == "" {
			row.ScheduleID = uuid.NewString()
		}
		m := mapping.ToModelFieldSchedule(row)
		batch.Queue(`
			INSERT INTO field_schedules (field_schedule_id, field_id, day_of_week, start_time, end_time, is_available)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			m.ScheduleID, m.FieldID, m.DayOfWeek, m.StartTime, m.EndTime, m.IsAvailable,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return mapPgError(err, fmt.Sprintf("failed to insert schedule rows for field %s", rows[0].FieldID))
		}
	}
	if err := results.Close(); err != nil {
		return mapPgError(err, "failed to close schedule batch")
	}
	return nil
}
