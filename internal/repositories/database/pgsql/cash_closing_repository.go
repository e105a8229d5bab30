package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/SscSPs/cancha_booking_app/internal/models"
	"github.com/SscSPs/cancha_booking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cashClosingColumns = `cash_closing_id, company_id, reservation_ids, cash_closing_total, cash_closing_date,
	cash_closing_state, created_by, created_at, updated_at`

// PgxCashClosingRepository stores settlement batches.
type PgxCashClosingRepository struct {
	BaseRepository
}

func newPgxCashClosingRepository(pool *pgxpool.Pool) *PgxCashClosingRepository {
	return &PgxCashClosingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashClosingRepositoryWithTx = (*PgxCashClosingRepository)(nil)

func scanCashClosing(row pgx.Row) (models.CashClosing, error) {
	var m models.CashClosing
	err := row.Scan(
		&m.CashClosingID,
		&m.CompanyID,
		&m.ReservationIDs,
		&m.Total,
		&m.Date,
		&m.State,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxCashClosingRepository) FindCashClosingByID(ctx context.Context, closingID string) (*domain.CashClosing, error) {
	query := `SELECT ` + cashClosingColumns + ` FROM cash_closings WHERE cash_closing_id = $1;`
	m, err := scanCashClosing(r.Pool.QueryRow(ctx, query, closingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cash closing " + closingID)
		}
		return nil, mapPgError(err, "failed to find cash closing")
	}
	closing := mapping.ToDomainCashClosing(m)
	return &closing, nil
}

func (r *PgxCashClosingRepository) ListCashClosingsByCompany(ctx context.Context, companyID string, limit, offset int) ([]domain.CashClosing, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM cash_closings WHERE company_id = $1;`, companyID).Scan(&total); err != nil {
		return nil, 0, mapPgError(err, "failed to count cash closings")
	}

	query := `SELECT ` + cashClosingColumns + `
		FROM cash_closings
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, mapPgError(err, "failed to list cash closings")
	}
	defer rows.Close()

	var ms []models.CashClosing
	for rows.Next() {
		m, err := scanCashClosing(rows)
		if err != nil {
			return nil, 0, mapPgError(err, "failed to scan cash closing")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPgError(err, "error iterating cash closings")
	}
	return mapping.ToDomainCashClosingSlice(ms), total, nil
}

func (r *PgxCashClosingRepository) InsertCashClosingInTx(ctx context.Context, tx pgx.Tx, closing domain.CashClosing) error {
	m := mapping.ToModelCashClosing(closing)
	query := `INSERT INTO cash_closings (` + cashClosingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := tx.Exec(ctx, query,
		m.CashClosingID, m.CompanyID, m.ReservationIDs, m.Total, m.Date,
		m.State, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert cash closing "+m.CashClosingID)
	}
	return nil
}

func (r *PgxCashClosingRepository) UpdateCashClosingState(ctx context.Context, closingID string, state domain.CashClosingState, at time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE cash_closings SET cash_closing_state = $2, updated_at = $3 WHERE cash_closing_id = $1;`,
		closingID, string(state), at)
	if err != nil {
		return mapPgError(err, "failed to update cash closing state")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cash closing " + closingID)
	}
	return nil
}
