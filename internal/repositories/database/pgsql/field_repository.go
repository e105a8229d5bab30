package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/SscSPs/cancha_booking_app/internal/models"
	"github.com/SscSPs/cancha_booking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFieldRepository reads fields. Fields are managed by another service; this one only looks them up.
type PgxFieldRepository struct {
	BaseRepository
}

func newPgxFieldRepository(pool *pgxpool.Pool) *PgxFieldRepository {
	return &PgxFieldRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FieldRepositoryFacade = (*PgxFieldRepository)(nil)

// FindFieldByID retrieves a field that has not been soft deleted.
func (r *PgxFieldRepository) FindFieldByID(ctx context.Context, fieldID string) (*domain.Field, error) {
	query := `
		SELECT field_id, company_id, field_name, field_type, field_hour_price, field_delete, created_at, updated_at
		FROM fields
		WHERE field_id = $1 AND field_delete = FALSE;
	`
	var m models.Field
	err := r.Pool.QueryRow(ctx, query, fieldID).Scan(
		&m.FieldID,
		&m.CompanyID,
		&m.Name,
		&m.Type,
		&m.HourPrice,
		&m.Deleted,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("field " + fieldID)
		}
		return nil, mapPgError(err, "failed to find field "+fieldID)
	}
	field := mapping.ToDomainField(m)
	return &field, nil
}
