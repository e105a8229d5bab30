package services_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/apperrors"
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// memTx buffers writes until commit. Only the repository methods below touch it.
type memTx struct {
	pgx.Tx
	locked  bool
	pending []domain.Reservation
}

// memReservationRepo is a transactional in-memory reservation store. The day
// lock is a single mutex, which serializes every writer the way the database
// advisory lock serializes writers of one field-day.
type memReservationRepo struct {
	mu      sync.Mutex
	dayLock sync.Mutex
	rows    map[string]domain.Reservation
	fields  map[string]domain.Field
	commits int
}

var _ portsrepo.ReservationRepositoryWithTx = (*memReservationRepo)(nil)

func newMemReservationRepo(fields ...domain.Field) *memReservationRepo {
	repo := &memReservationRepo{rows: map[string]domain.Reservation{}, fields: map[string]domain.Field{}}
	for _, f := range fields {
		repo.fields[f.FieldID] = f
	}
	return repo
}

func (r *memReservationRepo) put(res domain.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[res.ReservationID] = res
}

func (r *memReservationRepo) get(id string) (domain.Reservation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[id]
	return res, ok
}

func (r *memReservationRepo) snapshot(match func(domain.Reservation) bool) []domain.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Reservation, 0)
	for _, res := range r.rows {
		if match(res) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	return out
}

func (r *memReservationRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{}, nil
}

func (r *memReservationRepo) Commit(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	r.mu.Lock()
	for _, res := range t.pending {
		r.rows[res.ReservationID] = res
	}
	r.commits++
	r.mu.Unlock()
	t.pending = nil
	r.release(t)
	return nil
}

func (r *memReservationRepo) Rollback(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	t.pending = nil
	r.release(t)
	return nil
}

func (r *memReservationRepo) release(t *memTx) {
	if t.locked {
		t.locked = false
		r.dayLock.Unlock()
	}
}

func (r *memReservationRepo) lock(tx pgx.Tx) {
	t := tx.(*memTx)
	if !t.locked {
		r.dayLock.Lock()
		t.locked = true
	}
}

func (r *memReservationRepo) LockFieldDay(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date) error {
	r.lock(tx)
	return nil
}

func (r *memReservationRepo) FindBlockingInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date, iv domain.Interval) ([]domain.Reservation, error) {
	return r.snapshot(func(res domain.Reservation) bool {
		return res.FieldID == fieldID && res.Date == date && res.Blocks(iv)
	}), nil
}

func (r *memReservationRepo) FindOpenSlotInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date, iv domain.Interval) (*domain.Reservation, error) {
	open := r.snapshot(func(res domain.Reservation) bool {
		return res.FieldID == fieldID && res.Date == date && res.State == domain.StateAvailable && res.Interval() == iv
	})
	if len(open) == 0 {
		return nil, nil
	}
	return &open[0], nil
}

func (r *memReservationRepo) FindReservationByIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID string) (*domain.Reservation, error) {
	r.lock(tx)
	return r.FindReservationByID(ctx, reservationID)
}

func (r *memReservationRepo) InsertReservationInTx(ctx context.Context, tx pgx.Tx, res domain.Reservation) error {
	t := tx.(*memTx)
	t.pending = append(t.pending, res)
	return nil
}

func (r *memReservationRepo) UpdateReservationInTx(ctx context.Context, tx pgx.Tx, res domain.Reservation) error {
	t := tx.(*memTx)
	t.pending = append(t.pending, res)
	return nil
}

func (r *memReservationRepo) ListDayRowsInTx(ctx context.Context, tx pgx.Tx, fieldID string, date domain.Date) ([]domain.Reservation, error) {
	return r.ListReservationsByFieldDate(ctx, fieldID, date)
}

func (r *memReservationRepo) LockSettlementCandidatesInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reservation, error) {
	r.lock(tx)
	return r.snapshot(func(res domain.Reservation) bool {
		return r.fields[res.FieldID].CompanyID == companyID && res.Settleable()
	}), nil
}

func (r *memReservationRepo) MarkClosedInTx(ctx context.Context, tx pgx.Tx, reservationIDs []string, closingID string, at time.Time) error {
	t := tx.(*memTx)
	for _, id := range reservationIDs {
		res, ok := r.get(id)
		if !ok {
			return apperrors.NewNotFoundError("reservation " + id)
		}
		if err := res.MarkClosed(closingID, at); err != nil {
			return err
		}
		t.pending = append(t.pending, res)
	}
	return nil
}

func (r *memReservationRepo) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	res, ok := r.get(reservationID)
	if !ok {
		return nil, apperrors.NewNotFoundError("reservation " + reservationID)
	}
	return &res, nil
}

func (r *memReservationRepo) ListReservationsByFieldDate(ctx context.Context, fieldID string, date domain.Date) ([]domain.Reservation, error) {
	return r.snapshot(func(res domain.Reservation) bool {
		return res.FieldID == fieldID && res.Date == date
	}), nil
}

func (r *memReservationRepo) ListBlockingOverlapping(ctx context.Context, fieldID string, from domain.Date, until *domain.Date, iv domain.Interval) ([]domain.Reservation, error) {
	return r.snapshot(func(res domain.Reservation) bool {
		if res.FieldID != fieldID || res.Date.Before(from) || (until != nil && until.Before(res.Date)) {
			return false
		}
		return res.Blocks(iv)
	}), nil
}

func (r *memReservationRepo) ListPendingApproval(ctx context.Context, filter portsrepo.ReservationFilter) ([]domain.Reservation, int, error) {
	list := r.snapshot(func(res domain.Reservation) bool {
		return res.PaymentStatus == domain.PaymentPending && res.HasReceipt()
	})
	return list, len(list), nil
}

func (r *memReservationRepo) ListReservationsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, int, error) {
	list := r.snapshot(func(res domain.Reservation) bool { return res.BelongsTo(userID) })
	return list, len(list), nil
}

func (r *memReservationRepo) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, res := range r.rows {
		if res.State == domain.StateConfirmed && res.End.On(res.Date, now.Location()).Before(now) {
			res.State = domain.StateCompleted
			r.rows[id] = res
			n++
		}
	}
	return n, nil
}

// memFieldRepo serves fixed fields.
type memFieldRepo map[string]domain.Field

var _ portsrepo.FieldReader = memFieldRepo(nil)

func (m memFieldRepo) FindFieldByID(ctx context.Context, fieldID string) (*domain.Field, error) {
	f, ok := m[fieldID]
	if !ok {
		return nil, apperrors.NewNotFoundError("field " + fieldID)
	}
	return &f, nil
}

// memReceiptStore keeps uploaded receipts in memory.
type memReceiptStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ ports.ReceiptStore = (*memReceiptStore)(nil)

func newMemReceiptStore() *memReceiptStore {
	return &memReceiptStore{files: map[string][]byte{}}
}

func (m *memReceiptStore) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	ref := "/uploads/" + key
	m.mu.Lock()
	m.files[ref] = b
	m.mu.Unlock()
	return ref, nil
}

func (m *memReceiptStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	delete(m.files, ref)
	m.mu.Unlock()
	return nil
}

func (m *memReceiptStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ReservationEvent
}

func (p *recordingPublisher) PublishReservationEvent(ctx context.Context, evt domain.ReservationEvent) error {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []domain.ReservationEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ReservationEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// emptySchedules has no templates and no standing reservations.
type emptySchedules struct{}

func (emptySchedules) GetTemplate(ctx context.Context, fieldID string, weekday time.Weekday) (*domain.ScheduleTemplate, error) {
	return nil, apperrors.NewNotFoundError("schedule")
}

func (emptySchedules) ListWeek(ctx context.Context, fieldID string) ([]domain.ScheduleTemplate, error) {
	return nil, nil
}

func (emptySchedules) OccurrencesOn(ctx context.Context, fieldID string, date domain.Date) ([]domain.RecurringReservation, error) {
	return nil, nil
}

func (emptySchedules) ListRecurring(ctx context.Context, fieldID string) ([]domain.RecurringReservation, error) {
	return nil, nil
}

// standingRules serves a fixed set of recurring reservations.
type standingRules []domain.RecurringReservation

func (s standingRules) OccurrencesOn(ctx context.Context, fieldID string, date domain.Date) ([]domain.RecurringReservation, error) {
	var out []domain.RecurringReservation
	for _, rule := range s {
		if rule.FieldID == fieldID && rule.OccursOn(date) {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s standingRules) ListRecurring(ctx context.Context, fieldID string) ([]domain.RecurringReservation, error) {
	var out []domain.RecurringReservation
	for _, rule := range s {
		if rule.FieldID == fieldID {
			out = append(out, rule)
		}
	}
	return out, nil
}
