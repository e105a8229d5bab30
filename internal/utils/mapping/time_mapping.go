package mapping

import (
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

// ToPgTime converts a ClockTime to a TIME parameter.
func ToPgTime(c domain.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * microsPerMinute, Valid: true}
}

// ToClockTime converts a scanned TIME column. Seconds are dropped.
func ToClockTime(t pgtype.Time) domain.ClockTime {
	if !t.Valid {
		return domain.Midnight
	}
	return domain.ClockTime(t.Microseconds / microsPerMinute)
}

// ToDomainDate converts a scanned DATE column.
func ToDomainDate(t time.Time) domain.Date {
	return domain.DateOf(t)
}

// ToDomainDatePtr converts a nullable DATE column.
func ToDomainDatePtr(t *time.Time) *domain.Date {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

// ToModelDatePtr converts a nullable Date to a DATE parameter.
func ToModelDatePtr(d *domain.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
