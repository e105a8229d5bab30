package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/middleware"
)

const completionJobName = "reservation_completion_sweep"

// Completer moves finished bookings to Completada.
type Completer interface {
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// RegisterCompletionSweep schedules the completion sweep.
func RegisterCompletionSweep(s *Service, completer Completer, cronExpr string) error {
	_, err := s.AddJob(completionJobName, cronExpr, completionTask(completer, s.logger, time.Now))
	return err
}

func completionTask(completer Completer, logger *slog.Logger, now func() time.Time) func() {
	jobLogger := logger.With(slog.String("component", completionJobName))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctx = middleware.WithLogger(ctx, jobLogger)

		n, err := completer.CompletePast(ctx, now())
		if err != nil {
			jobLogger.Error("Completion sweep failed", slog.String("error", err.Error()))
			return
		}
		jobLogger.Debug("Completion sweep finished", slog.Int64("completed", n))
	}
}
