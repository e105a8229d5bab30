package services

import (
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	portsrepo "github.com/SscSPs/cancha_booking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cancha_booking_app/internal/core/ports/services"
	"github.com/SscSPs/cancha_booking_app/internal/platform/config"
)

// Infrastructure carries the adapters services talk to besides the database.
// Nil members fall back to no-op implementations.
type Infrastructure struct {
	Cache    ports.SlotCache
	Events   ports.EventPublisher
	Receipts ports.ReceiptStore
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	grid := cfg.DefaultGrid

	// Slots depend on the template and recurring readers, so build those first
	container.Schedules = NewScheduleService(repos.FieldRepo, repos.ScheduleRepo, WithScheduleDefaultGrid(grid))
	container.Recurring = NewRecurringService(repos.FieldRepo, repos.RecurringRepo, repos.ReservationRepo,
		WithRecurringSlotCache(infra.Cache))

	container.Slots = NewSlotService(
		repos.FieldRepo,
		repos.ReservationRepo,
		container.Schedules,
		container.Recurring,
		WithSlotCache(infra.Cache),
		WithDefaultGrid(grid),
	)

	container.Reservations = NewReservationService(
		repos.FieldRepo,
		repos.ReservationRepo,
		container.Recurring,
		WithReceiptStore(infra.Receipts),
		WithEventPublisher(infra.Events),
		WithReservationSlotCache(infra.Cache),
	)

	container.CashClosings = NewCashClosingService(repos.ReservationRepo, repos.CashClosingRepo)

	return container
}
