package analytics

import (
	"context"
	"strconv"
	"time"

	"lavacar/internal/domain"
	"lavacar/internal/store"
)

// Service materializes the booking snapshot for the engine and runs the one
// read that crosses into the customer dataset.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Snapshot loads every booking with its service price and returns a pure
// engine over it. Bookings whose date fails to parse are skipped; a missing
// service row contributes a zero price.
func (s *Service) Snapshot(ctx context.Context) (*Engine, error) {
	var bookings []domain.Booking
	if err := s.store.Select(ctx, "bookings", &bookings, store.Query{
		Columns: []string{"id", "service_id", "date"},
	}); err != nil {
		return nil, err
	}

	var services []domain.Service
	if err := s.store.Select(ctx, "services", &services, store.Query{
		Columns: []string{"id", "price"},
	}); err != nil {
		return nil, err
	}

	priceByID := make(map[int64]string, len(services))
	for _, svc := range services {
		priceByID[svc.ID] = svc.Price
	}

	records := make([]Record, 0, len(bookings))
	for _, b := range bookings {
		date, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		records = append(records, Record{Date: date, Price: priceByID[b.ServiceID]})
	}
	return NewEngine(records), nil
}

// NewCustomers counts customers whose creation timestamp falls in the
// (month, year) bucket. Computed by a dedicated customer read, never
// inferred from bookings.
func (s *Service) NewCustomers(ctx context.Context, month, year string) (int64, error) {
	m, ok := monthIndex(month)
	if !ok {
		return 0, nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, nil
	}

	from := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	return s.store.Count(ctx, "customers",
		store.Gte("created_at", from),
		store.Lt("created_at", to),
	)
}
