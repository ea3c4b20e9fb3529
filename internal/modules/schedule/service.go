package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lavacar/internal/domain"
	"lavacar/internal/pkg/cascade"
	"lavacar/internal/store"
)

// ChangeNotifier is told after a successful mutation so open dashboards can
// re-fetch the schedule.
type ChangeNotifier interface {
	ScheduleChanged()
}

// SaveResult carries the ids resolved by each completed stage; see the
// client module for the partial-cascade convention.
type SaveResult struct {
	ServiceID int64    `json:"service_id"`
	BookingID int64    `json:"booking_id"`
	LinkCount int      `json:"link_count"`
	Completed []string `json:"completed"`
}

func (r *SaveResult) Partial() bool { return len(r.Completed) > 0 }

// DeleteResult mirrors SaveResult for the delete cascade.
type DeleteResult struct {
	Completed []string `json:"completed"`
}

// Service sequences booking writes against the non-transactional store:
// service row, then booking row, then the wash-type link set. A failure
// after the booking is written but before the links are inserted leaves a
// booking with no wash-type links; that known partial state is reported,
// never silently recovered.
type Service struct {
	store  store.Store
	notifs ChangeNotifier
	guard  cascade.Guard
}

func NewService(st store.Store, notifs ChangeNotifier) *Service {
	return &Service{store: st, notifs: notifs}
}

// Save creates or edits a booking line. On edit the wash-type link set is
// replaced wholesale: every existing link row is deleted, then the full new
// set is inserted, so the result is exactly the submitted set regardless of
// prior state.
func (s *Service) Save(ctx context.Context, form Form, existing *Existing) (*SaveResult, error) {
	if err := s.guard.Acquire(); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	price, err := parsePrice(form.Price)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", form.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse("15:04", form.Time); err != nil {
		return nil, ErrInvalidTime
	}

	priceText := fmt.Sprintf("%.2f", price)
	res := &SaveResult{}

	if existing == nil {
		svc := domain.Service{
			SizeClassID: form.SizeClassID,
			Price:       priceText,
			CreatedAt:   time.Now(),
		}
		if err := s.store.Insert(ctx, "services", &svc); err != nil {
			return res, cascade.Fail(StageService, err)
		}
		res.ServiceID = svc.ID
		res.Completed = append(res.Completed, StageService)

		b := domain.Booking{
			CustomerID: form.CustomerID,
			VehicleID:  form.VehicleID,
			ServiceID:  svc.ID,
			Date:       form.Date,
			Time:       form.Time,
		}
		if err := s.store.Insert(ctx, "bookings", &b); err != nil {
			return res, cascade.Fail(StageBooking, err)
		}
		res.BookingID = b.ID
		res.Completed = append(res.Completed, StageBooking)
	} else {
		res.ServiceID = existing.ServiceID
		res.BookingID = existing.BookingID

		svcPatch := map[string]any{
			"size_class_id": form.SizeClassID,
			"price":         priceText,
		}
		if err := s.store.Update(ctx, "services", svcPatch, store.Eq("id", existing.ServiceID)); err != nil {
			return res, cascade.Fail(StageService, err)
		}
		res.Completed = append(res.Completed, StageService)

		bookingPatch := map[string]any{
			"customer_id": form.CustomerID,
			"vehicle_id":  form.VehicleID,
			"date":        form.Date,
			"time":        form.Time,
		}
		if err := s.store.Update(ctx, "bookings", bookingPatch, store.Eq("id", existing.BookingID)); err != nil {
			return res, cascade.Fail(StageBooking, err)
		}
		res.Completed = append(res.Completed, StageBooking)

		if err := s.store.Delete(ctx, "booking_wash_types", store.Eq("booking_id", existing.BookingID)); err != nil {
			return res, cascade.Fail(StageLinks, err)
		}
	}

	if len(form.WashTypeIDs) > 0 {
		links := make([]domain.BookingWashType, len(form.WashTypeIDs))
		for i, id := range form.WashTypeIDs {
			links[i] = domain.BookingWashType{BookingID: res.BookingID, WashTypeID: id}
		}
		if err := s.store.Insert(ctx, "booking_wash_types", &links); err != nil {
			return res, cascade.Fail(StageLinks, err)
		}
	}
	res.LinkCount = len(form.WashTypeIDs)
	res.Completed = append(res.Completed, StageLinks)

	s.notifyChanged()
	return res, nil
}

// Delete removes the link rows, then the booking, then its service row.
// Abort on the first error, no rollback.
func (s *Service) Delete(ctx context.Context, bookingID int64) (*DeleteResult, error) {
	if err := s.guard.Acquire(); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	var bookings []domain.Booking
	if err := s.store.Select(ctx, "bookings", &bookings, store.Query{
		Filters: []store.Filter{store.Eq("id", bookingID)},
	}); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	serviceID := bookings[0].ServiceID

	res := &DeleteResult{}

	if err := s.store.Delete(ctx, "booking_wash_types", store.Eq("booking_id", bookingID)); err != nil {
		return res, cascade.Fail(StageLinks, err)
	}
	res.Completed = append(res.Completed, StageLinks)

	if err := s.store.Delete(ctx, "bookings", store.Eq("id", bookingID)); err != nil {
		return res, cascade.Fail(StageBooking, err)
	}
	res.Completed = append(res.Completed, StageBooking)

	if err := s.store.Delete(ctx, "services", store.Eq("id", serviceID)); err != nil {
		return res, cascade.Fail(StageService, err)
	}
	res.Completed = append(res.Completed, StageService)

	s.notifyChanged()
	return res, nil
}

// Get returns the booking row, used by the edit and delete endpoints to
// resolve the service id.
func (s *Service) Get(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var bookings []domain.Booking
	if err := s.store.Select(ctx, "bookings", &bookings, store.Query{
		Filters: []store.Filter{store.Eq("id", bookingID)},
	}); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	return &bookings[0], nil
}

// ListDay returns the bookings scheduled for one day, earliest first.
func (s *Service) ListDay(ctx context.Context, date string) ([]domain.Booking, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}
	var bookings []domain.Booking
	err := s.store.Select(ctx, "bookings", &bookings, store.Query{
		Filters: []store.Filter{store.Eq("date", date)},
		Order:   &store.Order{Column: "time"},
	})
	return bookings, err
}

// VehiclesForCustomer feeds the vehicle picker on the booking form.
func (s *Service) VehiclesForCustomer(ctx context.Context, customerID int64) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := s.store.Select(ctx, "vehicles", &vehicles, store.Query{
		Filters: []store.Filter{store.Eq("customer_id", customerID)},
	})
	return vehicles, err
}

// WashTypes returns the submitted link set for a booking.
func (s *Service) WashTypes(ctx context.Context, bookingID int64) ([]domain.BookingWashType, error) {
	var links []domain.BookingWashType
	err := s.store.Select(ctx, "booking_wash_types", &links, store.Query{
		Filters: []store.Filter{store.Eq("booking_id", bookingID)},
	})
	return links, err
}

func (s *Service) notifyChanged() {
	if s.notifs != nil {
		s.notifs.ScheduleChanged()
	}
}

func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidPrice
	}
	return v, nil
}
