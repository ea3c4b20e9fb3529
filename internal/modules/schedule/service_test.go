package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"lavacar/internal/database"
	"lavacar/internal/domain"
	"lavacar/internal/pkg/cascade"
	"lavacar/internal/store"
)

func setupStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:schedule_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return store.NewGorm(db)
}

// failStore fails one scripted call and records the mutation sequence.
type failStore struct {
	store.Store

	mu     sync.Mutex
	calls  []string
	failOn string
}

func (s *failStore) step(key string) error {
	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.mu.Unlock()
	if s.failOn == key {
		return errors.New("remote service unavailable")
	}
	return nil
}

func (s *failStore) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *failStore) Insert(ctx context.Context, collection string, rows any) error {
	if err := s.step("insert " + collection); err != nil {
		return err
	}
	return s.Store.Insert(ctx, collection, rows)
}

func (s *failStore) Update(ctx context.Context, collection string, patch map[string]any, filters ...store.Filter) error {
	if err := s.step("update " + collection); err != nil {
		return err
	}
	return s.Store.Update(ctx, collection, patch, filters...)
}

func (s *failStore) Delete(ctx context.Context, collection string, filters ...store.Filter) error {
	if err := s.step("delete " + collection); err != nil {
		return err
	}
	return s.Store.Delete(ctx, collection, filters...)
}

type countNotifier struct{ n atomic.Int64 }

func (c *countNotifier) ScheduleChanged() { c.n.Add(1) }

func bookingForm() Form {
	return Form{
		CustomerID:  1,
		VehicleID:   1,
		Date:        "2026-03-10",
		Time:        "14:30",
		SizeClassID: 2,
		WashTypeIDs: []int64{1, 3},
		Price:       "80",
	}
}

func TestSaveCreateCascade(t *testing.T) {
	st := setupStore(t)
	notifs := &countNotifier{}
	svc := NewService(st, notifs)
	ctx := context.Background()

	res, err := svc.Save(ctx, bookingForm(), nil)
	require.NoError(t, err)
	require.NotZero(t, res.ServiceID)
	require.NotZero(t, res.BookingID)
	require.Equal(t, 2, res.LinkCount)
	require.Equal(t, []string{StageService, StageBooking, StageLinks}, res.Completed)
	require.EqualValues(t, 1, notifs.n.Load())

	var services []domain.Service
	require.NoError(t, st.Select(ctx, "services", &services, store.Query{
		Filters: []store.Filter{store.Eq("id", res.ServiceID)},
	}))
	require.Len(t, services, 1)
	require.Equal(t, "80.00", services[0].Price)

	booking, err := svc.Get(ctx, res.BookingID)
	require.NoError(t, err)
	require.Equal(t, res.ServiceID, booking.ServiceID)
	require.Equal(t, "2026-03-10", booking.Date)

	links, err := svc.WashTypes(ctx, res.BookingID)
	require.NoError(t, err)
	require.Len(t, links, 2)
}

func TestSaveZeroWashTypesIsValid(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st, nil)
	ctx := context.Background()

	form := bookingForm()
	form.WashTypeIDs = nil
	form.Price = "49.90"

	res, err := svc.Save(ctx, form, nil)
	require.NoError(t, err)
	require.Zero(t, res.LinkCount)
	require.Contains(t, res.Completed, StageLinks)

	var services []domain.Service
	require.NoError(t, st.Select(ctx, "services", &services, store.Query{
		Filters: []store.Filter{store.Eq("id", res.ServiceID)},
	}))
	require.Equal(t, "49.90", services[0].Price)

	links, err := svc.WashTypes(ctx, res.BookingID)
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestSaveValidationPrecedesWrites(t *testing.T) {
	script := &failStore{Store: setupStore(t)}
	svc := NewService(script, nil)
	ctx := context.Background()

	cases := []struct {
		mutate func(*Form)
		want   error
	}{
		{func(f *Form) { f.Price = "abc" }, ErrInvalidPrice},
		{func(f *Form) { f.Price = "-1" }, ErrInvalidPrice},
		{func(f *Form) { f.Date = "10/03/2026" }, ErrInvalidDate},
		{func(f *Form) { f.Time = "25:99" }, ErrInvalidTime},
	}
	for _, tc := range cases {
		form := bookingForm()
		tc.mutate(&form)
		_, err := svc.Save(ctx, form, nil)
		require.ErrorIs(t, err, tc.want)
	}
	require.Empty(t, script.recorded())
}

func TestSaveEditReplacesLinkSet(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, bookingForm(), nil)
	require.NoError(t, err)

	edit := bookingForm()
	edit.WashTypeIDs = []int64{2, 4, 5}
	edit.Price = "95.5"

	script := &failStore{Store: st}
	res, err := NewService(script, nil).Save(ctx, edit, &Existing{
		BookingID: created.BookingID,
		ServiceID: created.ServiceID,
	})
	require.NoError(t, err)
	require.Equal(t, created.BookingID, res.BookingID)
	require.Equal(t, 3, res.LinkCount)
	require.Equal(t, []string{
		"update services",
		"update bookings",
		"delete booking_wash_types",
		"insert booking_wash_types",
	}, script.recorded())

	links, err := svc.WashTypes(ctx, created.BookingID)
	require.NoError(t, err)
	got := make([]int64, len(links))
	for i, l := range links {
		got[i] = l.WashTypeID
	}
	require.ElementsMatch(t, []int64{2, 4, 5}, got)

	var services []domain.Service
	require.NoError(t, st.Select(ctx, "services", &services, store.Query{
		Filters: []store.Filter{store.Eq("id", created.ServiceID)},
	}))
	require.Equal(t, "95.50", services[0].Price)
}

func TestSaveEditToEmptyLinkSet(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, bookingForm(), nil)
	require.NoError(t, err)

	edit := bookingForm()
	edit.WashTypeIDs = nil
	_, err = svc.Save(ctx, edit, &Existing{
		BookingID: created.BookingID,
		ServiceID: created.ServiceID,
	})
	require.NoError(t, err)

	links, err := svc.WashTypes(ctx, created.BookingID)
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestSaveBookingFailureLeavesServiceRow(t *testing.T) {
	real := setupStore(t)
	script := &failStore{Store: real, failOn: "insert bookings"}
	notifs := &countNotifier{}
	svc := NewService(script, notifs)
	ctx := context.Background()

	res, err := svc.Save(ctx, bookingForm(), nil)
	require.Error(t, err)

	var stageErr *cascade.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, StageBooking, stageErr.Stage)
	require.True(t, res.Partial())
	require.Equal(t, []string{StageService}, res.Completed)
	require.Zero(t, notifs.n.Load())

	// the orphaned service row stays
	n, err := real.Count(ctx, "services")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = real.Count(ctx, "bookings")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSaveLinkFailureKeepsBooking(t *testing.T) {
	real := setupStore(t)
	script := &failStore{Store: real, failOn: "insert booking_wash_types"}
	svc := NewService(script, nil)

	res, err := svc.Save(context.Background(), bookingForm(), nil)
	require.Error(t, err)

	var stageErr *cascade.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, StageLinks, stageErr.Stage)
	require.Equal(t, []string{StageService, StageBooking}, res.Completed)
	require.NotZero(t, res.BookingID)
}

func TestDeleteCascadeOrder(t *testing.T) {
	real := setupStore(t)
	svc := NewService(real, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, bookingForm(), nil)
	require.NoError(t, err)

	script := &failStore{Store: real}
	res, err := NewService(script, nil).Delete(ctx, created.BookingID)
	require.NoError(t, err)
	require.Equal(t, []string{StageLinks, StageBooking, StageService}, res.Completed)
	require.Equal(t, []string{
		"delete booking_wash_types",
		"delete bookings",
		"delete services",
	}, script.recorded())

	for _, collection := range []string{"booking_wash_types", "bookings", "services"} {
		n, err := real.Count(ctx, collection)
		require.NoError(t, err)
		require.Zero(t, n, collection)
	}
}

func TestDeleteUnknownBooking(t *testing.T) {
	svc := NewService(setupStore(t), nil)

	_, err := svc.Delete(context.Background(), 777)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListDayOrdersByTime(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st, nil)
	ctx := context.Background()

	for _, at := range []string{"16:00", "08:30", "12:15"} {
		form := bookingForm()
		form.Time = at
		_, err := svc.Save(ctx, form, nil)
		require.NoError(t, err)
	}
	other := bookingForm()
	other.Date = "2026-03-11"
	_, err := svc.Save(ctx, other, nil)
	require.NoError(t, err)

	day, err := svc.ListDay(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, day, 3)
	require.Equal(t, "08:30", day[0].Time)
	require.Equal(t, "12:15", day[1].Time)
	require.Equal(t, "16:00", day[2].Time)

	_, err = svc.ListDay(ctx, "not-a-date")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestSaveRejectsOverlappingCall(t *testing.T) {
	svc := NewService(setupStore(t), nil)
	require.NoError(t, svc.guard.Acquire())
	defer svc.guard.Release()

	_, err := svc.Save(context.Background(), bookingForm(), nil)
	require.ErrorIs(t, err, cascade.ErrBusy)

	_, err = svc.Delete(context.Background(), 1)
	require.ErrorIs(t, err, cascade.ErrBusy)
}
