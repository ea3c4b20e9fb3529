package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lavacar/internal/database"
	"lavacar/internal/domain"
	"lavacar/internal/store"
)

func setupStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:analytics_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return store.NewGorm(db)
}

func TestSnapshotJoinsPrices(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	services := []domain.Service{
		{Price: "50.00", CreatedAt: time.Now()},
		{Price: "49,90", CreatedAt: time.Now()},
	}
	require.NoError(t, st.Insert(ctx, "services", &services))

	bookings := []domain.Booking{
		{CustomerID: 1, ServiceID: services[0].ID, Date: "2026-03-03", Time: "09:00"},
		{CustomerID: 1, ServiceID: services[1].ID, Date: "2026-03-10", Time: "10:00"},
		{CustomerID: 1, ServiceID: 999, Date: "2026-03-12", Time: "11:00"},  // no service row
		{CustomerID: 1, ServiceID: services[0].ID, Date: "bad", Time: "12:00"}, // skipped
	}
	require.NoError(t, st.Insert(ctx, "bookings", &bookings))

	eng, err := NewService(st).Snapshot(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, eng.MonthServiceCount("March", "2026"))
	require.InDelta(t, 99.90, eng.TotalRevenue("March", "2026"), 0.001)
}

func TestNewCustomersDedicatedCount(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	customers := []domain.Customer{
		{Name: "Ana", CreatedAt: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)},
		{Name: "Bruno", CreatedAt: time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)},
		{Name: "Carla", CreatedAt: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Davi", CreatedAt: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, st.Insert(ctx, "customers", &customers))

	// a booking in March must not influence the count
	require.NoError(t, st.Insert(ctx, "bookings", &domain.Booking{
		CustomerID: customers[3].ID, ServiceID: 1, Date: "2026-03-15", Time: "09:00",
	}))

	svc := NewService(st)

	n, err := svc.NewCustomers(ctx, "March", "2026")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = svc.NewCustomers(ctx, "April", "2026")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = svc.NewCustomers(ctx, "Marchh", "2026")
	require.NoError(t, err)
	require.Zero(t, n)
}
