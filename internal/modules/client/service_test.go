package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"lavacar/internal/database"
	"lavacar/internal/domain"
	"lavacar/internal/pkg/cascade"
	"lavacar/internal/store"
)

func setupStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:client_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return store.NewGorm(db)
}

// scriptStore records the call sequence and can fail or block on one call.
type scriptStore struct {
	store.Store

	mu      sync.Mutex
	calls   []string
	failOn  string
	blockOn string
	entered chan struct{}
	release chan struct{}
}

func (s *scriptStore) step(key string) error {
	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.mu.Unlock()

	if s.blockOn == key {
		close(s.entered)
		<-s.release
	}
	if s.failOn == key {
		return errors.New("remote service unavailable")
	}
	return nil
}

func (s *scriptStore) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *scriptStore) Insert(ctx context.Context, collection string, rows any) error {
	if err := s.step("insert " + collection); err != nil {
		return err
	}
	return s.Store.Insert(ctx, collection, rows)
}

func (s *scriptStore) Update(ctx context.Context, collection string, patch map[string]any, filters ...store.Filter) error {
	if err := s.step("update " + collection); err != nil {
		return err
	}
	return s.Store.Update(ctx, collection, patch, filters...)
}

func (s *scriptStore) Delete(ctx context.Context, collection string, filters ...store.Filter) error {
	if err := s.step("delete " + collection); err != nil {
		return err
	}
	return s.Store.Delete(ctx, collection, filters...)
}

func fullForm() Form {
	return Form{
		Name:   "Ana Souza",
		TaxID:  "123.456.789-00",
		City:   "Campinas",
		State:  "SP",
		Phone1: "19 99999-0001",
		Plate:  "ABC1234",
		Make:   "Fiat",
		Model:  "Argo",
		Year:   "2021",
		Color:  "White",
	}
}

func TestSaveCreateFullCascade(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st)
	ctx := context.Background()

	res, err := svc.Save(ctx, fullForm(), nil)
	require.NoError(t, err)
	require.NotZero(t, res.CustomerID)
	require.NotNil(t, res.PlateID)
	require.NotNil(t, res.VehicleID)
	require.Equal(t, []string{StageCustomer, StagePlate, StageVehicle}, res.Completed)

	var plates []domain.Plate
	require.NoError(t, st.Select(ctx, "plates", &plates, store.Query{
		Filters: []store.Filter{store.Eq("id", *res.PlateID)},
	}))
	require.Len(t, plates, 1)
	require.Equal(t, res.CustomerID, plates[0].CustomerID)

	var vehicles []domain.Vehicle
	require.NoError(t, st.Select(ctx, "vehicles", &vehicles, store.Query{
		Filters: []store.Filter{store.Eq("id", *res.VehicleID)},
	}))
	require.Len(t, vehicles, 1)
	require.Equal(t, res.CustomerID, vehicles[0].CustomerID)
	require.NotNil(t, vehicles[0].PlateID)
	require.Equal(t, *res.PlateID, *vehicles[0].PlateID)
}

func TestSaveCreateVehicleWithoutPlate(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st)
	ctx := context.Background()

	form := fullForm()
	form.Plate = ""

	res, err := svc.Save(ctx, form, nil)
	require.NoError(t, err)
	require.Nil(t, res.PlateID)
	require.NotNil(t, res.VehicleID)

	var vehicles []domain.Vehicle
	require.NoError(t, st.Select(ctx, "vehicles", &vehicles, store.Query{
		Filters: []store.Filter{store.Eq("id", *res.VehicleID)},
	}))
	require.Len(t, vehicles, 1)
	require.Nil(t, vehicles[0].PlateID)
}

func TestSaveCreateCustomerOnly(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st)

	form := Form{Name: "Carla Mendes"}
	res, err := svc.Save(context.Background(), form, nil)
	require.NoError(t, err)
	require.Equal(t, []string{StageCustomer}, res.Completed)
	require.Nil(t, res.PlateID)
	require.Nil(t, res.VehicleID)
}

func TestSaveEditIsIdempotent(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st)
	ctx := context.Background()

	created, err := svc.Save(ctx, fullForm(), nil)
	require.NoError(t, err)

	edit := fullForm()
	edit.Color = "Black"
	edit.PlateID = created.PlateID
	edit.VehicleID = created.VehicleID

	for i := 0; i < 2; i++ {
		res, err := svc.Save(ctx, edit, &created.CustomerID)
		require.NoError(t, err)
		require.Equal(t, created.CustomerID, res.CustomerID)
		require.Equal(t, *created.PlateID, *res.PlateID)
		require.Equal(t, *created.VehicleID, *res.VehicleID)
	}

	for _, collection := range []string{"customers", "plates", "vehicles"} {
		n, err := st.Count(ctx, collection)
		require.NoError(t, err)
		require.EqualValues(t, 1, n, collection)
	}

	var vehicles []domain.Vehicle
	require.NoError(t, st.Select(ctx, "vehicles", &vehicles, store.Query{}))
	require.Equal(t, "Black", vehicles[0].Color)
}

func TestSaveEditInsertsMissingPlateBeforeVehicleUpdate(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st)
	ctx := context.Background()

	form := fullForm()
	form.Plate = ""
	created, err := svc.Save(ctx, form, nil)
	require.NoError(t, err)
	require.Nil(t, created.PlateID)

	edit := fullForm()
	edit.VehicleID = created.VehicleID

	res, err := svc.Save(ctx, edit, &created.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, res.PlateID)

	var vehicles []domain.Vehicle
	require.NoError(t, st.Select(ctx, "vehicles", &vehicles, store.Query{
		Filters: []store.Filter{store.Eq("id", *created.VehicleID)},
	}))
	require.NotNil(t, vehicles[0].PlateID)
	require.Equal(t, *res.PlateID, *vehicles[0].PlateID)
}

func TestSaveVehicleFailureIsPartial(t *testing.T) {
	script := &scriptStore{Store: setupStore(t), failOn: "insert vehicles"}
	svc := NewService(script)

	res, err := svc.Save(context.Background(), fullForm(), nil)
	require.Error(t, err)

	var stageErr *cascade.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, StageVehicle, stageErr.Stage)

	// customer and plate rows were written and are left as-is
	require.True(t, res.Partial())
	require.Equal(t, []string{StageCustomer, StagePlate}, res.Completed)
	require.Equal(t, []string{"insert customers", "insert plates", "insert vehicles"}, script.recorded())
}

func TestSaveValidationNeverTouchesStore(t *testing.T) {
	script := &scriptStore{Store: setupStore(t)}
	svc := NewService(script)

	_, err := svc.Save(context.Background(), Form{Name: "   "}, nil)
	require.ErrorIs(t, err, ErrNameRequired)
	require.Empty(t, script.recorded())
}

func TestDeleteChildFirstOrder(t *testing.T) {
	real := setupStore(t)
	svc := NewService(real)
	ctx := context.Background()

	created, err := svc.Save(ctx, fullForm(), nil)
	require.NoError(t, err)

	script := &scriptStore{Store: real}
	res, err := NewService(script).Delete(ctx, created.CustomerID)
	require.NoError(t, err)
	require.Equal(t, []string{StageVehicle, StagePlate, StageCustomer}, res.Completed)
	require.Equal(t, []string{"delete vehicles", "delete plates", "delete customers"}, script.recorded())

	for _, collection := range []string{"customers", "plates", "vehicles"} {
		n, err := real.Count(ctx, collection)
		require.NoError(t, err)
		require.Zero(t, n, collection)
	}
}

func TestDeleteUnknownCustomer(t *testing.T) {
	svc := NewService(setupStore(t))

	_, err := svc.Delete(context.Background(), 12345)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestSaveRejectsOverlappingCall(t *testing.T) {
	script := &scriptStore{
		Store:   setupStore(t),
		blockOn: "insert customers",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewService(script)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Save(ctx, fullForm(), nil)
		done <- err
	}()

	<-script.entered
	_, err := svc.Save(ctx, fullForm(), nil)
	require.ErrorIs(t, err, cascade.ErrBusy)

	close(script.release)
	require.NoError(t, <-done)
}

func TestListPagesAndCounts(t *testing.T) {
	st := setupStore(t)
	svc := NewService(st)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		form := fullForm()
		form.Name = fmt.Sprintf("Customer %02d", i)
		form.Plate = fmt.Sprintf("PLT%04d", i)
		_, err := svc.Save(ctx, form, nil)
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, ListQuery{Page: 1})
	require.NoError(t, err)
	require.EqualValues(t, 12, total)
	require.Len(t, items, 10)
	require.NotNil(t, items[0].Vehicle)
	require.NotNil(t, items[0].Plate)

	items, _, err = svc.List(ctx, ListQuery{Page: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, total, err = svc.List(ctx, ListQuery{Page: 1, Search: "customer 03"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.Equal(t, "Customer 03", items[0].Name)
}
