package client

import (
	"context"
	"strings"
	"time"

	"lavacar/internal/domain"
	"lavacar/internal/pkg/cascade"
	"lavacar/internal/store"
)

// SaveResult carries the ids resolved by each completed stage. When Save
// also returns an error, a non-empty Completed list marks a partial cascade:
// some rows were written and are left as-is.
type SaveResult struct {
	CustomerID int64    `json:"customer_id"`
	PlateID    *int64   `json:"plate_id,omitempty"`
	VehicleID  *int64   `json:"vehicle_id,omitempty"`
	Completed  []string `json:"completed"`
}

// Partial reports whether at least one stage wrote before a failure.
func (r *SaveResult) Partial() bool { return len(r.Completed) > 0 }

// Service keeps customer, plate and vehicle rows consistent across the
// non-transactional store. Writes are strictly sequential: the plate must be
// resolved before the vehicle row is touched, because the vehicle carries
// the plate foreign key.
type Service struct {
	store store.Store
	guard cascade.Guard
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Save creates or edits a customer together with its optional plate and
// vehicle. existingID selects the edit path. On failure the sequence aborts
// immediately; prior successful writes are not undone.
func (s *Service) Save(ctx context.Context, form Form, existingID *int64) (*SaveResult, error) {
	if err := s.guard.Acquire(); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	if strings.TrimSpace(form.Name) == "" {
		return nil, ErrNameRequired
	}

	res := &SaveResult{}

	if existingID == nil {
		cust := domain.Customer{
			Name:       form.Name,
			TaxID:      form.TaxID,
			PostalCode: form.PostalCode,
			Address:    form.Address,
			District:   form.District,
			City:       form.City,
			State:      form.State,
			Email:      form.Email,
			Phone1:     form.Phone1,
			Phone2:     form.Phone2,
			CreatedAt:  time.Now(),
		}
		if err := s.store.Insert(ctx, "customers", &cust); err != nil {
			return res, cascade.Fail(StageCustomer, err)
		}
		res.CustomerID = cust.ID
	} else {
		res.CustomerID = *existingID
		patch := map[string]any{
			"name":        form.Name,
			"tax_id":      form.TaxID,
			"postal_code": form.PostalCode,
			"address":     form.Address,
			"district":    form.District,
			"city":        form.City,
			"state":       form.State,
			"email":       form.Email,
			"phone1":      form.Phone1,
			"phone2":      form.Phone2,
		}
		if err := s.store.Update(ctx, "customers", patch, store.Eq("id", *existingID)); err != nil {
			return res, cascade.Fail(StageCustomer, err)
		}
	}
	res.Completed = append(res.Completed, StageCustomer)

	// Plate resolution must precede the vehicle write: vehicles hold the
	// plate foreign key.
	var plateID *int64
	if form.Plate != "" {
		if form.PlateID != nil {
			patch := map[string]any{
				"plate":       form.Plate,
				"customer_id": res.CustomerID,
			}
			if err := s.store.Update(ctx, "plates", patch, store.Eq("id", *form.PlateID)); err != nil {
				return res, cascade.Fail(StagePlate, err)
			}
			plateID = form.PlateID
		} else {
			p := domain.Plate{Number: form.Plate, CustomerID: res.CustomerID}
			if err := s.store.Insert(ctx, "plates", &p); err != nil {
				return res, cascade.Fail(StagePlate, err)
			}
			plateID = &p.ID
		}
		res.PlateID = plateID
		res.Completed = append(res.Completed, StagePlate)
	}

	if form.hasVehicle() {
		if form.VehicleID != nil {
			patch := map[string]any{
				"make":          form.Make,
				"model":         form.Model,
				"year":          form.Year,
				"color":         form.Color,
				"size_class_id": form.SizeClassID,
				"customer_id":   res.CustomerID,
				"plate_id":      plateID,
			}
			if err := s.store.Update(ctx, "vehicles", patch, store.Eq("id", *form.VehicleID)); err != nil {
				return res, cascade.Fail(StageVehicle, err)
			}
			res.VehicleID = form.VehicleID
		} else {
			// plateID may be nil when no plate was supplied. Accepted
			// product edge case, not an error.
			v := domain.Vehicle{
				Make:        form.Make,
				Model:       form.Model,
				Year:        form.Year,
				Color:       form.Color,
				SizeClassID: form.SizeClassID,
				CustomerID:  res.CustomerID,
				PlateID:     plateID,
			}
			if err := s.store.Insert(ctx, "vehicles", &v); err != nil {
				return res, cascade.Fail(StageVehicle, err)
			}
			res.VehicleID = &v.ID
		}
		res.Completed = append(res.Completed, StageVehicle)
	}

	return res, nil
}

// DeleteResult mirrors SaveResult for the delete cascade.
type DeleteResult struct {
	Completed []string `json:"completed"`
}

// Delete removes the customer's vehicle, then its plate, then the customer,
// strictly child-first. Ids are resolved from the stored rows; a failure
// aborts the remaining steps and nothing already deleted is re-created.
func (s *Service) Delete(ctx context.Context, customerID int64) (*DeleteResult, error) {
	if err := s.guard.Acquire(); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	n, err := s.store.Count(ctx, "customers", store.Eq("id", customerID))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCustomerNotFound
	}

	var vehicles []domain.Vehicle
	if err := s.store.Select(ctx, "vehicles", &vehicles, store.Query{
		Filters: []store.Filter{store.Eq("customer_id", customerID)},
	}); err != nil {
		return nil, err
	}

	var plateID *int64
	res := &DeleteResult{}

	if len(vehicles) > 0 {
		plateID = vehicles[0].PlateID
		if err := s.store.Delete(ctx, "vehicles", store.Eq("id", vehicles[0].ID)); err != nil {
			return res, cascade.Fail(StageVehicle, err)
		}
		res.Completed = append(res.Completed, StageVehicle)
	}

	if plateID == nil {
		// A plate can exist without a vehicle when registration stopped
		// after the plate step.
		var plates []domain.Plate
		if err := s.store.Select(ctx, "plates", &plates, store.Query{
			Filters: []store.Filter{store.Eq("customer_id", customerID)},
		}); err != nil {
			return res, cascade.Fail(StagePlate, err)
		}
		if len(plates) > 0 {
			plateID = &plates[0].ID
		}
	}
	if plateID != nil {
		if err := s.store.Delete(ctx, "plates", store.Eq("id", *plateID)); err != nil {
			return res, cascade.Fail(StagePlate, err)
		}
		res.Completed = append(res.Completed, StagePlate)
	}

	if err := s.store.Delete(ctx, "customers", store.Eq("id", customerID)); err != nil {
		return res, cascade.Fail(StageCustomer, err)
	}
	res.Completed = append(res.Completed, StageCustomer)

	return res, nil
}

// ListItem is one row of the customer listing with its vehicle and plate.
type ListItem struct {
	domain.Customer
	Vehicle *domain.Vehicle `json:"vehicle,omitempty"`
	Plate   *domain.Plate   `json:"plate,omitempty"`
}

// List returns a page of customers with an exact total count. Search is a
// case-insensitive match on the name.
func (s *Service) List(ctx context.Context, q ListQuery) ([]ListItem, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	order := store.Order{Column: "name"}
	switch q.Sort {
	case "newest":
		order = store.Order{Column: "id", Descending: true}
	case "oldest":
		order = store.Order{Column: "id"}
	}

	var filters []store.Filter
	if q.Search != "" {
		filters = append(filters, store.ILike("name", "%"+q.Search+"%"))
	}

	from := (q.Page - 1) * pageSize
	var customers []domain.Customer
	if err := s.store.Select(ctx, "customers", &customers, store.Query{
		Filters: filters,
		Order:   &order,
		Range:   &store.Range{From: from, To: from + pageSize - 1},
	}); err != nil {
		return nil, 0, err
	}

	total, err := s.store.Count(ctx, "customers", filters...)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ListItem, len(customers))
	if len(customers) == 0 {
		return items, total, nil
	}

	ids := make([]int64, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
		items[i] = ListItem{Customer: c}
	}

	var vehicles []domain.Vehicle
	if err := s.store.Select(ctx, "vehicles", &vehicles, store.Query{
		Filters: []store.Filter{store.In("customer_id", ids)},
	}); err != nil {
		return nil, 0, err
	}

	plateIDs := make([]int64, 0, len(vehicles))
	for _, v := range vehicles {
		if v.PlateID != nil {
			plateIDs = append(plateIDs, *v.PlateID)
		}
	}
	plates := map[int64]domain.Plate{}
	if len(plateIDs) > 0 {
		var rows []domain.Plate
		if err := s.store.Select(ctx, "plates", &rows, store.Query{
			Filters: []store.Filter{store.In("id", plateIDs)},
		}); err != nil {
			return nil, 0, err
		}
		for _, p := range rows {
			plates[p.ID] = p
		}
	}

	byCustomer := map[int64]domain.Vehicle{}
	for _, v := range vehicles {
		if _, seen := byCustomer[v.CustomerID]; !seen {
			byCustomer[v.CustomerID] = v
		}
	}
	for i := range items {
		if v, ok := byCustomer[items[i].Customer.ID]; ok {
			vehicle := v
			items[i].Vehicle = &vehicle
			if v.PlateID != nil {
				if p, ok := plates[*v.PlateID]; ok {
					plate := p
					items[i].Plate = &plate
				}
			}
		}
	}

	return items, total, nil
}

// CountAll returns the exact number of registered customers.
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, "customers")
}
