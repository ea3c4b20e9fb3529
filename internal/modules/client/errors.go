package client

import "errors"

var (
	ErrNameRequired     = errors.New("customer name is required")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Cascade stages, reported on failure so the caller knows how far the write
// sequence got.
const (
	StageCustomer = "customer"
	StagePlate    = "plate"
	StageVehicle  = "vehicle"
)
