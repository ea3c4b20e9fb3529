package domain

import "time"

// Customer is the owner record for vehicles, plates and bookings.
type Customer struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" validate:"required"`
	TaxID      string    `json:"tax_id,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Address    string    `json:"address,omitempty"`
	District   string    `json:"district,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone1     string    `json:"phone1,omitempty"`
	Phone2     string    `json:"phone2,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

// Plate is created before or together with the vehicle that references it.
type Plate struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	Number     string `json:"plate" gorm:"column:plate;uniqueIndex"`
	CustomerID int64  `json:"customer_id"`
}

func (Plate) TableName() string { return "plates" }

// Vehicle must never reference a plate that does not exist or belongs to a
// different customer. PlateID stays nil when the customer was registered
// without a plate.
type Vehicle struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	Year        string `json:"year,omitempty"`
	Color       string `json:"color,omitempty"`
	SizeClassID int64  `json:"size_class_id"`
	CustomerID  int64  `json:"customer_id"`
	PlateID     *int64 `json:"plate_id,omitempty"`
}

func (Vehicle) TableName() string { return "vehicles" }
