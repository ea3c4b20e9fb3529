package domain

import "time"

// Service is one priced booking line. Price is kept as text: historical rows
// imported from the legacy system carry free-form values, so readers parse
// leniently and writers store a normalized decimal.
type Service struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	SizeClassID int64     `json:"size_class_id"`
	Price       string    `json:"price" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Service) TableName() string { return "services" }

// Booking schedules a service for a customer's vehicle.
// Date is "2006-01-02", Time is "15:04".
type Booking struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	CustomerID int64  `json:"customer_id"`
	VehicleID  int64  `json:"vehicle_id"`
	ServiceID  int64  `json:"service_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

func (Booking) TableName() string { return "bookings" }

// BookingWashType links a booking to a selected wash type. The full set for
// a booking is replaced wholesale on edit, never merged.
type BookingWashType struct {
	ID         int64 `json:"id" gorm:"primaryKey"`
	BookingID  int64 `json:"booking_id" gorm:"index"`
	WashTypeID int64 `json:"wash_type_id"`
}

func (BookingWashType) TableName() string { return "booking_wash_types" }
