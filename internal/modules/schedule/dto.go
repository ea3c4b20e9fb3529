package schedule

// Form is the booking payload. Price arrives as text from the form and must
// parse as a non-negative number before any write is attempted.
type Form struct {
	CustomerID  int64   `json:"customer_id" binding:"required"`
	VehicleID   int64   `json:"vehicle_id" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Time        string  `json:"time" binding:"required"`
	SizeClassID int64   `json:"size_class_id"`
	WashTypeIDs []int64 `json:"wash_type_ids"`
	Price       string  `json:"price" binding:"required"`
}

// Existing identifies the rows being edited. Both ids are required on the
// edit path: the booking row and its service row are updated in place.
type Existing struct {
	BookingID int64
	ServiceID int64
}
