package client

// Form is the flat payload from the registration modal: customer fields plus
// an optional plate string and optional vehicle fields. Plate and vehicle ids
// are carried when an existing record is being edited.
type Form struct {
	Name       string `json:"name" binding:"required"`
	TaxID      string `json:"tax_id"`
	PostalCode string `json:"postal_code"`
	Address    string `json:"address"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Email      string `json:"email"`
	Phone1     string `json:"phone1"`
	Phone2     string `json:"phone2"`

	Plate       string `json:"plate"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	Color       string `json:"color"`
	SizeClassID int64  `json:"size_class_id"`

	PlateID   *int64 `json:"plate_id"`
	VehicleID *int64 `json:"vehicle_id"`
}

// hasVehicle reports whether the vehicle section was filled in at all.
func (f *Form) hasVehicle() bool {
	return f.Make != "" || f.Model != ""
}

// ListQuery shapes the customer listing.
type ListQuery struct {
	Page   int
	Search string
	Sort   string // "name", "newest" or "oldest"
}

const pageSize = 10
