package schedule

import "errors"

var (
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime     = errors.New("time must be HH:MM")
	ErrBookingNotFound = errors.New("booking not found")
)

// Cascade stages.
const (
	StageService = "service"
	StageBooking = "booking"
	StageLinks   = "links"
)
