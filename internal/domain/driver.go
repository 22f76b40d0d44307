package domain

import "fmt"

// Seat bounds for a driver listing.
const (
	MinSeats = 1
	MaxSeats = 50
)

// DriverListing advertises a driver's spare capacity on a route.
// HasTrailer and HasRooftopCarrier are informational only.
type DriverListing struct {
	Listing

	AvailableSeats    int
	HasTrailer        bool
	HasRooftopCarrier bool
	VehicleInfo       string
	Price             float64
}

// Validate checks every field of a driver listing against the domain bounds.
// It does not look at Status or at the schedule; see ExpiryPolicy for the latter.
func (d DriverListing) Validate() error {
	if err := validateCommon(d.Listing); err != nil {
		return err
	}
	if d.AvailableSeats < MinSeats || d.AvailableSeats > MaxSeats {
		return fmt.Errorf("%w: available seats must be between %d and %d", ErrValidation, MinSeats, MaxSeats)
	}
	if d.Price < 0 || d.Price > PriceLimit {
		return fmt.Errorf("%w: price must be between 0 and %.2f", ErrValidation, PriceLimit)
	}
	if tooLong(d.VehicleInfo) {
		return fmt.Errorf("%w: vehicle info exceeds %d characters", ErrValidation, MaxFreeTextLength)
	}
	return nil
}

// DriverPatch carries the fields an owner may change after creation.
// Nil fields are left untouched. Route and ownership have no field here on
// purpose: they are fixed at creation.
type DriverPatch struct {
	DepartureDate     *string
	DepartureTime     *string
	ServiceType       *ServiceType
	AvailableSeats    *int
	HasTrailer        *bool
	HasRooftopCarrier *bool
	VehicleInfo       *string
	Price             *float64
	AdditionalInfo    *string
}

// Empty reports whether the patch would change nothing.
func (p DriverPatch) Empty() bool {
	return p == DriverPatch{}
}

// Apply returns a copy of d with every non-nil patch field written over it.
func (p DriverPatch) Apply(d DriverListing) DriverListing {
	if p.DepartureDate != nil {
		d.DepartureDate = *p.DepartureDate
	}
	if p.DepartureTime != nil {
		d.DepartureTime = *p.DepartureTime
	}
	if p.ServiceType != nil {
		d.ServiceType = *p.ServiceType
	}
	if p.AvailableSeats != nil {
		d.AvailableSeats = *p.AvailableSeats
	}
	if p.HasTrailer != nil {
		d.HasTrailer = *p.HasTrailer
	}
	if p.HasRooftopCarrier != nil {
		d.HasRooftopCarrier = *p.HasRooftopCarrier
	}
	if p.VehicleInfo != nil {
		d.VehicleInfo = *p.VehicleInfo
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.AdditionalInfo != nil {
		d.AdditionalInfo = *p.AdditionalInfo
	}
	return d
}
