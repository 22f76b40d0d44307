package domain

import "fmt"

// TripListing is a passenger's request for a ride on a route.
// AdultsCount is at least one: a request always has someone travelling.
// MaxPrice is nil when the passenger did not state a budget.
type TripListing struct {
	Listing

	AdultsCount   int
	ChildrenCount int
	Baggage23kg   int
	Baggage10kg   int
	BaggageBags   int
	MaxPrice      *float64
}

// PassengersCount is the total head count of the request.
func (t TripListing) PassengersCount() int {
	return t.AdultsCount + t.ChildrenCount
}

// Validate checks every field of a trip listing against the domain bounds.
func (t TripListing) Validate() error {
	if err := validateCommon(t.Listing); err != nil {
		return err
	}
	if t.AdultsCount < 1 {
		return fmt.Errorf("%w: adults count must be at least 1", ErrValidation)
	}
	counts := []struct {
		name string
		n    int
	}{
		{"children count", t.ChildrenCount},
		{"baggage 23kg", t.Baggage23kg},
		{"baggage 10kg", t.Baggage10kg},
		{"baggage bags", t.BaggageBags},
	}
	for _, c := range counts {
		if c.n < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, c.name)
		}
	}
	if t.PassengersCount() > MaxSeats {
		return fmt.Errorf("%w: at most %d passengers per request", ErrValidation, MaxSeats)
	}
	if t.MaxPrice != nil && (*t.MaxPrice < 0 || *t.MaxPrice > PriceLimit) {
		return fmt.Errorf("%w: max price must be between 0 and %.2f", ErrValidation, PriceLimit)
	}
	return nil
}

// TripPatch carries the fields an owner may change after creation.
// Nil fields are left untouched. ClearMaxPrice removes a previously stated budget.
type TripPatch struct {
	DepartureDate  *string
	DepartureTime  *string
	ServiceType    *ServiceType
	AdultsCount    *int
	ChildrenCount  *int
	Baggage23kg    *int
	Baggage10kg    *int
	BaggageBags    *int
	MaxPrice       *float64
	ClearMaxPrice  bool
	AdditionalInfo *string
}

// Empty reports whether the patch would change nothing.
func (p TripPatch) Empty() bool {
	return p == TripPatch{}
}

// Apply returns a copy of t with every non-nil patch field written over it.
func (p TripPatch) Apply(t TripListing) TripListing {
	if p.DepartureDate != nil {
		t.DepartureDate = *p.DepartureDate
	}
	if p.DepartureTime != nil {
		t.DepartureTime = *p.DepartureTime
	}
	if p.ServiceType != nil {
		t.ServiceType = *p.ServiceType
	}
	if p.AdultsCount != nil {
		t.AdultsCount = *p.AdultsCount
	}
	if p.ChildrenCount != nil {
		t.ChildrenCount = *p.ChildrenCount
	}
	if p.Baggage23kg != nil {
		t.Baggage23kg = *p.Baggage23kg
	}
	if p.Baggage10kg != nil {
		t.Baggage10kg = *p.Baggage10kg
	}
	if p.BaggageBags != nil {
		t.BaggageBags = *p.BaggageBags
	}
	switch {
	case p.ClearMaxPrice:
		t.MaxPrice = nil
	case p.MaxPrice != nil:
		v := *p.MaxPrice
		t.MaxPrice = &v
	}
	if p.AdditionalInfo != nil {
		t.AdditionalInfo = *p.AdditionalInfo
	}
	return t
}
