// Package domain contains the core data types and pure rules of the ride
// marketplace: listings, their lifecycle table, the expiration policy, and
// ratings. It imports nothing from the rest of the module.
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Location is one of the fixed named places a route can start or end at.
type Location string

const (
	PortoAlegre Location = "Porto Alegre"
	Gramado     Location = "Gramado"
	CaxiasDoSul Location = "Caxias do Sul"
)

// Locations lists every location a listing may reference, in display order.
var Locations = []Location{CaxiasDoSul, Gramado, PortoAlegre}

// Valid reports whether l is a member of the closed location set.
func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// Status is the stored lifecycle status of a listing.
// Expiration is not a Status; see ExpiryPolicy.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
)

// ParseStatus converts s into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusInactive, StatusAccepted, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
}

// ServiceType says whether the ride is shared with other passengers.
type ServiceType string

const (
	ServiceCollective ServiceType = "collective"
	ServicePrivate    ServiceType = "private"
	ServiceBoth       ServiceType = "both"
)

// DefaultServiceType is applied when a listing does not specify one, including
// rows written before the column existed.
const DefaultServiceType = ServiceCollective

// ParseServiceType converts s into a ServiceType. An empty string yields the
// default. The Portuguese labels used by the web client are accepted as aliases.
func ParseServiceType(s string) (ServiceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultServiceType, nil
	case string(ServiceCollective), "coletivo":
		return ServiceCollective, nil
	case string(ServicePrivate), "privativo":
		return ServicePrivate, nil
	case string(ServiceBoth), "ambos":
		return ServiceBoth, nil
	default:
		return "", fmt.Errorf("%w: unknown service type %q", ErrValidation, s)
	}
}

// Valid reports whether t is one of the canonical service types.
func (t ServiceType) Valid() bool {
	return t == ServiceCollective || t == ServicePrivate || t == ServiceBoth
}

// ListingKind distinguishes driver availability from passenger trip requests.
type ListingKind string

const (
	KindDriver ListingKind = "driver"
	KindTrip   ListingKind = "trip"
)

// ParseListingKind converts s into a ListingKind.
func ParseListingKind(s string) (ListingKind, error) {
	switch k := ListingKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDriver, KindTrip:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown listing kind %q", ErrValidation, s)
	}
}

// Listing holds the fields shared by driver and trip listings.
//
// DepartureDate is "2006-01-02" and DepartureTime is "15:04"; together they
// name a wall-clock instant in the marketplace's canonical time zone.
// Expired is derived at read time and is never written to storage.
type Listing struct {
	ID             uuid.UUID
	OwnerID        string
	Origin         Location
	Destination    Location
	DepartureDate  string
	DepartureTime  string
	Status         Status
	ServiceType    ServiceType
	AdditionalInfo string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Expired bool
}

// Route renders the listing's route for humans, e.g. "Porto Alegre → Gramado".
func (l Listing) Route() string {
	return string(l.Origin) + " → " + string(l.Destination)
}

// Owned reports whether userID is the listing's owner.
func (l Listing) Owned(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

// ListingFilter narrows listing queries. Zero-value fields are ignored.
// All comparisons are exact matches.
type ListingFilter struct {
	OwnerID       string
	Status        Status
	Origin        Location
	Destination   Location
	DepartureDate string
}

// Validate checks that any location or date supplied in the filter is well formed.
func (f ListingFilter) Validate() error {
	if f.Origin != "" && !f.Origin.Valid() {
		return fmt.Errorf("%w: unknown origin %q", ErrValidation, f.Origin)
	}
	if f.Destination != "" && !f.Destination.Valid() {
		return fmt.Errorf("%w: unknown destination %q", ErrValidation, f.Destination)
	}
	if f.DepartureDate != "" {
		if _, err := time.Parse(DateLayout, f.DepartureDate); err != nil {
			return fmt.Errorf("%w: departure date must be YYYY-MM-DD", ErrValidation)
		}
	}
	return nil
}

// validateCommon enforces the rules every listing kind shares.
func validateCommon(l Listing) error {
	if !l.Origin.Valid() {
		return fmt.Errorf("%w: unknown origin %q", ErrValidation, l.Origin)
	}
	if !l.Destination.Valid() {
		return fmt.Errorf("%w: unknown destination %q", ErrValidation, l.Destination)
	}
	if l.Origin == l.Destination {
		return fmt.Errorf("%w: origin and destination must differ", ErrValidation)
	}
	if !l.ServiceType.Valid() {
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, l.ServiceType)
	}
	if tooLong(l.AdditionalInfo) {
		return fmt.Errorf("%w: additional info exceeds %d characters", ErrValidation, MaxFreeTextLength)
	}
	return nil
}

// MaxFreeTextLength caps every free-text field on listings and ratings, in characters.
const MaxFreeTextLength = 1000

// PriceLimit is the largest price a NUMERIC(10,2) column can store.
const PriceLimit = 99_999_999.99

func tooLong(s string) bool {
	return utf8.RuneCountInString(s) > MaxFreeTextLength
}
