package domain

import (
	"fmt"
	"strings"
	"time"
)

// Profile is the public identity of a user as supplied by the profile store.
type Profile struct {
	UserID    string
	FullName  string
	Phone     string
	UserType  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User types a profile can declare.
const (
	UserTypeDriver    = "driver"
	UserTypePassenger = "passenger"
	UserTypeBoth      = "both"
)

// Validate checks a profile before it is stored.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if len(PhoneDigits(p.Phone)) < 10 {
		return fmt.Errorf("%w: phone must have area code and number", ErrValidation)
	}
	switch p.UserType {
	case UserTypeDriver, UserTypePassenger, UserTypeBoth:
	default:
		return fmt.Errorf("%w: unknown user type %q", ErrValidation, p.UserType)
	}
	return nil
}

// Reachable reports whether the profile carries a phone number usable for contact.
func (p Profile) Reachable() bool {
	return PhoneDigits(p.Phone) != ""
}

// PhoneDigits strips every non-digit from phone.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContactPayload is the semantic content of a hand-off message to the owner
// of a listing. Transport encoding is left to a LinkBuilder.
type ContactPayload struct {
	Kind                    ListingKind
	CounterpartName         string
	CounterpartPhone        string
	Route                   string
	DepartureDate           string
	DepartureTime           string
	CapacityOrNeed          string
	VehicleOrBaggageSummary string
}

// Contact is the result of initiating contact on a listing: the payload, the
// ready-to-open link, and the key the client uses to rate the interaction later.
type Contact struct {
	Payload ContactPayload
	Link    string
	Rate    RatingTarget
}

// DriverContactPayload builds the hand-off payload for a driver listing owned by p.
func DriverContactPayload(d DriverListing, p Profile) ContactPayload {
	return ContactPayload{
		Kind:                    KindDriver,
		CounterpartName:         p.FullName,
		CounterpartPhone:        p.Phone,
		Route:                   d.Route(),
		DepartureDate:           d.DepartureDate,
		DepartureTime:           d.DepartureTime,
		CapacityOrNeed:          plural(d.AvailableSeats, "vaga", "vagas"),
		VehicleOrBaggageSummary: vehicleSummary(d),
	}
}

// TripContactPayload builds the hand-off payload for a trip listing owned by p.
func TripContactPayload(t TripListing, p Profile) ContactPayload {
	return ContactPayload{
		Kind:                    KindTrip,
		CounterpartName:         p.FullName,
		CounterpartPhone:        p.Phone,
		Route:                   t.Route(),
		DepartureDate:           t.DepartureDate,
		DepartureTime:           t.DepartureTime,
		CapacityOrNeed:          passengerSummary(t),
		VehicleOrBaggageSummary: baggageSummary(t),
	}
}

func vehicleSummary(d DriverListing) string {
	parts := []string{}
	if v := strings.TrimSpace(d.VehicleInfo); v != "" {
		parts = append(parts, v)
	} else {
		parts = append(parts, "veículo")
	}
	if d.HasTrailer {
		parts = append(parts, "com reboque")
	}
	if d.HasRooftopCarrier {
		parts = append(parts, "com bagageiro de teto")
	}
	return strings.Join(parts, ", ")
}

func passengerSummary(t TripListing) string {
	s := plural(t.AdultsCount, "adulto", "adultos")
	if t.ChildrenCount > 0 {
		s += ", " + plural(t.ChildrenCount, "criança", "crianças")
	}
	return s
}

func baggageSummary(t TripListing) string {
	var parts []string
	if t.Baggage23kg > 0 {
		parts = append(parts, plural(t.Baggage23kg, "mala 23kg", "malas 23kg"))
	}
	if t.Baggage10kg > 0 {
		parts = append(parts, plural(t.Baggage10kg, "mala 10kg", "malas 10kg"))
	}
	if t.BaggageBags > 0 {
		parts = append(parts, plural(t.BaggageBags, "bolsa/mochila", "bolsas/mochilas"))
	}
	if len(parts) == 0 {
		return "sem bagagem"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
