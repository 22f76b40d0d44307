// Package whatsapp builds wa.me deep links that open a chat with a listing
// owner, pre-filled with a greeting describing the listing.
package whatsapp

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// DefaultCountryCode is Brazil's calling code.
const DefaultCountryCode = "55"

const baseURL = "https://wa.me/"

// Builder renders contact payloads as WhatsApp links.
type Builder struct {
	CountryCode string
}

// NewBuilder returns a Builder for numbers in countryCode.
// An empty countryCode means DefaultCountryCode.
func NewBuilder(countryCode string) Builder {
	countryCode = domain.PhoneDigits(countryCode)
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return Builder{CountryCode: countryCode}
}

// Link returns the wa.me URL for the payload's counterpart.
func (b Builder) Link(p domain.ContactPayload) (string, error) {
	phone := b.international(p.CounterpartPhone)
	if phone == "" {
		return "", fmt.Errorf("%w: counterpart has no phone number", domain.ErrValidation)
	}
	return baseURL + phone + "?text=" + encode(Message(p)), nil
}

// international strips formatting and prefixes the country code unless the
// number already carries it. Local numbers have at most 11 digits.
func (b Builder) international(phone string) string {
	digits := domain.PhoneDigits(phone)
	if digits == "" {
		return ""
	}
	if len(digits) > 11 && strings.HasPrefix(digits, b.CountryCode) {
		return digits
	}
	return b.CountryCode + digits
}

// Message is the greeting pre-filled in the chat.
func Message(p domain.ContactPayload) string {
	when := fmt.Sprintf("no dia %s às %s", displayDate(p.DepartureDate), p.DepartureTime)
	if p.Kind == domain.KindTrip {
		return fmt.Sprintf(
			"Olá %s! Vi sua oferta de viagem para %s %s (%s; %s). Posso ajudar com o transporte.",
			p.CounterpartName, p.Route, when, p.CapacityOrNeed, p.VehicleOrBaggageSummary,
		)
	}
	return fmt.Sprintf(
		"Olá %s! Vi sua disponibilidade de %s (%s) para %s %s. Gostaria de mais informações.",
		p.CounterpartName, p.VehicleOrBaggageSummary, p.CapacityOrNeed, p.Route, when,
	)
}

// encode escapes s for a query value the way browsers' encodeURIComponent
// does, with spaces as %20 so the chat shows them verbatim.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func displayDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

var mobile = regexp.MustCompile(`^(\d{2})(\d{5})(\d{4})$`)

// FormatPhone renders an 11-digit mobile number as "(DD) NNNNN-NNNN".
// Anything else is returned unchanged.
func FormatPhone(phone string) string {
	m := mobile.FindStringSubmatch(domain.PhoneDigits(phone))
	if m == nil {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
}
