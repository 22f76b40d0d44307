package domain

import "time"

// Stats is the dashboard snapshot: listings that can be acted on right now,
// and the number of registered users.
type Stats struct {
	ActiveDrivers int
	ActiveTrips   int
	TotalUsers    int64
	ComputedAt    time.Time
}

// Event names published when listings or ratings change.
const (
	EventListingStatusChanged = "listing.status_changed"
	EventListingDeleted       = "listing.deleted"
	EventRatingSubmitted      = "rating.submitted"
)

// Event is a domain fact worth telling other systems about.
// Key groups related events (listing or rating id) for ordered delivery.
// UserID is the listing owner, or the rated user for rating events.
type Event struct {
	Name       string
	Key        string
	Kind       ListingKind
	UserID     string
	From       Status
	To         Status
	Score      int
	OccurredAt time.Time
}
