package domain

import "fmt"

// transitions is the allowed-edge table per listing kind.
// Driver listings toggle between active and inactive. Trip listings leave
// active exactly once, to completed or accepted, and never come back.
var transitions = map[ListingKind]map[Status][]Status{
	KindDriver: {
		StatusActive:   {StatusInactive},
		StatusInactive: {StatusActive},
	},
	KindTrip: {
		StatusActive: {StatusCompleted, StatusAccepted},
	},
}

// CanTransition reports whether kind allows moving from one status to another.
func CanTransition(kind ListingKind, from, to Status) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a listing of kind in status s can no longer be
// edited. Only trip listings have terminal statuses.
func IsTerminal(kind ListingKind, s Status) bool {
	return kind == KindTrip && (s == StatusCompleted || s == StatusAccepted)
}

// CheckMutable returns ErrInvalidState when an owner edit is not allowed:
// the listing has expired, or its status is terminal for its kind.
// l.Expired must already be set for the current time.
func CheckMutable(kind ListingKind, l Listing) error {
	if l.Expired {
		return fmt.Errorf("%w: listing expired", ErrInvalidState)
	}
	if IsTerminal(kind, l.Status) {
		return fmt.Errorf("%w: %s listing is %s", ErrInvalidState, kind, l.Status)
	}
	return nil
}

// CheckTransition validates a status change for an existing listing.
// Expiry is checked first: an expired listing accepts no status change at all.
func CheckTransition(kind ListingKind, l Listing, to Status) error {
	if l.Expired {
		return fmt.Errorf("%w: listing expired", ErrInvalidState)
	}
	if !CanTransition(kind, l.Status, to) {
		return fmt.Errorf("%w: %s listing cannot go from %s to %s", ErrInvalidTransition, kind, l.Status, to)
	}
	return nil
}

// CheckOwner returns ErrUnauthenticated when userID is empty and ErrForbidden
// when it does not match the listing's owner.
func CheckOwner(l Listing, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if !l.Owned(userID) {
		return ErrForbidden
	}
	return nil
}
