package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
)

// LinkBuilder turns a contact payload into a link that opens a conversation
// with the counterpart, such as a WhatsApp deep link.
type LinkBuilder interface {
	Link(p domain.ContactPayload) (string, error)
}

// ContactService hands a requester the details they need to reach the owner
// of a listing off-platform, plus the key for rating that contact later.
type ContactService struct {
	drivers  repo.DriverRepo
	trips    repo.TripRepo
	profiles repo.ProfileRepo
	links    LinkBuilder
	policy   domain.ExpiryPolicy
	options
}

// NewContactService constructs a ContactService.
func NewContactService(
	drivers repo.DriverRepo,
	trips repo.TripRepo,
	profiles repo.ProfileRepo,
	links LinkBuilder,
	policy domain.ExpiryPolicy,
	opts ...Option,
) *ContactService {
	return &ContactService{
		drivers:  drivers,
		trips:    trips,
		profiles: profiles,
		links:    links,
		policy:   policy,
		options:  newOptions(opts),
	}
}

// ForDriver prepares contact with the driver who published listingID.
func (s *ContactService) ForDriver(ctx context.Context, listingID uuid.UUID, requesterID string) (domain.Contact, error) {
	if err := requireUser(requesterID); err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForDriver: %w", err)
	}
	d, err := s.drivers.GetByID(ctx, listingID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForDriver: %w", err)
	}
	owner, err := s.counterpart(ctx, d.Listing, requesterID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForDriver: %w", err)
	}
	c, err := s.build(domain.DriverContactPayload(d, owner), d.Listing, domain.KindDriver)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForDriver: %w", err)
	}
	return c, nil
}

// ForTrip prepares contact with the passenger who published listingID.
func (s *ContactService) ForTrip(ctx context.Context, listingID uuid.UUID, requesterID string) (domain.Contact, error) {
	if err := requireUser(requesterID); err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForTrip: %w", err)
	}
	t, err := s.trips.GetByID(ctx, listingID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForTrip: %w", err)
	}
	owner, err := s.counterpart(ctx, t.Listing, requesterID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForTrip: %w", err)
	}
	c, err := s.build(domain.TripContactPayload(t, owner), t.Listing, domain.KindTrip)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("service.ContactService.ForTrip: %w", err)
	}
	return c, nil
}

// counterpart checks that l can be acted on by requesterID and returns the
// owner's profile. Only active listings inside their window can be contacted.
func (s *ContactService) counterpart(ctx context.Context, l domain.Listing, requesterID string) (domain.Profile, error) {
	if err := s.policy.Annotate(&l, s.now()); err != nil {
		return domain.Profile{}, err
	}
	if l.Expired {
		return domain.Profile{}, fmt.Errorf("%w: listing expired", domain.ErrInvalidState)
	}
	if l.Status != domain.StatusActive {
		return domain.Profile{}, fmt.Errorf("%w: listing is %s", domain.ErrInvalidState, l.Status)
	}
	if l.Owned(requesterID) {
		return domain.Profile{}, fmt.Errorf("%w: cannot contact your own listing", domain.ErrValidation)
	}

	owner, err := s.profiles.GetByUserID(ctx, l.OwnerID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !owner.Reachable()) {
		return domain.Profile{}, fmt.Errorf("%w: listing owner has no contact phone", domain.ErrValidation)
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return owner, nil
}

func (s *ContactService) build(p domain.ContactPayload, l domain.Listing, kind domain.ListingKind) (domain.Contact, error) {
	link, err := s.links.Link(p)
	if err != nil {
		return domain.Contact{}, err
	}
	return domain.Contact{
		Payload: p,
		Link:    link,
		Rate: domain.RatingTarget{
			RatedUserID:     l.OwnerID,
			InteractionID:   l.ID,
			InteractionKind: kind,
		},
	}, nil
}
