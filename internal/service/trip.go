package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
)

// TripService implements the lifecycle of passenger trip listings.
type TripService struct {
	repo   repo.TripRepo
	policy domain.ExpiryPolicy
	options
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, policy domain.ExpiryPolicy, opts ...Option) *TripService {
	return &TripService{repo: r, policy: policy, options: newOptions(opts)}
}

// Create validates and persists a new listing owned by ownerID.
// The stored listing always starts active.
func (s *TripService) Create(ctx context.Context, ownerID string, t domain.TripListing) (domain.TripListing, error) {
	if err := requireUser(ownerID); err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	st, err := domain.ParseServiceType(string(t.ServiceType))
	if err != nil {
		return domain.TripListing{}, err
	}
	t.ID = uuid.Nil
	t.OwnerID = ownerID
	t.Status = domain.StatusActive
	t.ServiceType = st

	if err := t.Validate(); err != nil {
		return domain.TripListing{}, err
	}
	if err := prepareSchedule(s.policy, &t.Listing, s.now()); err != nil {
		return domain.TripListing{}, err
	}

	result, err := s.repo.Create(ctx, t)
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// Get returns a single listing with its expiry evaluated now.
func (s *TripService) Get(ctx context.Context, id uuid.UUID) (domain.TripListing, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return t, nil
}

// Update applies patch to a trip the caller owns. Expired trips and closed
// trips cannot be edited.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, ownerID string, patch domain.TripPatch) (domain.TripListing, error) {
	current, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := domain.CheckMutable(domain.KindTrip, current.Listing); err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.ServiceType != nil {
		st, err := domain.ParseServiceType(string(*patch.ServiceType))
		if err != nil {
			return domain.TripListing{}, err
		}
		patch.ServiceType = &st
	}
	merged := patch.Apply(current)
	if err := merged.Validate(); err != nil {
		return domain.TripListing{}, err
	}
	if err := prepareSchedule(s.policy, &merged.Listing, s.now()); err != nil {
		return domain.TripListing{}, err
	}

	result, err := s.repo.Update(ctx, merged)
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// ChangeStatus closes an active trip the caller owns as completed or accepted.
// Both outcomes are final.
func (s *TripService) ChangeStatus(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.TripListing, error) {
	if err := requireUser(ownerID); err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.ChangeStatus: %w", err)
	}
	to, err := domain.ParseStatus(string(to))
	if err != nil {
		return domain.TripListing{}, err
	}

	current, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.ChangeStatus: %w", err)
	}
	if err := domain.CheckTransition(domain.KindTrip, current.Listing, to); err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.ChangeStatus: %w", err)
	}

	from := current.Status
	current.Status = to
	result, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("service.TripService.ChangeStatus: %w", err)
	}

	s.logger.InfoContext(ctx, "trip listing status changed",
		slog.String("listing_id", id.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	s.publish(ctx, domain.Event{
		Name:   domain.EventListingStatusChanged,
		Key:    id.String(),
		Kind:   domain.KindTrip,
		UserID: ownerID,
		From:   from,
		To:     to,
	})
	return result, nil
}

// Delete removes a listing the caller owns, whatever its status or expiry.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	s.publish(ctx, domain.Event{
		Name:   domain.EventListingDeleted,
		Key:    id.String(),
		Kind:   domain.KindTrip,
		UserID: ownerID,
	})
	return nil
}

// ListActive returns listings that are stored active and not yet expired,
// narrowed by the route and date in f. Owner and status in f are ignored.
func (s *TripService) ListActive(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.OwnerID = ""
	f.Status = domain.StatusActive

	all, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListActive: %w", err)
	}

	now := s.now()
	active := make([]domain.TripListing, 0, len(all))
	for _, t := range all {
		if err := s.policy.Annotate(&t.Listing, now); err != nil {
			return nil, fmt.Errorf("service.TripService.ListActive: %w", err)
		}
		if !t.Expired {
			active = append(active, t)
		}
	}
	return active, nil
}

// ListByOwner returns every listing ownerID has published, in any status,
// each marked with its current expiry.
func (s *TripService) ListByOwner(ctx context.Context, ownerID string) ([]domain.TripListing, error) {
	if err := requireUser(ownerID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListByOwner: %w", err)
	}
	all, err := s.repo.List(ctx, domain.ListingFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByOwner: %w", err)
	}

	now := s.now()
	for i := range all {
		if err := s.policy.Annotate(&all[i].Listing, now); err != nil {
			return nil, fmt.Errorf("service.TripService.ListByOwner: %w", err)
		}
	}
	return all, nil
}

// load fetches a listing and evaluates its expiry at the current time.
func (s *TripService) load(ctx context.Context, id uuid.UUID) (domain.TripListing, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripListing{}, err
	}
	if err := s.policy.Annotate(&t.Listing, s.now()); err != nil {
		return domain.TripListing{}, err
	}
	return t, nil
}

// owned loads a listing and checks that ownerID may act on it.
// Identity is checked before existence, existence before ownership.
func (s *TripService) owned(ctx context.Context, id uuid.UUID, ownerID string) (domain.TripListing, error) {
	if err := requireUser(ownerID); err != nil {
		return domain.TripListing{}, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return domain.TripListing{}, err
	}
	if err := domain.CheckOwner(t.Listing, ownerID); err != nil {
		return domain.TripListing{}, err
	}
	return t, nil
}
