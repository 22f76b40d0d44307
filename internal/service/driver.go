package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
)

// DriverService implements the lifecycle of driver listings.
type DriverService struct {
	repo   repo.DriverRepo
	policy domain.ExpiryPolicy
	options
}

// NewDriverService constructs a DriverService backed by the provided DriverRepo.
func NewDriverService(r repo.DriverRepo, policy domain.ExpiryPolicy, opts ...Option) *DriverService {
	return &DriverService{repo: r, policy: policy, options: newOptions(opts)}
}

// Create validates and persists a new listing owned by ownerID.
// The stored listing always starts active.
func (s *DriverService) Create(ctx context.Context, ownerID string, d domain.DriverListing) (domain.DriverListing, error) {
	if err := requireUser(ownerID); err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}

	st, err := domain.ParseServiceType(string(d.ServiceType))
	if err != nil {
		return domain.DriverListing{}, err
	}
	d.ID = uuid.Nil
	d.OwnerID = ownerID
	d.Status = domain.StatusActive
	d.ServiceType = st

	if err := d.Validate(); err != nil {
		return domain.DriverListing{}, err
	}
	if err := prepareSchedule(s.policy, &d.Listing, s.now()); err != nil {
		return domain.DriverListing{}, err
	}

	result, err := s.repo.Create(ctx, d)
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}
	return result, nil
}

// Get returns a single listing with its expiry evaluated now.
func (s *DriverService) Get(ctx context.Context, id uuid.UUID) (domain.DriverListing, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.Get: %w", err)
	}
	return d, nil
}

// Update applies patch to a listing the caller owns.
// Expired listings cannot be edited.
func (s *DriverService) Update(ctx context.Context, id uuid.UUID, ownerID string, patch domain.DriverPatch) (domain.DriverListing, error) {
	current, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	if err := domain.CheckMutable(domain.KindDriver, current.Listing); err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	if patch.Empty() {
		return current, nil
	}

	if patch.ServiceType != nil {
		st, err := domain.ParseServiceType(string(*patch.ServiceType))
		if err != nil {
			return domain.DriverListing{}, err
		}
		patch.ServiceType = &st
	}
	merged := patch.Apply(current)
	if err := merged.Validate(); err != nil {
		return domain.DriverListing{}, err
	}
	if err := prepareSchedule(s.policy, &merged.Listing, s.now()); err != nil {
		return domain.DriverListing{}, err
	}

	result, err := s.repo.Update(ctx, merged)
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	return result, nil
}

// ChangeStatus moves a listing the caller owns between active and inactive.
func (s *DriverService) ChangeStatus(ctx context.Context, id uuid.UUID, ownerID string, to domain.Status) (domain.DriverListing, error) {
	if err := requireUser(ownerID); err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.ChangeStatus: %w", err)
	}
	to, err := domain.ParseStatus(string(to))
	if err != nil {
		return domain.DriverListing{}, err
	}

	current, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.ChangeStatus: %w", err)
	}
	if err := domain.CheckTransition(domain.KindDriver, current.Listing, to); err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.ChangeStatus: %w", err)
	}

	from := current.Status
	current.Status = to
	result, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("service.DriverService.ChangeStatus: %w", err)
	}

	s.logger.InfoContext(ctx, "driver listing status changed",
		slog.String("listing_id", id.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	s.publish(ctx, domain.Event{
		Name:   domain.EventListingStatusChanged,
		Key:    id.String(),
		Kind:   domain.KindDriver,
		UserID: ownerID,
		From:   from,
		To:     to,
	})
	return result, nil
}

// Delete removes a listing the caller owns, whatever its status or expiry.
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return fmt.Errorf("service.DriverService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DriverService.Delete: %w", err)
	}
	s.publish(ctx, domain.Event{
		Name:   domain.EventListingDeleted,
		Key:    id.String(),
		Kind:   domain.KindDriver,
		UserID: ownerID,
	})
	return nil
}

// ListActive returns listings that are stored active and not yet expired,
// narrowed by the route and date in f. Owner and status in f are ignored.
func (s *DriverService) ListActive(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.OwnerID = ""
	f.Status = domain.StatusActive

	all, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.DriverService.ListActive: %w", err)
	}

	now := s.now()
	active := make([]domain.DriverListing, 0, len(all))
	for _, d := range all {
		if err := s.policy.Annotate(&d.Listing, now); err != nil {
			return nil, fmt.Errorf("service.DriverService.ListActive: %w", err)
		}
		if !d.Expired {
			active = append(active, d)
		}
	}
	return active, nil
}

// ListByOwner returns every listing ownerID has published, in any status,
// each marked with its current expiry.
func (s *DriverService) ListByOwner(ctx context.Context, ownerID string) ([]domain.DriverListing, error) {
	if err := requireUser(ownerID); err != nil {
		return nil, fmt.Errorf("service.DriverService.ListByOwner: %w", err)
	}
	all, err := s.repo.List(ctx, domain.ListingFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("service.DriverService.ListByOwner: %w", err)
	}

	now := s.now()
	for i := range all {
		if err := s.policy.Annotate(&all[i].Listing, now); err != nil {
			return nil, fmt.Errorf("service.DriverService.ListByOwner: %w", err)
		}
	}
	return all, nil
}

// load fetches a listing and evaluates its expiry at the current time.
func (s *DriverService) load(ctx context.Context, id uuid.UUID) (domain.DriverListing, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.DriverListing{}, err
	}
	if err := s.policy.Annotate(&d.Listing, s.now()); err != nil {
		return domain.DriverListing{}, err
	}
	return d, nil
}

// owned loads a listing and checks that ownerID may act on it.
// Identity is checked before existence, existence before ownership.
func (s *DriverService) owned(ctx context.Context, id uuid.UUID, ownerID string) (domain.DriverListing, error) {
	if err := requireUser(ownerID); err != nil {
		return domain.DriverListing{}, err
	}
	d, err := s.load(ctx, id)
	if err != nil {
		return domain.DriverListing{}, err
	}
	if err := domain.CheckOwner(d.Listing, ownerID); err != nil {
		return domain.DriverListing{}, err
	}
	return d, nil
}
