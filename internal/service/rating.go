package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
)

// RatingService records post-contact feedback and answers reputation queries.
type RatingService struct {
	repo    repo.RatingRepo
	drivers repo.DriverRepo
	trips   repo.TripRepo
	options
}

// NewRatingService constructs a RatingService. The listing repos resolve the
// interaction a rating refers to.
func NewRatingService(r repo.RatingRepo, drivers repo.DriverRepo, trips repo.TripRepo, opts ...Option) *RatingService {
	return &RatingService{repo: r, drivers: drivers, trips: trips, options: newOptions(opts)}
}

// Submit records a rating from raterID. The interaction must be an existing
// listing owned by either the rater or the ratee. A rater may rate an
// interaction once; a second attempt returns domain.ErrDuplicate.
func (s *RatingService) Submit(ctx context.Context, raterID string, r domain.Rating) (domain.Rating, error) {
	if err := requireUser(raterID); err != nil {
		return domain.Rating{}, fmt.Errorf("service.RatingService.Submit: %w", err)
	}
	r.ID = uuid.Nil
	r.RaterUserID = raterID
	if err := r.Validate(); err != nil {
		return domain.Rating{}, err
	}
	r.InteractionKind, _ = domain.ParseListingKind(string(r.InteractionKind))
	if err := s.checkInteraction(ctx, r); err != nil {
		return domain.Rating{}, fmt.Errorf("service.RatingService.Submit: %w", err)
	}

	exists, err := s.repo.Exists(ctx, raterID, r.InteractionID)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("service.RatingService.Submit: %w", err)
	}
	if exists {
		s.logDuplicate(ctx, r)
		return domain.Rating{}, fmt.Errorf("service.RatingService.Submit: %w", domain.ErrDuplicate)
	}

	result, err := s.repo.Create(ctx, r)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			s.logDuplicate(ctx, r)
		}
		return domain.Rating{}, fmt.Errorf("service.RatingService.Submit: %w", err)
	}

	s.publish(ctx, domain.Event{
		Name:   domain.EventRatingSubmitted,
		Key:    result.ID.String(),
		Kind:   result.InteractionKind,
		UserID: result.RatedUserID,
		Score:  result.Score,
	})
	return result, nil
}

// AverageFor returns userID's mean score rounded to one decimal, or 0 when
// nobody has rated them.
func (s *RatingService) AverageFor(ctx context.Context, userID string) (float64, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service.RatingService.AverageFor: %w", err)
	}
	return summary.Average, nil
}

// CountFor returns how many ratings userID has received.
func (s *RatingService) CountFor(ctx context.Context, userID string) (int64, error) {
	_, count, err := s.repo.Aggregate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service.RatingService.CountFor: %w", err)
	}
	return count, nil
}

// Summary returns the average and count for userID in one read.
func (s *RatingService) Summary(ctx context.Context, userID string) (domain.RatingSummary, error) {
	sum, count, err := s.repo.Aggregate(ctx, userID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("service.RatingService.Summary: %w", err)
	}
	return domain.RatingSummary{
		UserID:  userID,
		Average: domain.AverageScore(sum, count),
		Count:   count,
	}, nil
}

// ListFor returns one page of the ratings userID received, newest first.
func (s *RatingService) ListFor(ctx context.Context, userID string, p domain.Page) (domain.RatingPage, error) {
	ratings, total, err := s.repo.ListByRated(ctx, userID, p)
	if err != nil {
		return domain.RatingPage{}, fmt.Errorf("service.RatingService.ListFor: %w", err)
	}
	if ratings == nil {
		ratings = []domain.Rating{}
	}
	return domain.RatingPage{Ratings: ratings, Page: p, Total: total}, nil
}

// CanRate reports whether raterID may still rate interactionID.
func (s *RatingService) CanRate(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error) {
	if err := requireUser(raterID); err != nil {
		return false, fmt.Errorf("service.RatingService.CanRate: %w", err)
	}
	exists, err := s.repo.Exists(ctx, raterID, interactionID)
	if err != nil {
		return false, fmt.Errorf("service.RatingService.CanRate: %w", err)
	}
	return !exists, nil
}

// checkInteraction loads the listing r refers to and requires that the rater
// or the ratee owns it.
func (s *RatingService) checkInteraction(ctx context.Context, r domain.Rating) error {
	var owner string
	switch r.InteractionKind {
	case domain.KindDriver:
		d, err := s.drivers.GetByID(ctx, r.InteractionID)
		if err != nil {
			return err
		}
		owner = d.OwnerID
	case domain.KindTrip:
		t, err := s.trips.GetByID(ctx, r.InteractionID)
		if err != nil {
			return err
		}
		owner = t.OwnerID
	default:
		return fmt.Errorf("%w: unknown interaction kind %q", domain.ErrValidation, r.InteractionKind)
	}
	if owner != r.RaterUserID && owner != r.RatedUserID {
		return fmt.Errorf("%w: rating must involve the owner of the %s listing", domain.ErrValidation, r.InteractionKind)
	}
	return nil
}

func (s *RatingService) logDuplicate(ctx context.Context, r domain.Rating) {
	s.logger.WarnContext(ctx, "duplicate rating rejected",
		slog.String("rater_user_id", r.RaterUserID),
		slog.String("interaction_id", r.InteractionID.String()),
	)
}
