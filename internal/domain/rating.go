package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Score bounds for a rating.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one immutable piece of feedback from a rater about a ratee.
//
// InteractionID identifies the contact being rated: the driver listing a
// passenger reached out to, or the trip listing a driver answered.
// A rater may rate a given interaction once.
type Rating struct {
	ID              uuid.UUID
	RaterUserID     string
	RatedUserID     string
	InteractionID   uuid.UUID
	InteractionKind ListingKind
	Score           int
	Comment         string
	CreatedAt       time.Time
}

// Validate checks the rating's fields. The rater is checked by the caller
// because a missing rater is an identity failure, not bad input.
func (r Rating) Validate() error {
	if r.Score < MinScore || r.Score > MaxScore {
		return fmt.Errorf("%w: score must be between %d and %d", ErrValidation, MinScore, MaxScore)
	}
	if strings.TrimSpace(r.RatedUserID) == "" {
		return fmt.Errorf("%w: rated user is required", ErrValidation)
	}
	if r.RatedUserID == r.RaterUserID {
		return fmt.Errorf("%w: users cannot rate themselves", ErrValidation)
	}
	if r.InteractionID == uuid.Nil {
		return fmt.Errorf("%w: interaction id is required", ErrValidation)
	}
	if _, err := ParseListingKind(string(r.InteractionKind)); err != nil {
		return err
	}
	if tooLong(r.Comment) {
		return fmt.Errorf("%w: comment exceeds %d characters", ErrValidation, MaxFreeTextLength)
	}
	return nil
}

// RatingSummary aggregates every rating a user has received.
// Average is 0 when Count is 0; check Count to tell "unrated" from a score.
type RatingSummary struct {
	UserID  string
	Average float64
	Count   int64
}

// AverageScore returns sum/count rounded to one decimal place, or 0 for count 0.
func AverageScore(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}

// RatingTarget is what a client needs to open the rating flow after contact.
type RatingTarget struct {
	RatedUserID     string
	InteractionID   uuid.UUID
	InteractionKind ListingKind
}
