package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/service"
)

// memRatings is an in-memory rating ledger keyed like the unique index.
type memRatings struct {
	rows []domain.Rating
}

func (m *memRatings) repo() *mockRatingRepo {
	return &mockRatingRepo{
		create: func(_ context.Context, r domain.Rating) (domain.Rating, error) {
			for _, existing := range m.rows {
				if existing.RaterUserID == r.RaterUserID && existing.InteractionID == r.InteractionID {
					return domain.Rating{}, domain.ErrDuplicate
				}
			}
			r.ID = uuid.New()
			m.rows = append(m.rows, r)
			return r, nil
		},
		exists: func(_ context.Context, rater string, interaction uuid.UUID) (bool, error) {
			for _, existing := range m.rows {
				if existing.RaterUserID == rater && existing.InteractionID == interaction {
					return true, nil
				}
			}
			return false, nil
		},
		aggregate: func(_ context.Context, userID string) (int64, int64, error) {
			var sum, count int64
			for _, r := range m.rows {
				if r.RatedUserID == userID {
					sum += int64(r.Score)
					count++
				}
			}
			return sum, count, nil
		},
		listByRated: func(_ context.Context, userID string, p domain.Page) ([]domain.Rating, int64, error) {
			var mine []domain.Rating
			for _, r := range m.rows {
				if r.RatedUserID == userID {
					mine = append(mine, r)
				}
			}
			total := int64(len(mine))
			start := min(p.Offset(), len(mine))
			end := min(start+p.Size, len(mine))
			return mine[start:end], total, nil
		},
	}
}

// memListings serves the listings ratings may refer to.
type memListings struct {
	drivers map[uuid.UUID]domain.DriverListing
	trips   map[uuid.UUID]domain.TripListing
}

func (m *memListings) driverRepo() *mockDriverRepo {
	return &mockDriverRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.DriverListing, error) {
			d, ok := m.drivers[id]
			if !ok {
				return domain.DriverListing{}, domain.ErrNotFound
			}
			return d, nil
		},
	}
}

func (m *memListings) tripRepo() *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.TripListing, error) {
			t, ok := m.trips[id]
			if !ok {
				return domain.TripListing{}, domain.ErrNotFound
			}
			return t, nil
		},
	}
}

type RatingServiceSuite struct {
	suite.Suite
	ledger   *memRatings
	listings *memListings
	pub      *recordingPublisher
	svc      *service.RatingService
	ctx      context.Context
}

func (s *RatingServiceSuite) SetupTest() {
	s.ledger = &memRatings{}
	s.listings = &memListings{
		drivers: map[uuid.UUID]domain.DriverListing{},
		trips:   map[uuid.UUID]domain.TripListing{},
	}
	s.pub = &recordingPublisher{}
	s.svc = service.NewRatingService(s.ledger.repo(), s.listings.driverRepo(), s.listings.tripRepo(),
		service.WithEvents(s.pub), morning)
	s.ctx = context.Background()
}

// driverListing stores a driver listing owned by owner and returns its id.
func (s *RatingServiceSuite) driverListing(owner string) uuid.UUID {
	d := driverFixture(owner)
	s.listings.drivers[d.ID] = d
	return d.ID
}

func (s *RatingServiceSuite) tripListing(owner string) uuid.UUID {
	t := tripFixture(owner)
	s.listings.trips[t.ID] = t
	return t.ID
}

// rate submits a rating about a fresh driver listing owned by rated.
func (s *RatingServiceSuite) rate(rater, rated string, score int) (domain.Rating, error) {
	return s.svc.Submit(s.ctx, rater, domain.Rating{
		RatedUserID:     rated,
		InteractionID:   s.driverListing(rated),
		InteractionKind: domain.KindDriver,
		Score:           score,
	})
}

func (s *RatingServiceSuite) TestSubmit_RecordsAndPublishes() {
	got, err := s.rate("passenger", "driver", 5)

	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, got.ID)
	s.Equal("passenger", got.RaterUserID)
	s.Require().Len(s.pub.events, 1)
	s.Equal(domain.EventRatingSubmitted, s.pub.events[0].Name)
	s.Equal("driver", s.pub.events[0].UserID)
	s.Equal(5, s.pub.events[0].Score)
}

func (s *RatingServiceSuite) TestSubmit_OncePerInteraction() {
	r := domain.Rating{
		RatedUserID:     "driver",
		InteractionID:   s.tripListing("driver"),
		InteractionKind: domain.KindTrip,
		Score:           4,
	}
	_, err := s.svc.Submit(s.ctx, "passenger", r)
	s.Require().NoError(err)

	r.Score = 1
	_, err = s.svc.Submit(s.ctx, "passenger", r)
	s.ErrorIs(err, domain.ErrDuplicate)

	_, err = s.svc.Submit(s.ctx, "another-passenger", r)
	s.NoError(err, "a different rater may rate the same interaction")

	count, err := s.svc.CountFor(s.ctx, "driver")
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *RatingServiceSuite) TestSubmit_Rejections() {
	_, err := s.rate("", "driver", 5)
	s.ErrorIs(err, domain.ErrUnauthenticated)

	_, err = s.rate("passenger", "driver", 0)
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.rate("passenger", "driver", 6)
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.rate("driver", "driver", 5)
	s.ErrorIs(err, domain.ErrValidation)

	s.Empty(s.ledger.rows)
	s.Empty(s.pub.events)
}

func (s *RatingServiceSuite) TestSubmit_UnknownInteraction() {
	for i := 0; i < 3; i++ {
		_, err := s.svc.Submit(s.ctx, "stranger", domain.Rating{
			RatedUserID:     "driver",
			InteractionID:   uuid.New(),
			InteractionKind: domain.KindDriver,
			Score:           1,
		})
		s.ErrorIs(err, domain.ErrNotFound)
	}

	count, err := s.svc.CountFor(s.ctx, "driver")
	s.Require().NoError(err)
	s.Zero(count)
	s.Empty(s.pub.events)
}

func (s *RatingServiceSuite) TestSubmit_KindMustMatchListing() {
	_, err := s.svc.Submit(s.ctx, "passenger", domain.Rating{
		RatedUserID:     "driver",
		InteractionID:   s.driverListing("driver"),
		InteractionKind: domain.KindTrip,
		Score:           5,
	})

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RatingServiceSuite) TestSubmit_InteractionMustInvolveOwner() {
	unrelated := s.driverListing("someone-else")

	_, err := s.svc.Submit(s.ctx, "passenger", domain.Rating{
		RatedUserID:     "driver",
		InteractionID:   unrelated,
		InteractionKind: domain.KindDriver,
		Score:           2,
	})
	s.ErrorIs(err, domain.ErrValidation)

	// The owner of a trip request may rate the driver who answered it.
	_, err = s.svc.Submit(s.ctx, "passenger", domain.Rating{
		RatedUserID:     "driver",
		InteractionID:   s.tripListing("passenger"),
		InteractionKind: domain.KindTrip,
		Score:           5,
	})
	s.NoError(err)
}

func (s *RatingServiceSuite) TestAverageAndSummary() {
	avg, err := s.svc.AverageFor(s.ctx, "driver")
	s.Require().NoError(err)
	s.Zero(avg, "unrated users average 0")

	for _, score := range []int{5, 4, 4} {
		_, err := s.rate("passenger", "driver", score)
		s.Require().NoError(err)
	}

	avg, err = s.svc.AverageFor(s.ctx, "driver")
	s.Require().NoError(err)
	s.InDelta(4.3, avg, 1e-9)

	summary, err := s.svc.Summary(s.ctx, "driver")
	s.Require().NoError(err)
	s.Equal(int64(3), summary.Count)
	s.InDelta(4.3, summary.Average, 1e-9)
}

func (s *RatingServiceSuite) TestCanRate() {
	r := domain.Rating{RatedUserID: "driver", InteractionID: s.driverListing("driver"), InteractionKind: domain.KindDriver, Score: 3}

	ok, err := s.svc.CanRate(s.ctx, "passenger", r.InteractionID)
	s.Require().NoError(err)
	s.True(ok)

	_, err = s.svc.Submit(s.ctx, "passenger", r)
	s.Require().NoError(err)

	ok, err = s.svc.CanRate(s.ctx, "passenger", r.InteractionID)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.svc.CanRate(s.ctx, "", r.InteractionID)
	s.ErrorIs(err, domain.ErrUnauthenticated)
}

func (s *RatingServiceSuite) TestListFor_Pages() {
	for i := 0; i < 3; i++ {
		_, err := s.rate("passenger", "driver", 5)
		s.Require().NoError(err)
	}

	page, err := s.svc.ListFor(s.ctx, "driver", domain.NewPage(ptr(2), ptr(2)))

	s.Require().NoError(err)
	s.Equal(int64(3), page.Total)
	s.Len(page.Ratings, 1)
	s.Equal(2, page.Page.Number)

	empty, err := s.svc.ListFor(s.ctx, "nobody", domain.NewPage(nil, nil))
	s.Require().NoError(err)
	s.NotNil(empty.Ratings)
}

func TestRatingServiceSuite(t *testing.T) {
	suite.Run(t, new(RatingServiceSuite))
}

// The store's unique index is the last line of defense when two submissions
// race past the pre-check.
func TestRatingService_Submit_RaceHitsUniqueIndex(t *testing.T) {
	r := &mockRatingRepo{
		exists: func(context.Context, string, uuid.UUID) (bool, error) { return false, nil },
		create: func(context.Context, domain.Rating) (domain.Rating, error) {
			return domain.Rating{}, domain.ErrDuplicate
		},
	}
	listing := driverFixture("driver")
	pub := &recordingPublisher{}
	svc := service.NewRatingService(r, driverStore(listing), &mockTripRepo{}, service.WithEvents(pub))

	_, err := svc.Submit(context.Background(), "passenger", domain.Rating{
		RatedUserID: "driver", InteractionID: listing.ID, InteractionKind: domain.KindDriver, Score: 5,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, pub.events)
}
