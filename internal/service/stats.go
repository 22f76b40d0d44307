package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
)

// StatsService computes the dashboard counters. Nothing is cached: every call
// re-reads the listings and applies the expiry policy at the current time.
type StatsService struct {
	drivers  repo.DriverRepo
	trips    repo.TripRepo
	profiles repo.ProfileRepo
	policy   domain.ExpiryPolicy
	options
}

// NewStatsService constructs a StatsService.
func NewStatsService(drivers repo.DriverRepo, trips repo.TripRepo, profiles repo.ProfileRepo, policy domain.ExpiryPolicy, opts ...Option) *StatsService {
	return &StatsService{drivers: drivers, trips: trips, profiles: profiles, policy: policy, options: newOptions(opts)}
}

// Get returns the number of actionable driver and trip listings and the
// number of registered users.
func (s *StatsService) Get(ctx context.Context) (domain.Stats, error) {
	now := s.now()
	active := domain.ListingFilter{Status: domain.StatusActive}

	drivers, err := s.drivers.List(ctx, active)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.StatsService.Get: drivers: %w", err)
	}
	trips, err := s.trips.List(ctx, active)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.StatsService.Get: trips: %w", err)
	}
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.StatsService.Get: users: %w", err)
	}

	stats := domain.Stats{TotalUsers: users, ComputedAt: now}
	for _, d := range drivers {
		if s.live(d.Listing, now) {
			stats.ActiveDrivers++
		}
	}
	for _, t := range trips {
		if s.live(t.Listing, now) {
			stats.ActiveTrips++
		}
	}
	return stats, nil
}

// live reports whether l is still inside its window. Unparseable schedules
// do not count.
func (s *StatsService) live(l domain.Listing, now time.Time) bool {
	expired, err := s.policy.IsExpired(l.DepartureDate, l.DepartureTime, now)
	return err == nil && !expired
}
