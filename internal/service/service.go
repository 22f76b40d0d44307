// Package service contains the business logic for the marketplace.
// Services validate inputs, enforce ownership and lifecycle rules, apply the
// expiry policy at call time, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// EventPublisher delivers domain events to other systems.
// Delivery is best effort: a failed publish is logged and never fails the
// operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, e domain.Event) error
}

// Option configures optional collaborators shared by every service.
type Option func(*options)

type options struct {
	now    func() time.Time
	events EventPublisher
	logger *slog.Logger
}

// WithClock replaces time.Now. Tests pin the clock with it.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithEvents publishes lifecycle and rating events to p.
func WithEvents(p EventPublisher) Option {
	return func(o *options) { o.events = p }
}

// WithLogger sets the logger used for lifecycle and publish failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish sends e if a publisher is configured.
func (o options) publish(ctx context.Context, e domain.Event) {
	if o.events == nil {
		return
	}
	e.OccurredAt = o.now()
	if err := o.events.Publish(ctx, e); err != nil {
		o.logger.ErrorContext(ctx, "publish event failed",
			slog.String("event", e.Name),
			slog.String("key", e.Key),
			slog.String("error", err.Error()),
		)
	}
}

// requireUser returns ErrUnauthenticated for an empty caller identity.
func requireUser(userID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// prepareSchedule normalizes l's date and time in place and rejects a
// departure whose expiration window has already passed at now.
func prepareSchedule(policy domain.ExpiryPolicy, l *domain.Listing, now time.Time) error {
	date, clock, err := domain.NormalizeSchedule(l.DepartureDate, l.DepartureTime)
	if err != nil {
		return err
	}
	l.DepartureDate, l.DepartureTime = date, clock

	expired, err := policy.IsExpired(date, clock, now)
	if err != nil {
		return err
	}
	if expired {
		return fmt.Errorf("%w: departure %s %s has already passed", domain.ErrValidation, date, clock)
	}
	return nil
}
