// Package repo contains all database access logic for the marketplace.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err came from a unique constraint.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// noRows converts pgx.ErrNoRows into domain.ErrNotFound and passes anything else through.
func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// nullIfEmpty turns "" into SQL NULL so optional filters can be written as
// (@x::text IS NULL OR col = @x).
func nullIfEmpty[T ~string](s T) any {
	if s == "" {
		return nil
	}
	return string(s)
}

// formatDate renders a DATE column in the domain's "YYYY-MM-DD" form.
func formatDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(domain.DateLayout)
}

// formatClock renders a TIME column in the domain's "HH:MM" form.
func formatClock(t pgtype.Time) string {
	if !t.Valid {
		return ""
	}
	minutes := t.Microseconds / 60_000_000
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// listingFilterArgs maps a domain.ListingFilter onto the named args used by
// the list queries of both listing tables.
func listingFilterArgs(f domain.ListingFilter) pgx.NamedArgs {
	return pgx.NamedArgs{
		"owner_id":       nullIfEmpty(f.OwnerID),
		"status":         nullIfEmpty(f.Status),
		"origin":         nullIfEmpty(f.Origin),
		"destination":    nullIfEmpty(f.Destination),
		"departure_date": nullIfEmpty(f.DepartureDate),
	}
}

// listingFilterWhere is shared by the drivers and trips list queries.
const listingFilterWhere = `
		WHERE (@owner_id::text IS NULL OR owner_id = @owner_id)
		  AND (@status::text IS NULL OR status = @status)
		  AND (@origin::text IS NULL OR origin = @origin)
		  AND (@destination::text IS NULL OR destination = @destination)
		  AND (@departure_date::date IS NULL OR departure_date = @departure_date::date)`
