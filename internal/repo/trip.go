package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// TripRepo defines the persistence operations for passenger trip listings.
type TripRepo interface {
	// Create inserts a new trip listing and returns the persisted record.
	Create(ctx context.Context, t domain.TripListing) (domain.TripListing, error)

	// GetByID retrieves a single trip listing. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripListing, error)

	// List returns trip listings matching f, soonest departure first.
	List(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error)

	// Update overwrites the mutable fields and status of an existing trip listing.
	// Returns domain.ErrNotFound if the row no longer exists.
	Update(ctx context.Context, t domain.TripListing) (domain.TripListing, error)

	// Delete removes a trip listing. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `
		id, owner_id, origin, destination, departure_date, departure_time, status,
		service_type, additional_info, adults_count, children_count, baggage_23kg,
		baggage_10kg, baggage_bags, max_price, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, t domain.TripListing) (domain.TripListing, error) {
	q := `
		INSERT INTO trip_listings (
			owner_id, origin, destination, departure_date, departure_time, status,
			service_type, additional_info, adults_count, children_count, baggage_23kg,
			baggage_10kg, baggage_bags, max_price)
		VALUES (
			@owner_id, @origin, @destination, @departure_date, @departure_time, @status,
			@service_type, @additional_info, @adults_count, @children_count, @baggage_23kg,
			@baggage_10kg, @baggage_bags, @max_price)
		RETURNING` + tripColumns

	args := tripArgs(t)
	args["owner_id"] = t.OwnerID
	args["origin"] = string(t.Origin)
	args["destination"] = string(t.Destination)

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripListing, error) {
	q := `SELECT` + tripColumns + `
		FROM trip_listings
		WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, f domain.ListingFilter) ([]domain.TripListing, error) {
	q := `SELECT` + tripColumns + `
		FROM trip_listings` + listingFilterWhere + `
		ORDER BY departure_date, departure_time, created_at DESC`

	rows, err := r.db.Query(ctx, q, listingFilterArgs(f))
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.TripListing{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, t domain.TripListing) (domain.TripListing, error) {
	q := `
		UPDATE trip_listings
		SET departure_date  = @departure_date,
		    departure_time  = @departure_time,
		    status          = @status,
		    service_type    = @service_type,
		    additional_info = @additional_info,
		    adults_count    = @adults_count,
		    children_count  = @children_count,
		    baggage_23kg    = @baggage_23kg,
		    baggage_10kg    = @baggage_10kg,
		    baggage_bags    = @baggage_bags,
		    max_price       = @max_price,
		    updated_at      = now()
		WHERE id = @id
		RETURNING` + tripColumns

	args := tripArgs(t)
	args["id"] = t.ID

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripListing{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trip_listings WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func tripArgs(t domain.TripListing) pgx.NamedArgs {
	return pgx.NamedArgs{
		"departure_date":  t.DepartureDate,
		"departure_time":  t.DepartureTime,
		"status":          string(t.Status),
		"service_type":    string(t.ServiceType),
		"additional_info": t.AdditionalInfo,
		"adults_count":    t.AdultsCount,
		"children_count":  t.ChildrenCount,
		"baggage_23kg":    t.Baggage23kg,
		"baggage_10kg":    t.Baggage10kg,
		"baggage_bags":    t.BaggageBags,
		"max_price":       t.MaxPrice, // nil becomes NULL
	}
}

// scanTrip maps a single row in tripColumns order into a domain.TripListing.
// It handles the UUID, DATE/TIME, and nullable max_price conversions.
func scanTrip(s scanner) (domain.TripListing, error) {
	var (
		t        domain.TripListing
		id       pgtype.UUID
		depDate  pgtype.Date
		depTime  pgtype.Time
		maxPrice pgtype.Float8
		origin   string
		dest     string
		status   string
		service  string
	)

	err := s.Scan(
		&id, &t.OwnerID, &origin, &dest, &depDate, &depTime, &status,
		&service, &t.AdditionalInfo, &t.AdultsCount, &t.ChildrenCount, &t.Baggage23kg,
		&t.Baggage10kg, &t.BaggageBags, &maxPrice, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.TripListing{}, noRows(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Origin = domain.Location(origin)
	t.Destination = domain.Location(dest)
	t.DepartureDate = formatDate(depDate)
	t.DepartureTime = formatClock(depTime)
	t.Status = domain.Status(status)
	t.ServiceType = domain.ServiceType(service)
	if maxPrice.Valid {
		v := maxPrice.Float64
		t.MaxPrice = &v
	}
	return t, nil
}
