package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// DriverRepo defines the persistence operations for driver listings.
// The service layer depends on this interface, not the Postgres implementation.
type DriverRepo interface {
	// Create inserts a new listing and returns the persisted record with the
	// DB-generated id, created_at, and updated_at populated.
	Create(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error)

	// GetByID retrieves a single listing. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DriverListing, error)

	// List returns listings matching f, soonest departure first.
	List(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error)

	// Update overwrites the mutable fields and status of an existing listing.
	// Returns domain.ErrNotFound if the row no longer exists.
	Update(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error)

	// Delete removes a listing. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgDriverRepo is the Postgres implementation of DriverRepo.
type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

const driverColumns = `
		id, owner_id, origin, destination, departure_date, departure_time, status,
		service_type, additional_info, available_seats, has_trailer,
		has_rooftop_carrier, vehicle_info, price, created_at, updated_at`

func (r *pgDriverRepo) Create(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error) {
	q := `
		INSERT INTO driver_listings (
			owner_id, origin, destination, departure_date, departure_time, status,
			service_type, additional_info, available_seats, has_trailer,
			has_rooftop_carrier, vehicle_info, price)
		VALUES (
			@owner_id, @origin, @destination, @departure_date, @departure_time, @status,
			@service_type, @additional_info, @available_seats, @has_trailer,
			@has_rooftop_carrier, @vehicle_info, @price)
		RETURNING` + driverColumns

	args := driverArgs(d)
	args["owner_id"] = d.OwnerID
	args["origin"] = string(d.Origin)
	args["destination"] = string(d.Destination)

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DriverListing, error) {
	q := `SELECT` + driverColumns + `
		FROM driver_listings
		WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) List(ctx context.Context, f domain.ListingFilter) ([]domain.DriverListing, error) {
	q := `SELECT` + driverColumns + `
		FROM driver_listings` + listingFilterWhere + `
		ORDER BY departure_date, departure_time, created_at DESC`

	rows, err := r.db.Query(ctx, q, listingFilterArgs(f))
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: %w", err)
	}
	defer rows.Close()

	listings := []domain.DriverListing{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DriverRepo.List: scan: %w", err)
		}
		listings = append(listings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: rows: %w", err)
	}
	return listings, nil
}

// Update writes the mutable columns only; owner and route are never touched.
func (r *pgDriverRepo) Update(ctx context.Context, d domain.DriverListing) (domain.DriverListing, error) {
	q := `
		UPDATE driver_listings
		SET departure_date      = @departure_date,
		    departure_time      = @departure_time,
		    status              = @status,
		    service_type        = @service_type,
		    additional_info     = @additional_info,
		    available_seats     = @available_seats,
		    has_trailer         = @has_trailer,
		    has_rooftop_carrier = @has_rooftop_carrier,
		    vehicle_info        = @vehicle_info,
		    price               = @price,
		    updated_at          = now()
		WHERE id = @id
		RETURNING` + driverColumns

	args := driverArgs(d)
	args["id"] = d.ID

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DriverListing{}, fmt.Errorf("repo.DriverRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM driver_listings WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// driverArgs holds the named args shared by insert and update.
func driverArgs(d domain.DriverListing) pgx.NamedArgs {
	return pgx.NamedArgs{
		"departure_date":      d.DepartureDate,
		"departure_time":      d.DepartureTime,
		"status":              string(d.Status),
		"service_type":        string(d.ServiceType),
		"additional_info":     d.AdditionalInfo,
		"available_seats":     d.AvailableSeats,
		"has_trailer":         d.HasTrailer,
		"has_rooftop_carrier": d.HasRooftopCarrier,
		"vehicle_info":        d.VehicleInfo,
		"price":               d.Price,
	}
}

// scanDriver maps a single row in driverColumns order into a domain.DriverListing.
func scanDriver(s scanner) (domain.DriverListing, error) {
	var (
		d       domain.DriverListing
		id      pgtype.UUID
		depDate pgtype.Date
		depTime pgtype.Time
		origin  string
		dest    string
		status  string
		service string
	)

	err := s.Scan(
		&id, &d.OwnerID, &origin, &dest, &depDate, &depTime, &status,
		&service, &d.AdditionalInfo, &d.AvailableSeats, &d.HasTrailer,
		&d.HasRooftopCarrier, &d.VehicleInfo, &d.Price, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return domain.DriverListing{}, noRows(err)
	}

	d.ID = uuid.UUID(id.Bytes)
	d.Origin = domain.Location(origin)
	d.Destination = domain.Location(dest)
	d.DepartureDate = formatDate(depDate)
	d.DepartureTime = formatClock(depTime)
	d.Status = domain.Status(status)
	d.ServiceType = domain.ServiceType(service)
	return d, nil
}
