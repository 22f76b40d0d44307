package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// ProfileRepo reads and writes the public profile of a user.
type ProfileRepo interface {
	// GetByUserID returns the profile for userID, or domain.ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)

	// Upsert creates the profile or replaces its mutable fields.
	Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}

type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

const profileColumns = `
		user_id, full_name, phone, user_type, created_at, updated_at`

func (r *pgProfileRepo) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	q := `SELECT` + profileColumns + `
		FROM profiles
		WHERE user_id = @user_id`

	p, err := scanProfile(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.GetByUserID: %w", err)
	}
	return p, nil
}

func (r *pgProfileRepo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	q := `
		INSERT INTO profiles (user_id, full_name, phone, user_type)
		VALUES (@user_id, @full_name, @phone, @user_type)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name  = EXCLUDED.full_name,
		    phone      = EXCLUDED.phone,
		    user_type  = EXCLUDED.user_type,
		    updated_at = now()
		RETURNING` + profileColumns

	result, err := scanProfile(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":   p.UserID,
		"full_name": p.FullName,
		"phone":     p.Phone,
		"user_type": p.UserType,
	}))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ProfileRepo.Count: %w", err)
	}
	return n, nil
}

func scanProfile(s scanner) (domain.Profile, error) {
	var p domain.Profile
	if err := s.Scan(&p.UserID, &p.FullName, &p.Phone, &p.UserType, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Profile{}, noRows(err)
	}
	return p, nil
}
