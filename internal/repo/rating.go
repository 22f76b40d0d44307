package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// RatingRepo defines persistence for the append-only rating ledger.
type RatingRepo interface {
	// Create inserts a rating. Returns domain.ErrDuplicate when the rater has
	// already rated the interaction.
	Create(ctx context.Context, r domain.Rating) (domain.Rating, error)

	// Exists reports whether raterID has already rated interactionID.
	Exists(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error)

	// Aggregate returns the score sum and count of every rating userID received.
	Aggregate(ctx context.Context, userID string) (sum, count int64, err error)

	// ListByRated returns one page of ratings userID received, newest first,
	// plus the total number of ratings.
	ListByRated(ctx context.Context, userID string, p domain.Page) ([]domain.Rating, int64, error)
}

type pgRatingRepo struct {
	db db
}

// NewRatingRepo constructs a RatingRepo backed by the provided db connection.
func NewRatingRepo(db db) RatingRepo {
	return &pgRatingRepo{db: db}
}

const ratingColumns = `
		id, rater_user_id, rated_user_id, interaction_id, interaction_kind,
		score, comment, created_at`

func (r *pgRatingRepo) Create(ctx context.Context, rt domain.Rating) (domain.Rating, error) {
	q := `
		INSERT INTO ratings (
			rater_user_id, rated_user_id, interaction_id, interaction_kind, score, comment)
		VALUES (
			@rater_user_id, @rated_user_id, @interaction_id, @interaction_kind, @score, @comment)
		RETURNING` + ratingColumns

	args := pgx.NamedArgs{
		"rater_user_id":    rt.RaterUserID,
		"rated_user_id":    rt.RatedUserID,
		"interaction_id":   rt.InteractionID,
		"interaction_kind": string(rt.InteractionKind),
		"score":            rt.Score,
		"comment":          rt.Comment,
	}

	result, err := scanRating(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Rating{}, fmt.Errorf("repo.RatingRepo.Create: %w", domain.ErrDuplicate)
		}
		return domain.Rating{}, fmt.Errorf("repo.RatingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRatingRepo) Exists(ctx context.Context, raterID string, interactionID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM ratings
			WHERE rater_user_id = @rater_user_id AND interaction_id = @interaction_id
		)`

	var exists bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"rater_user_id":  raterID,
		"interaction_id": interactionID,
	}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repo.RatingRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgRatingRepo) Aggregate(ctx context.Context, userID string) (int64, int64, error) {
	const q = `
		SELECT COALESCE(SUM(score), 0)::bigint, COUNT(*)
		FROM ratings
		WHERE rated_user_id = @rated_user_id`

	var sum, count int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"rated_user_id": userID}).Scan(&sum, &count); err != nil {
		return 0, 0, fmt.Errorf("repo.RatingRepo.Aggregate: %w", err)
	}
	return sum, count, nil
}

func (r *pgRatingRepo) ListByRated(ctx context.Context, userID string, p domain.Page) ([]domain.Rating, int64, error) {
	const countQ = `SELECT COUNT(*) FROM ratings WHERE rated_user_id = @rated_user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"rated_user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RatingRepo.ListByRated: count: %w", err)
	}

	q := `SELECT` + ratingColumns + `
		FROM ratings
		WHERE rated_user_id = @rated_user_id
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"rated_user_id": userID,
		"limit":         p.Size,
		"offset":        p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RatingRepo.ListByRated: %w", err)
	}
	defer rows.Close()

	ratings := []domain.Rating{}
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.RatingRepo.ListByRated: scan: %w", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.RatingRepo.ListByRated: rows: %w", err)
	}
	return ratings, total, nil
}

func scanRating(s scanner) (domain.Rating, error) {
	var (
		rt            domain.Rating
		id            pgtype.UUID
		interactionID pgtype.UUID
		kind          string
	)
	err := s.Scan(
		&id, &rt.RaterUserID, &rt.RatedUserID, &interactionID, &kind,
		&rt.Score, &rt.Comment, &rt.CreatedAt,
	)
	if err != nil {
		return domain.Rating{}, noRows(err)
	}
	rt.ID = uuid.UUID(id.Bytes)
	rt.InteractionID = uuid.UUID(interactionID.Bytes)
	rt.InteractionKind = domain.ListingKind(kind)
	return rt, nil
}
