package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

func (r *Repository) ListRatings(ctx context.Context) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, movie_id, rating FROM ratings ORDER BY user_id, movie_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var out []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.UserID, &rt.MovieID, &rt.Value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over ratings: %w", err)
	}
	return out, nil
}

// Insert or replace a user's rating for a movie
func (r *Repository) UpsertRating(ctx context.Context, rt domain.Rating) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, rated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, movie_id)
		 DO UPDATE SET rating = EXCLUDED.rating, rated_at = EXCLUDED.rated_at`,
		rt.UserID, rt.MovieID, rt.Value,
	)
	if err != nil {
		return fmt.Errorf("upsert rating user=%d movie=%d: %w", rt.UserID, rt.MovieID, mapConstraintError(err))
	}
	return nil
}
