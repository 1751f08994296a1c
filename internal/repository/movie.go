package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

func (r *Repository) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, genre, COALESCE(year, 0) FROM movies ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Year); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over movies: %w", err)
	}
	return movies, nil
}
