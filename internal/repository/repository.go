package repository

import (
	"errors"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const foreignKeyViolation = "23503"

// mapConstraintError turns rating foreign-key violations into domain errors.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "ratings_user_id_fkey":
		return domain.ErrUnknownUser
	case "ratings_movie_id_fkey":
		return domain.ErrUnknownItem
	}
	return err
}
