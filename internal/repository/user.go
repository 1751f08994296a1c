package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Get single user with the number of ratings they have given
func (r *Repository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user := &domain.User{}

	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.created_at, COUNT(rt.movie_id)
		 FROM users u
		 LEFT JOIN ratings rt ON rt.user_id = u.id
		 WHERE u.id = $1
		 GROUP BY u.id, u.created_at`,
		userID,
	).Scan(&user.ID, &user.CreatedAt, &user.RatingCount)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrUnknownUser)
		}
		return nil, fmt.Errorf("query user id=%d: %w", userID, err)
	}

	return user, nil
}

// All user ids, including users without ratings
func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect user ids: %w", err)
	}
	return ids, nil
}

// Get user ids for page
func (r *Repository) GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error) {
	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query user ids for page %d: %w", page, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

// Count total users
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users`,
	).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
