package domain

import "time"

type User struct {
	ID          int64     `json:"id"`
	RatingCount int       `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
}
