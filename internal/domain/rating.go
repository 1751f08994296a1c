package domain

type Rating struct {
	UserID  int64   `json:"user_id"`
	MovieID int64   `json:"movie_id"`
	Value   float64 `json:"rating"`
}

// RatingScale bounds every rating value, inclusive on both ends.
type RatingScale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func DefaultScale() RatingScale {
	return RatingScale{Min: 0.5, Max: 5.0}
}

func (s RatingScale) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Profile maps movieID -> rating for a single user.
type Profile map[int64]float64
