package domain

type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Genre string `json:"genre"`
	Year  int    `json:"year"`
}

// UnknownGenre is used for movies that have ratings but no metadata.
const UnknownGenre = "unknown"
