package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/actuallystonmai/cf-recommender/internal/logging"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Dataset is a generated demo catalog. Users and movies are numbered from 1,
// matching the identities Postgres assigns after RESTART IDENTITY.
type Dataset struct {
	Users   int
	Movies  []domain.Movie
	Ratings []domain.Rating
}

var genres = []string{"action", "drama", "comedy", "thriller", "sci-fi"}

var titles = map[string][]string{
	"action": {
		"Die Hard", "Mad Max: Fury Road", "John Wick", "The Dark Knight",
		"Gladiator", "Top Gun: Maverick", "The Raid", "Mission: Impossible",
		"Casino Royale", "The Avengers",
	},
	"drama": {
		"The Shawshank Redemption", "Forrest Gump", "The Godfather",
		"Schindler's List", "A Beautiful Mind", "12 Angry Men",
		"Parasite", "Moonlight", "Whiplash", "The Green Mile",
	},
	"comedy": {
		"Superbad", "The Hangover", "Bridesmaids", "Step Brothers",
		"Anchorman", "Mean Girls", "Borat", "Hot Fuzz",
		"Groundhog Day", "The Grand Budapest Hotel",
	},
	"thriller": {
		"Se7en", "Gone Girl", "Zodiac", "Prisoners",
		"Sicario", "No Country for Old Men", "Nightcrawler",
		"Shutter Island", "The Silence of the Lambs", "Oldboy",
	},
	"sci-fi": {
		"Blade Runner 2049", "Interstellar", "The Matrix", "Arrival",
		"Dune", "Ex Machina", "Alien", "Inception",
		"Edge of Tomorrow", "2001: A Space Odyssey",
	},
}

func Setup(ctx context.Context, db DB) error {
	log := logging.Component("seed")
	data := Generate(rand.New(rand.NewSource(42)), 50, 50, 20)

	// Truncate existing data before insert
	log.Info().Msg("truncating existing data")
	if _, err := db.Exec(ctx, `
		TRUNCATE ratings, movies, users RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info().Int("count", data.Users).Msg("inserting users")
	if err := insertUsers(ctx, db, data.Users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Info().Int("count", len(data.Movies)).Msg("inserting movies")
	if err := insertMovies(ctx, db, data.Movies); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	log.Info().Int("count", len(data.Ratings)).Msg("inserting ratings")
	if err := insertRatings(ctx, db, data.Ratings); err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}

	log.Info().Msg("seeding complete")
	return nil
}

// Generate builds a dataset where every user likes two genres and dislikes
// one, so neighborhoods form around shared taste. Movie popularity follows a
// power law; each user rates up to perUser distinct movies.
func Generate(rng *rand.Rand, users, movies, perUser int) Dataset {
	data := Dataset{Users: users}

	for i := range movies {
		genre := genres[i%len(genres)]
		titleList := titles[genre]
		title := titleList[(i/len(genres))%len(titleList)]
		if i >= len(genres)*len(titleList) {
			title = fmt.Sprintf("%s %d", title, i/(len(genres)*len(titleList))+1)
		}
		data.Movies = append(data.Movies, domain.Movie{
			ID:    int64(i + 1),
			Title: title,
			Genre: genre,
			Year:  1970 + rng.Intn(55),
		})
	}
	if movies == 0 {
		return data
	}

	for u := 1; u <= users; u++ {
		taste := rng.Perm(len(genres))
		liked := map[string]bool{genres[taste[0]]: true, genres[taste[1]]: true}
		disliked := genres[taste[2]]

		seen := make(map[int64]bool)
		n := perUser/2 + rng.Intn(perUser/2+1)
		for range n {
			movieID := int64(math.Ceil(math.Pow(rng.Float64(), 1.3) * float64(movies)))
			movieID = max(1, min(movieID, int64(movies)))
			if seen[movieID] {
				continue
			}
			seen[movieID] = true

			genre := data.Movies[movieID-1].Genre
			base := 3.0
			switch {
			case liked[genre]:
				base = 4.3
			case genre == disliked:
				base = 1.7
			}
			data.Ratings = append(data.Ratings, domain.Rating{
				UserID:  int64(u),
				MovieID: movieID,
				Value:   halfStep(base + rng.NormFloat64()*0.6),
			})
		}
	}
	return data
}

// halfStep rounds to the nearest 0.5 within the default rating scale.
func halfStep(v float64) float64 {
	scale := domain.DefaultScale()
	v = math.Round(v*2) / 2
	return math.Max(scale.Min, math.Min(scale.Max, v))
}

func insertUsers(ctx context.Context, db DB, n int) error {
	rows := []string{}
	args := []any{}

	for i := range n {
		createdAt := time.Now().AddDate(0, 0, -(i*7)%365)
		rows = append(rows, fmt.Sprintf("($%d)", len(args)+1))
		args = append(args, createdAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO users (created_at) VALUES " + strings.Join(rows, ", ")

	_, err := db.Exec(ctx, query, args...)
	return err
}

func insertMovies(ctx context.Context, db DB, movies []domain.Movie) error {
	rows := []string{}
	args := []any{}

	for _, m := range movies {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, m.Title, m.Genre, m.Year)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO movies (title, genre, year) VALUES " + strings.Join(rows, ", ")

	_, err := db.Exec(ctx, query, args...)
	return err
}

func insertRatings(ctx context.Context, db DB, rs []domain.Rating) error {
	rows := []string{}
	args := []any{}

	for _, r := range rs {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, r.UserID, r.MovieID, r.Value)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO ratings (user_id, movie_id, rating) VALUES " + strings.Join(rows, ", ")

	_, err := db.Exec(ctx, query, args...)
	return err
}
