package ratings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
)

var titleYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// ParseRatingsCSV reads MovieLens-style rows: userId,movieId,rating[,timestamp].
// The first row is a header. Any malformed row fails the whole parse.
func ParseRatingsCSV(r io.Reader) ([]domain.Rating, error) {
	var out []domain.Rating
	err := readRows(r, 3, func(line int, rec []string) error {
		uid, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: user id %q: %w", line, rec[0], err)
		}
		mid, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: movie id %q: %w", line, rec[1], err)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return fmt.Errorf("line %d: rating %q: %w", line, rec[2], err)
		}
		out = append(out, domain.Rating{UserID: uid, MovieID: mid, Value: val})
		return nil
	})
	return out, err
}

// ParseMoviesCSV reads movieId,title,genres[,year]. Only the first of the
// pipe-separated genres is kept. Without a year column the year is taken
// from a trailing "(YYYY)" in the title, if any.
func ParseMoviesCSV(r io.Reader) ([]domain.Movie, error) {
	var out []domain.Movie
	err := readRows(r, 3, func(line int, rec []string) error {
		id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: movie id %q: %w", line, rec[0], err)
		}
		m := domain.Movie{
			ID:    id,
			Title: strings.TrimSpace(rec[1]),
			Genre: strings.TrimSpace(strings.Split(rec[2], "|")[0]),
		}
		switch {
		case len(rec) > 3 && strings.TrimSpace(rec[3]) != "":
			y, err := strconv.Atoi(strings.TrimSpace(rec[3]))
			if err != nil {
				return fmt.Errorf("line %d: year %q: %w", line, rec[3], err)
			}
			m.Year = y
		default:
			if match := titleYear.FindStringSubmatch(m.Title); match != nil {
				m.Year, _ = strconv.Atoi(match[1])
			}
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func readRows(r io.Reader, minFields int, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}

	line := 1
	for {
		rec, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < minFields {
			return fmt.Errorf("line %d: expected at least %d fields, got %d", line, minFields, len(rec))
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}
