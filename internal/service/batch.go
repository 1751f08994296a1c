package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"golang.org/x/sync/errgroup"
)

// GetBatchRecommendations computes default-parameter lists for one page of
// users with at most BatchConcurrency users in flight. Per-user failures are
// reported in the results; once ctx is done, users not yet started fail with
// request_timeout instead of running.
func (s *Service) GetBatchRecommendations(ctx context.Context, page, limit int) (*domain.BatchResponse, error) {
	start := time.Now()

	userIDs, err := s.repo.GetUserIDsPaginated(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch user ids for page %d: %w", page, err)
	}
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	results := make([]domain.BatchUserResult, len(userIDs))
	var g errgroup.Group
	g.SetLimit(s.opts.BatchConcurrency)
	for i, userID := range userIDs {
		g.Go(func() error {
			results[i] = s.recommendForBatch(ctx, userID)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	summary := domain.BatchSummary{ProcessingTimeMs: time.Since(start).Milliseconds()}
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			summary.SuccessCount++
		} else {
			summary.FailedCount++
		}
	}

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary:    summary,
		Metadata:   domain.BatchMeta{GeneratedAt: time.Now().UTC().Format(time.RFC3339)},
	}, nil
}

func (s *Service) recommendForBatch(ctx context.Context, userID int64) domain.BatchUserResult {
	res := domain.BatchUserResult{UserID: userID, Status: domain.StatusFailed}

	err := ctx.Err()
	if err == nil {
		var rec *domain.RecommendationResult
		if rec, err = s.GetRecommendations(ctx, userID, Query{}); err == nil {
			res.Status = domain.StatusSuccess
			res.Recommendations = rec.Recommendations
			return res
		}
	}

	s.log.Error().Err(err).Int64("user_id", userID).Msg("batch: recommendation failed")
	res.Error, res.Message = categorizeError(err)
	return res
}

func categorizeError(err error) (code, message string) {
	switch {
	case errors.Is(err, domain.ErrUnknownUser):
		return "user_not_found", "user not found in the rating snapshot"
	case errors.Is(err, ErrNotReady):
		return "not_ready", "rating snapshot not loaded yet"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request_timeout", "batch deadline reached before this user was processed"
	case domain.IsConfigError(err):
		return "invalid_parameter", err.Error()
	}
	return "internal_error", "an unexpected error occurred"
}
