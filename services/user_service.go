package services

import (
	"context"
	"errors"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

// UserStats is a user's track record across every resolved fight.
type UserStats struct {
	TotalPredictions    int     `json:"total_predictions"`
	ResolvedPredictions int     `json:"resolved_predictions"`
	CorrectPredictions  int     `json:"correct_predictions"`
	PredictionAccuracy  float64 `json:"prediction_accuracy"`

	TotalScorecards    int     `json:"total_scorecards"`
	ResolvedScorecards int     `json:"resolved_scorecards"`
	CorrectRounds      int     `json:"correct_rounds"`
	ScoredRounds       int     `json:"scored_rounds"`
	RoundAccuracy      float64 `json:"round_accuracy"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetStats(ctx context.Context, userID int) (*UserStats, error)
}

type userService struct {
	userRepo       repositories.UserRepository
	predictionRepo repositories.PredictionRepository
	scorecardRepo  repositories.ScorecardRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	predictionRepo repositories.PredictionRepository,
	scorecardRepo repositories.ScorecardRepository,
) UserService {
	return &userService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		scorecardRepo:  scorecardRepo,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetStats aggregates only resolved submissions into the accuracy figures;
// pending picks count toward the totals but not the percentages.
func (s *userService) GetStats(ctx context.Context, userID int) (*UserStats, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	stats := &UserStats{}

	predictions, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalPredictions = len(predictions)
	for _, p := range predictions {
		if p.IsCorrect == nil {
			continue
		}
		stats.ResolvedPredictions++
		if *p.IsCorrect {
			stats.CorrectPredictions++
		}
	}
	if stats.ResolvedPredictions > 0 {
		stats.PredictionAccuracy = roundTo1(float64(stats.CorrectPredictions) / float64(stats.ResolvedPredictions) * 100)
	}

	scorecards, err := s.scorecardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalScorecards = len(scorecards)
	for _, sc := range scorecards {
		if sc.ResolvedAt == nil {
			continue
		}
		stats.ResolvedScorecards++
		stats.CorrectRounds += sc.CorrectRounds
		stats.ScoredRounds += sc.TotalRounds
	}
	if stats.ScoredRounds > 0 {
		stats.RoundAccuracy = roundTo1(float64(stats.CorrectRounds) / float64(stats.ScoredRounds) * 100)
	}
	return stats, nil
}
