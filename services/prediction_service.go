package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

type PredictionInput struct {
	FightID         int                    `json:"fight_id"`
	PredictedWinner models.PredictedWinner `json:"predicted_winner"`
	WinMethod       models.WinMethod       `json:"win_method"`
	Confidence      *int                   `json:"confidence,omitempty"`
}

// PredictionMethodSplit is the fighter1/fighter2 pick count for one method.
type PredictionMethodSplit struct {
	Fighter1 int `json:"fighter1"`
	Fighter2 int `json:"fighter2"`
}

// PredictionStats is the crowd-wisdom aggregation over a fight's predictions.
// It is computed from the raw picks alone; correctness flags play no part.
type PredictionStats struct {
	TotalPredictions   int                                        `json:"total_predictions"`
	Fighter1Picks      int                                        `json:"fighter1_picks"`
	Fighter2Picks      int                                        `json:"fighter2_picks"`
	Fighter1Percentage float64                                    `json:"fighter1_percentage"`
	Fighter2Percentage float64                                    `json:"fighter2_percentage"`
	Methods            map[models.WinMethod]PredictionMethodSplit `json:"methods"`
}

type PredictionService interface {
	Create(ctx context.Context, userID int, input PredictionInput) (*models.Prediction, error)
	ListByFight(ctx context.Context, fightID int) ([]*models.Prediction, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Prediction, error)
	GetUserPredictionForFight(ctx context.Context, userID, fightID int) (*models.Prediction, error)
	GetFightStats(ctx context.Context, fightID int) (*PredictionStats, error)
}

type predictionService struct {
	predictionRepo repositories.PredictionRepository
	fightRepo      repositories.FightRepository
}

func NewPredictionService(predictionRepo repositories.PredictionRepository, fightRepo repositories.FightRepository) PredictionService {
	return &predictionService{
		predictionRepo: predictionRepo,
		fightRepo:      fightRepo,
	}
}

func (s *predictionService) Create(ctx context.Context, userID int, input PredictionInput) (*models.Prediction, error) {
	if !input.PredictedWinner.Valid() {
		return nil, ErrInvalidWinner
	}
	if !input.WinMethod.Valid() {
		return nil, ErrInvalidMethod
	}
	if input.Confidence != nil && (*input.Confidence < 1 || *input.Confidence > 5) {
		return nil, ErrInvalidConfidence
	}

	if _, err := s.fightRepo.GetByID(ctx, input.FightID); err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}

	prediction := &models.Prediction{
		UserID:          userID,
		FightID:         input.FightID,
		PredictedWinner: input.PredictedWinner,
		WinMethod:       input.WinMethod,
		Confidence:      input.Confidence,
	}
	if err := s.predictionRepo.Create(ctx, prediction); err != nil {
		if errors.Is(err, repositories.ErrPredictionConflict) {
			return nil, ErrPredictionConflict
		}
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}
	return prediction, nil
}

func (s *predictionService) ListByFight(ctx context.Context, fightID int) ([]*models.Prediction, error) {
	if _, err := s.fightRepo.GetByID(ctx, fightID); err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return s.predictionRepo.ListByFight(ctx, nil, fightID)
}

func (s *predictionService) ListByUser(ctx context.Context, userID int) ([]*models.Prediction, error) {
	return s.predictionRepo.ListByUser(ctx, userID)
}

func (s *predictionService) GetUserPredictionForFight(ctx context.Context, userID, fightID int) (*models.Prediction, error) {
	prediction, err := s.predictionRepo.GetByUserAndFight(ctx, userID, fightID)
	if err != nil {
		if errors.Is(err, repositories.ErrPredictionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prediction, nil
}

func (s *predictionService) GetFightStats(ctx context.Context, fightID int) (*PredictionStats, error) {
	predictions, err := s.ListByFight(ctx, fightID)
	if err != nil {
		return nil, err
	}

	stats := &PredictionStats{
		Methods: make(map[models.WinMethod]PredictionMethodSplit),
	}
	stats.TotalPredictions = len(predictions)
	if stats.TotalPredictions == 0 {
		return stats, nil
	}

	for _, p := range predictions {
		split := stats.Methods[p.WinMethod]
		if p.PredictedWinner == models.PredictedFighter1 {
			stats.Fighter1Picks++
			split.Fighter1++
		} else {
			stats.Fighter2Picks++
			split.Fighter2++
		}
		stats.Methods[p.WinMethod] = split
	}

	total := float64(stats.TotalPredictions)
	stats.Fighter1Percentage = roundTo1(float64(stats.Fighter1Picks) / total * 100)
	stats.Fighter2Percentage = roundTo1(float64(stats.Fighter2Picks) / total * 100)
	return stats, nil
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
