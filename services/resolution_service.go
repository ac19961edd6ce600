package services

import (
	"context"
	"fmt"
	"time"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

// ResolutionSummary reports how many rows one resolution pass touched.
type ResolutionSummary struct {
	FightID             int `json:"fight_id"`
	PredictionsResolved int `json:"predictions_resolved"`
	ScorecardsResolved  int `json:"scorecards_resolved"`
}

// ResolutionService re-derives the correctness of every prediction and user
// scorecard of a fight from its official result, and reverts that state when
// the result goes away. Both methods run entirely on the caller's executor:
// the caller owns the transaction, so a failure anywhere rolls back the whole
// pass and no fight is ever left half-resolved.
//
// Resolution is a pure function of the result and the submitted data, so
// re-running it with the same inputs reproduces the same correctness flags
// (only the resolved_at timestamps advance).
type ResolutionService interface {
	Resolve(ctx context.Context, exec repositories.SQLExecutor, result *models.FightResult) (*ResolutionSummary, error)
	Unresolve(ctx context.Context, exec repositories.SQLExecutor, fightID int) error
}

type resolutionService struct {
	predictionRepo repositories.PredictionRepository
	scorecardRepo  repositories.ScorecardRepository
	resultRepo     repositories.ResultRepository
}

func NewResolutionService(
	predictionRepo repositories.PredictionRepository,
	scorecardRepo repositories.ScorecardRepository,
	resultRepo repositories.ResultRepository,
) ResolutionService {
	return &resolutionService{
		predictionRepo: predictionRepo,
		scorecardRepo:  scorecardRepo,
		resultRepo:     resultRepo,
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (s *resolutionService) Resolve(ctx context.Context, exec repositories.SQLExecutor, result *models.FightResult) (*ResolutionSummary, error) {
	predictionsResolved, err := s.resolvePredictions(ctx, exec, result.FightID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve predictions for fight %d: %w", result.FightID, err)
	}

	scorecardsResolved, err := s.resolveScorecards(ctx, exec, result.FightID, result.OfficialScorecards)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scorecards for fight %d: %w", result.FightID, err)
	}

	if err := s.resultRepo.SetResolved(ctx, exec, result.ID, true); err != nil {
		return nil, fmt.Errorf("failed to mark result %d resolved: %w", result.ID, err)
	}
	result.IsResolved = true

	return &ResolutionSummary{
		FightID:             result.FightID,
		PredictionsResolved: predictionsResolved,
		ScorecardsResolved:  scorecardsResolved,
	}, nil
}

// resolvePredictions marks every prediction of the fight correct or incorrect.
// A prediction is correct only when both the winner and the method match the
// official result. Draw and no-contest outcomes have no winner in the
// prediction space, so every prediction is marked incorrect without the
// method ever being consulted.
func (s *resolutionService) resolvePredictions(ctx context.Context, exec repositories.SQLExecutor, fightID int, result *models.FightResult) (int, error) {
	predictions, err := s.predictionRepo.ListByFight(ctx, exec, fightID)
	if err != nil {
		return 0, err
	}

	var correctWinner models.PredictedWinner
	hasWinner := false
	switch result.Winner {
	case models.WinnerFighter1:
		correctWinner, hasWinner = models.PredictedFighter1, true
	case models.WinnerFighter2:
		correctWinner, hasWinner = models.PredictedFighter2, true
	}

	for _, prediction := range predictions {
		isCorrect := hasWinner &&
			prediction.PredictedWinner == correctWinner &&
			prediction.WinMethod == result.Method
		resolvedAt := utcNow()

		if err := s.predictionRepo.UpdateResolution(ctx, exec, prediction.ID, &isCorrect, &resolvedAt); err != nil {
			return 0, err
		}
		prediction.IsCorrect = &isCorrect
		prediction.ResolvedAt = &resolvedAt
	}
	return len(predictions), nil
}

// scorePair is an ordered (fighter1, fighter2) round tally; (10,9) != (9,10).
type scorePair struct {
	fighter1 int
	fighter2 int
}

// resolveScorecards marks each round of each user scorecard correct when its
// tally matches ANY judge's tally for that round, then stores the aggregates.
// Agreement with a single judge is enough; this is deliberately not a
// majority or average rule. With no official scorecards there is nothing to
// compare against and user scorecards are left untouched.
func (s *resolutionService) resolveScorecards(ctx context.Context, exec repositories.SQLExecutor, fightID int, officialCards []*models.OfficialScorecard) (int, error) {
	if len(officialCards) == 0 {
		return 0, nil
	}

	scorecards, err := s.scorecardRepo.ListByFight(ctx, exec, fightID)
	if err != nil {
		return 0, err
	}

	// Round number -> every judge's tally for that round. Duplicates stay:
	// membership is the test, not frequency.
	officialByRound := make(map[int][]scorePair)
	for _, card := range officialCards {
		for _, rs := range card.RoundScores {
			officialByRound[rs.RoundNumber] = append(officialByRound[rs.RoundNumber], scorePair{rs.Fighter1Score, rs.Fighter2Score})
		}
	}

	for _, scorecard := range scorecards {
		correctRounds := 0

		for _, rs := range scorecard.RoundScores {
			userPair := scorePair{rs.Fighter1Score, rs.Fighter2Score}
			isCorrect := false
			for _, official := range officialByRound[rs.RoundNumber] {
				if official == userPair {
					isCorrect = true
					break
				}
			}

			if err := s.scorecardRepo.UpdateRoundCorrect(ctx, exec, rs.ID, &isCorrect); err != nil {
				return 0, err
			}
			rs.IsCorrect = &isCorrect
			if isCorrect {
				correctRounds++
			}
		}

		resolvedAt := utcNow()
		totalRounds := len(scorecard.RoundScores)
		if err := s.scorecardRepo.UpdateResolution(ctx, exec, scorecard.ID, correctRounds, totalRounds, &resolvedAt); err != nil {
			return 0, err
		}
		scorecard.CorrectRounds = correctRounds
		scorecard.TotalRounds = totalRounds
		scorecard.ResolvedAt = &resolvedAt
	}
	return len(scorecards), nil
}

// Unresolve restores the exact never-resolved state for every prediction and
// scorecard of the fight, so a later resolve starts from a clean slate.
func (s *resolutionService) Unresolve(ctx context.Context, exec repositories.SQLExecutor, fightID int) error {
	predictions, err := s.predictionRepo.ListByFight(ctx, exec, fightID)
	if err != nil {
		return fmt.Errorf("failed to list predictions for fight %d: %w", fightID, err)
	}
	for _, prediction := range predictions {
		if err := s.predictionRepo.UpdateResolution(ctx, exec, prediction.ID, nil, nil); err != nil {
			return err
		}
		prediction.IsCorrect = nil
		prediction.ResolvedAt = nil
	}

	scorecards, err := s.scorecardRepo.ListByFight(ctx, exec, fightID)
	if err != nil {
		return fmt.Errorf("failed to list scorecards for fight %d: %w", fightID, err)
	}
	for _, scorecard := range scorecards {
		for _, rs := range scorecard.RoundScores {
			if err := s.scorecardRepo.UpdateRoundCorrect(ctx, exec, rs.ID, nil); err != nil {
				return err
			}
			rs.IsCorrect = nil
		}
		if err := s.scorecardRepo.UpdateResolution(ctx, exec, scorecard.ID, 0, 0, nil); err != nil {
			return err
		}
		scorecard.CorrectRounds = 0
		scorecard.TotalRounds = 0
		scorecard.ResolvedAt = nil
	}
	return nil
}
