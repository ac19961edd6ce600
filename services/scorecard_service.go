package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

type ScorecardInput struct {
	FightID     int               `json:"fight_id"`
	RoundScores []RoundScoreInput `json:"round_scores"`
}

type RoundScoreInput struct {
	RoundNumber   int `json:"round_number"`
	Fighter1Score int `json:"fighter1_score"`
	Fighter2Score int `json:"fighter2_score"`
}

// RoundStats aggregates one round across all user scorecards of a fight.
type RoundStats struct {
	RoundNumber     int     `json:"round_number"`
	AvgFighter1     float64 `json:"avg_fighter1_score"`
	AvgFighter2     float64 `json:"avg_fighter2_score"`
	Fighter1Rounds  int     `json:"fighter1_rounds"`
	Fighter2Rounds  int     `json:"fighter2_rounds"`
	DrawRounds      int     `json:"draw_rounds"`
	ScorecardsCount int     `json:"scorecards_count"`
}

// ScorecardStats is the crowd scoring picture for a fight: per-round averages
// and round winners, plus how the totals shook out across all submitted cards.
type ScorecardStats struct {
	TotalScorecards  int          `json:"total_scorecards"`
	Rounds           []RoundStats `json:"rounds"`
	Fighter1Winners  int          `json:"fighter1_winners"`
	Fighter2Winners  int          `json:"fighter2_winners"`
	DrawCards        int          `json:"draw_cards"`
	AvgTotalFighter1 float64      `json:"avg_total_fighter1"`
	AvgTotalFighter2 float64      `json:"avg_total_fighter2"`
}

type ScorecardService interface {
	Create(ctx context.Context, userID int, input ScorecardInput) (*models.Scorecard, error)
	ListByFight(ctx context.Context, fightID int) ([]*models.Scorecard, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Scorecard, error)
	GetUserScorecardForFight(ctx context.Context, userID, fightID int) (*models.Scorecard, error)
	GetFightStats(ctx context.Context, fightID int) (*ScorecardStats, error)
}

type scorecardService struct {
	scorecardRepo repositories.ScorecardRepository
	fightRepo     repositories.FightRepository
}

func NewScorecardService(scorecardRepo repositories.ScorecardRepository, fightRepo repositories.FightRepository) ScorecardService {
	return &scorecardService{
		scorecardRepo: scorecardRepo,
		fightRepo:     fightRepo,
	}
}

func (s *scorecardService) Create(ctx context.Context, userID int, input ScorecardInput) (*models.Scorecard, error) {
	fight, err := s.fightRepo.GetByID(ctx, input.FightID)
	if err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}

	if err := validateRoundScores(fight.RoundCount(), input.RoundScores); err != nil {
		return nil, err
	}

	scorecard := &models.Scorecard{
		UserID:  userID,
		FightID: input.FightID,
	}
	for _, rs := range input.RoundScores {
		scorecard.RoundScores = append(scorecard.RoundScores, &models.RoundScore{
			RoundNumber:   rs.RoundNumber,
			Fighter1Score: rs.Fighter1Score,
			Fighter2Score: rs.Fighter2Score,
		})
	}

	if err := s.scorecardRepo.Create(ctx, scorecard); err != nil {
		if errors.Is(err, repositories.ErrScorecardConflict) {
			return nil, ErrScorecardConflict
		}
		return nil, fmt.Errorf("failed to create scorecard: %w", err)
	}
	return scorecard, nil
}

// validateRoundScores requires a score for every scheduled round, no extras,
// no duplicates. A card scored through round 2 of a fight that ended early is
// rejected; users score the full scheduled distance.
func validateRoundScores(roundCount int, scores []RoundScoreInput) error {
	if len(scores) != roundCount {
		return ErrInvalidRoundCount
	}
	seen := make(map[int]bool, len(scores))
	for _, rs := range scores {
		if rs.RoundNumber < 1 || rs.RoundNumber > roundCount || seen[rs.RoundNumber] {
			return ErrInvalidRoundNumber
		}
		seen[rs.RoundNumber] = true
		if !validRoundScore(rs.Fighter1Score) || !validRoundScore(rs.Fighter2Score) {
			return ErrInvalidRoundScore
		}
	}
	return nil
}

func (s *scorecardService) ListByFight(ctx context.Context, fightID int) ([]*models.Scorecard, error) {
	if _, err := s.fightRepo.GetByID(ctx, fightID); err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return s.scorecardRepo.ListByFight(ctx, nil, fightID)
}

func (s *scorecardService) ListByUser(ctx context.Context, userID int) ([]*models.Scorecard, error) {
	return s.scorecardRepo.ListByUser(ctx, userID)
}

func (s *scorecardService) GetUserScorecardForFight(ctx context.Context, userID, fightID int) (*models.Scorecard, error) {
	scorecard, err := s.scorecardRepo.GetByUserAndFight(ctx, userID, fightID)
	if err != nil {
		if errors.Is(err, repositories.ErrScorecardNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return scorecard, nil
}

func (s *scorecardService) GetFightStats(ctx context.Context, fightID int) (*ScorecardStats, error) {
	scorecards, err := s.ListByFight(ctx, fightID)
	if err != nil {
		return nil, err
	}

	stats := &ScorecardStats{
		TotalScorecards: len(scorecards),
		Rounds:          []RoundStats{},
	}
	if stats.TotalScorecards == 0 {
		return stats, nil
	}

	type roundAccum struct {
		sum1, sum2       int
		wins1, wins2, dr int
		count            int
	}
	byRound := make(map[int]*roundAccum)
	maxRound := 0
	totalSum1, totalSum2 := 0, 0

	for _, sc := range scorecards {
		for _, rs := range sc.RoundScores {
			acc, ok := byRound[rs.RoundNumber]
			if !ok {
				acc = &roundAccum{}
				byRound[rs.RoundNumber] = acc
				if rs.RoundNumber > maxRound {
					maxRound = rs.RoundNumber
				}
			}
			acc.sum1 += rs.Fighter1Score
			acc.sum2 += rs.Fighter2Score
			acc.count++
			switch {
			case rs.Fighter1Score > rs.Fighter2Score:
				acc.wins1++
			case rs.Fighter2Score > rs.Fighter1Score:
				acc.wins2++
			default:
				acc.dr++
			}
		}

		totalSum1 += sc.TotalFighter1()
		totalSum2 += sc.TotalFighter2()
		switch sc.Winner() {
		case models.ScorecardFighter1:
			stats.Fighter1Winners++
		case models.ScorecardFighter2:
			stats.Fighter2Winners++
		default:
			stats.DrawCards++
		}
	}

	for round := 1; round <= maxRound; round++ {
		acc, ok := byRound[round]
		if !ok {
			continue
		}
		n := float64(acc.count)
		stats.Rounds = append(stats.Rounds, RoundStats{
			RoundNumber:     round,
			AvgFighter1:     roundTo2(float64(acc.sum1) / n),
			AvgFighter2:     roundTo2(float64(acc.sum2) / n),
			Fighter1Rounds:  acc.wins1,
			Fighter2Rounds:  acc.wins2,
			DrawRounds:      acc.dr,
			ScorecardsCount: acc.count,
		})
	}

	total := float64(stats.TotalScorecards)
	stats.AvgTotalFighter1 = roundTo2(float64(totalSum1) / total)
	stats.AvgTotalFighter2 = roundTo2(float64(totalSum2) / total)
	return stats, nil
}
