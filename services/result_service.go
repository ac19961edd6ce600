package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/almasbek/fightcard/live"
	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

// FightResultInput is the admin payload for entering or replacing an official
// result. Round score ranges are enforced here, at the API boundary; the
// resolution engine itself compares whatever integers it is handed.
type FightResultInput struct {
	Winner             models.FightWinner       `json:"winner"`
	Method             models.WinMethod         `json:"method"`
	FinishRound        *int                     `json:"finish_round,omitempty"`
	FinishTime         *string                  `json:"finish_time,omitempty"`
	OfficialScorecards []OfficialScorecardInput `json:"official_scorecards"`
}

type OfficialScorecardInput struct {
	JudgeName   string                    `json:"judge_name"`
	RoundScores []OfficialRoundScoreInput `json:"round_scores"`
}

type OfficialRoundScoreInput struct {
	RoundNumber   int `json:"round_number"`
	Fighter1Score int `json:"fighter1_score"`
	Fighter2Score int `json:"fighter2_score"`
}

// ResultService is the admin entry point for official results. Create and
// Update run the resolution engine synchronously inside the same transaction
// as the result write; Delete unresolves everything the result had touched.
type ResultService interface {
	GetByFight(ctx context.Context, fightID int) (*models.FightResult, error)
	Create(ctx context.Context, fightID int, input FightResultInput) (*models.FightResult, *ResolutionSummary, error)
	Update(ctx context.Context, fightID int, input FightResultInput) (*models.FightResult, *ResolutionSummary, error)
	Delete(ctx context.Context, fightID int) error
}

type resultService struct {
	db         *sql.DB
	fightRepo  repositories.FightRepository
	eventRepo  repositories.EventRepository
	resultRepo repositories.ResultRepository
	resolution ResolutionService
	hub        *live.Hub
	logger     *slog.Logger
}

func NewResultService(
	db *sql.DB,
	fightRepo repositories.FightRepository,
	eventRepo repositories.EventRepository,
	resultRepo repositories.ResultRepository,
	resolution ResolutionService,
	hub *live.Hub,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:         db,
		fightRepo:  fightRepo,
		eventRepo:  eventRepo,
		resultRepo: resultRepo,
		resolution: resolution,
		hub:        hub,
		logger:     logger,
	}
}

func (s *resultService) GetByFight(ctx context.Context, fightID int) (*models.FightResult, error) {
	result, err := s.resultRepo.GetByFightID(ctx, s.db, fightID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *resultService) Create(ctx context.Context, fightID int, input FightResultInput) (*models.FightResult, *ResolutionSummary, error) {
	fight, err := s.loadFight(ctx, fightID)
	if err != nil {
		return nil, nil, err
	}
	if err := validateResultInput(fight, input); err != nil {
		return nil, nil, err
	}

	result := buildResult(fightID, input)

	summary, txErr := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.resultRepo.Create(ctx, tx, result); err != nil {
			if errors.Is(err, repositories.ErrResultConflict) {
				return ErrResultConflict
			}
			return err
		}
		return nil
	}, result, fight.EventID)
	if txErr != nil {
		return nil, nil, txErr
	}

	s.broadcastResolved(fight.EventID, summary)
	return result, summary, nil
}

func (s *resultService) Update(ctx context.Context, fightID int, input FightResultInput) (*models.FightResult, *ResolutionSummary, error) {
	fight, err := s.loadFight(ctx, fightID)
	if err != nil {
		return nil, nil, err
	}
	if err := validateResultInput(fight, input); err != nil {
		return nil, nil, err
	}

	existing, err := s.resultRepo.GetByFightID(ctx, s.db, fightID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, nil, ErrResultNotFound
		}
		return nil, nil, err
	}

	replacement := buildResult(fightID, input)
	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt

	// Full re-derivation, not a diff: core fields are overwritten, every
	// judge card is deleted and reinserted, and resolution runs from scratch
	// over the new official data.
	summary, txErr := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.resultRepo.UpdateCore(ctx, tx, replacement); err != nil {
			return err
		}
		return s.resultRepo.ReplaceOfficialScorecards(ctx, tx, replacement, replacement.OfficialScorecards)
	}, replacement, fight.EventID)
	if txErr != nil {
		return nil, nil, txErr
	}

	s.broadcastResolved(fight.EventID, summary)
	return replacement, summary, nil
}

func (s *resultService) Delete(ctx context.Context, fightID int) error {
	fight, err := s.loadFight(ctx, fightID)
	if err != nil {
		return err
	}

	result, err := s.resultRepo.GetByFightID(ctx, s.db, fightID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return ErrResultNotFound
		}
		return err
	}

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.resolution.Unresolve(ctx, tx, fightID); err != nil {
			return err
		}
		return s.resultRepo.Delete(ctx, tx, result.ID)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToEvent(fight.EventID, live.MessageResultRemoved, map[string]int{"fight_id": fightID})
	}
	s.logger.Info("fight result deleted and unresolved", slog.Int("fight_id", fightID))
	return nil
}

// withTx runs the write step, then resolution, then the event bookkeeping,
// all inside one transaction: either the result is stored and every
// prediction/scorecard re-derived, or nothing changed at all.
func (s *resultService) withTx(ctx context.Context, write func(tx *sql.Tx) error, result *models.FightResult, eventID int) (*ResolutionSummary, error) {
	var summary *ResolutionSummary
	err := s.runTx(ctx, func(tx *sql.Tx) error {
		if err := write(tx); err != nil {
			return err
		}
		var err error
		summary, err = s.resolution.Resolve(ctx, tx, result)
		if err != nil {
			return err
		}
		return s.refreshEventStatus(ctx, tx, eventID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fight result resolved",
		slog.Int("fight_id", summary.FightID),
		slog.Int("predictions", summary.PredictionsResolved),
		slog.Int("scorecards", summary.ScorecardsResolved),
	)
	return summary, nil
}

// runTx is the single begin/rollback/commit closure both the resolve and the
// unresolve paths go through.
func (s *resultService) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
			}
		}
	}()

	if txErr = fn(tx); txErr != nil {
		return txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return fmt.Errorf("failed to commit transaction: %w", txErr)
	}
	return nil
}

// refreshEventStatus clears the event's is_upcoming flag once every fight on
// the card has an official result.
func (s *resultService) refreshEventStatus(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	remaining, err := s.fightRepo.CountWithoutResult(ctx, exec, eventID)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	if err := s.eventRepo.SetUpcoming(ctx, exec, eventID, false); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *resultService) loadFight(ctx context.Context, fightID int) (*models.Fight, error) {
	fight, err := s.fightRepo.GetByID(ctx, fightID)
	if err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return fight, nil
}

func (s *resultService) broadcastResolved(eventID int, summary *ResolutionSummary) {
	if s.hub != nil {
		s.hub.BroadcastToEvent(eventID, live.MessageResultResolved, summary)
	}
}

func buildResult(fightID int, input FightResultInput) *models.FightResult {
	result := &models.FightResult{
		FightID:     fightID,
		Winner:      input.Winner,
		Method:      input.Method,
		FinishRound: input.FinishRound,
		FinishTime:  input.FinishTime,
	}
	result.OfficialScorecards = make([]*models.OfficialScorecard, 0, len(input.OfficialScorecards))
	for _, cardInput := range input.OfficialScorecards {
		card := &models.OfficialScorecard{JudgeName: cardInput.JudgeName}
		for _, rsInput := range cardInput.RoundScores {
			card.RoundScores = append(card.RoundScores, &models.OfficialRoundScore{
				RoundNumber:   rsInput.RoundNumber,
				Fighter1Score: rsInput.Fighter1Score,
				Fighter2Score: rsInput.Fighter2Score,
			})
		}
		result.OfficialScorecards = append(result.OfficialScorecards, card)
	}
	return result
}

func validateResultInput(fight *models.Fight, input FightResultInput) error {
	if !input.Winner.Valid() {
		return ErrInvalidWinner
	}
	if !input.Method.Valid() {
		return ErrInvalidMethod
	}
	if input.FinishRound != nil && (*input.FinishRound < 1 || *input.FinishRound > fight.RoundCount()) {
		return ErrInvalidFinishRound
	}
	for _, card := range input.OfficialScorecards {
		if card.JudgeName == "" {
			return ErrJudgeNameRequired
		}
		seen := make(map[int]bool, len(card.RoundScores))
		for _, rs := range card.RoundScores {
			if rs.RoundNumber < 1 || rs.RoundNumber > 5 || seen[rs.RoundNumber] {
				return ErrInvalidRoundNumber
			}
			seen[rs.RoundNumber] = true
			if !validRoundScore(rs.Fighter1Score) || !validRoundScore(rs.Fighter2Score) {
				return ErrInvalidRoundScore
			}
		}
	}
	return nil
}

func validRoundScore(score int) bool {
	return score >= 7 && score <= 10
}
