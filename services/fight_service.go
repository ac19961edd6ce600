package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

// FightSummary bundles a fight with its crowd aggregates for the detail page.
type FightSummary struct {
	Fight           *models.Fight    `json:"fight"`
	PredictionStats *PredictionStats `json:"prediction_stats"`
	ScorecardStats  *ScorecardStats  `json:"scorecard_stats"`
}

type FightService interface {
	Create(ctx context.Context, fight *models.Fight) (*models.Fight, error)
	GetByID(ctx context.Context, id int) (*models.Fight, error)
	// GetSummary loads the fight, its fighters and result, plus the prediction
	// and scorecard aggregates.
	GetSummary(ctx context.Context, id int) (*FightSummary, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Fight, error)
	Update(ctx context.Context, fight *models.Fight) (*models.Fight, error)
	Delete(ctx context.Context, id int) error
}

type fightService struct {
	fightRepo   repositories.FightRepository
	eventRepo   repositories.EventRepository
	fighterRepo repositories.FighterRepository
	resultRepo  repositories.ResultRepository
	predictions PredictionService
	scorecards  ScorecardService
}

func NewFightService(
	fightRepo repositories.FightRepository,
	eventRepo repositories.EventRepository,
	fighterRepo repositories.FighterRepository,
	resultRepo repositories.ResultRepository,
	predictions PredictionService,
	scorecards ScorecardService,
) FightService {
	return &fightService{
		fightRepo:   fightRepo,
		eventRepo:   eventRepo,
		fighterRepo: fighterRepo,
		resultRepo:  resultRepo,
		predictions: predictions,
		scorecards:  scorecards,
	}
}

func (s *fightService) Create(ctx context.Context, fight *models.Fight) (*models.Fight, error) {
	if err := s.validateFight(ctx, fight); err != nil {
		return nil, err
	}
	if err := s.fightRepo.Create(ctx, fight); err != nil {
		return nil, s.mapFightRepoError(err)
	}
	return fight, nil
}

func (s *fightService) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	fight, err := s.fightRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return fight, nil
}

// GetSummary fans the two aggregate queries out concurrently; they are
// independent reads against different tables.
func (s *fightService) GetSummary(ctx context.Context, id int) (*FightSummary, error) {
	fight, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachParticipants(ctx, fight); err != nil {
		return nil, err
	}

	summary := &FightSummary{Fight: fight}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.predictions.GetFightStats(gctx, id)
		if err != nil {
			return fmt.Errorf("prediction stats: %w", err)
		}
		summary.PredictionStats = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.scorecards.GetFightStats(gctx, id)
		if err != nil {
			return fmt.Errorf("scorecard stats: %w", err)
		}
		summary.ScorecardStats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *fightService) attachParticipants(ctx context.Context, fight *models.Fight) error {
	if fight.Fighter1ID != nil {
		fighter, err := s.fighterRepo.GetByID(ctx, *fight.Fighter1ID)
		if err != nil && !errors.Is(err, repositories.ErrFighterNotFound) {
			return err
		}
		fight.Fighter1 = fighter
	}
	if fight.Fighter2ID != nil {
		fighter, err := s.fighterRepo.GetByID(ctx, *fight.Fighter2ID)
		if err != nil && !errors.Is(err, repositories.ErrFighterNotFound) {
			return err
		}
		fight.Fighter2 = fighter
	}

	result, err := s.resultRepo.GetByFightID(ctx, nil, fight.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil
		}
		return err
	}
	fight.Result = result
	return nil
}

func (s *fightService) ListByEvent(ctx context.Context, eventID int) ([]*models.Fight, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.fightRepo.ListByEvent(ctx, eventID)
}

func (s *fightService) Update(ctx context.Context, fight *models.Fight) (*models.Fight, error) {
	if err := s.validateFight(ctx, fight); err != nil {
		return nil, err
	}
	if err := s.fightRepo.Update(ctx, fight); err != nil {
		return nil, s.mapFightRepoError(err)
	}
	return s.fightRepo.GetByID(ctx, fight.ID)
}

func (s *fightService) Delete(ctx context.Context, id int) error {
	if err := s.fightRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return ErrFightNotFound
		}
		return err
	}
	return nil
}

func (s *fightService) validateFight(ctx context.Context, fight *models.Fight) error {
	if fight.CardType != models.CardTypeMain && fight.CardType != models.CardTypePrelim {
		return fmt.Errorf("%w: card_type must be main or prelim", ErrValidationFailed)
	}
	if fight.Rounds != nil && (*fight.Rounds < 1 || *fight.Rounds > 5) {
		return fmt.Errorf("%w: rounds must be between 1 and 5", ErrValidationFailed)
	}
	if _, err := s.eventRepo.GetByID(ctx, fight.EventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (s *fightService) mapFightRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrFightNotFound):
		return ErrFightNotFound
	case errors.Is(err, repositories.ErrFightEventInvalid):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrFightFighterInvalid):
		return ErrFighterNotFound
	}
	return err
}
