package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

type EventService interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	// GetDetail loads the event together with its fight card, fighters and any
	// official results already entered.
	GetDetail(ctx context.Context, idOrSlug string) (*models.Event, error)
	List(ctx context.Context, upcoming *bool, organization *string, limit, offset int) ([]*models.Event, error)
	ListOrganizations(ctx context.Context) ([]*repositories.EventOrganization, error)
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, id int) error
}

type eventService struct {
	eventRepo   repositories.EventRepository
	fightRepo   repositories.FightRepository
	fighterRepo repositories.FighterRepository
	resultRepo  repositories.ResultRepository
}

func NewEventService(
	eventRepo repositories.EventRepository,
	fightRepo repositories.FightRepository,
	fighterRepo repositories.FighterRepository,
	resultRepo repositories.ResultRepository,
) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		fightRepo:   fightRepo,
		fighterRepo: fighterRepo,
		resultRepo:  resultRepo,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds a URL-safe identifier from an event name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *eventService) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidationFailed)
	}
	if event.Slug == "" {
		event.Slug = Slugify(event.Name)
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventSlugConflict) {
			return nil, ErrEventSlugConflict
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// GetDetail accepts either a numeric id or a slug; slugs never start with a
// digit, so the two namespaces cannot collide.
func (s *eventService) GetDetail(ctx context.Context, idOrSlug string) (*models.Event, error) {
	var event *models.Event
	var err error
	if id, convErr := parseID(idOrSlug); convErr == nil {
		event, err = s.eventRepo.GetByID(ctx, id)
	} else {
		event, err = s.eventRepo.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	fights, err := s.fightRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	for _, fight := range fights {
		if err := s.populateFight(ctx, fight); err != nil {
			return nil, err
		}
	}
	event.Fights = fights
	return event, nil
}

func (s *eventService) populateFight(ctx context.Context, fight *models.Fight) error {
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

func (s *eventService) List(ctx context.Context, upcoming *bool, organization *string, limit, offset int) ([]*models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.List(ctx, upcoming, organization, limit, offset)
}

func (s *eventService) ListOrganizations(ctx context.Context) ([]*repositories.EventOrganization, error) {
	return s.eventRepo.ListOrganizations(ctx)
}

func (s *eventService) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidationFailed)
	}
	if event.Slug == "" {
		event.Slug = Slugify(event.Name)
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrEventSlugConflict):
			return nil, ErrEventSlugConflict
		}
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, event.ID)
}

func (s *eventService) Delete(ctx context.Context, id int) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not a numeric id: %q", raw)
	}
	return id, nil
}
