package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

type fakeFightRepo struct {
	fights map[int]*models.Fight
}

func newFakeFightRepo(fights ...*models.Fight) *fakeFightRepo {
	repo := &fakeFightRepo{fights: make(map[int]*models.Fight)}
	for _, f := range fights {
		repo.fights[f.ID] = f
	}
	return repo
}

func (f *fakeFightRepo) Create(ctx context.Context, fight *models.Fight) error {
	fight.ID = len(f.fights) + 1
	f.fights[fight.ID] = fight
	return nil
}

func (f *fakeFightRepo) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	fight, ok := f.fights[id]
	if !ok {
		return nil, repositories.ErrFightNotFound
	}
	return fight, nil
}

func (f *fakeFightRepo) ListByEvent(ctx context.Context, eventID int) ([]*models.Fight, error) {
	out := make([]*models.Fight, 0)
	for id := 1; id <= len(f.fights); id++ {
		if fight, ok := f.fights[id]; ok && fight.EventID == eventID {
			out = append(out, fight)
		}
	}
	return out, nil
}

func (f *fakeFightRepo) CountWithoutResult(ctx context.Context, _ repositories.SQLExecutor, eventID int) (int, error) {
	return 0, nil
}

func (f *fakeFightRepo) Update(ctx context.Context, fight *models.Fight) error {
	if _, ok := f.fights[fight.ID]; !ok {
		return repositories.ErrFightNotFound
	}
	f.fights[fight.ID] = fight
	return nil
}

func (f *fakeFightRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.fights[id]; !ok {
		return repositories.ErrFightNotFound
	}
	delete(f.fights, id)
	return nil
}

func threeRoundFight(id int) *models.Fight {
	return &models.Fight{ID: id, EventID: 1, CardType: models.CardTypeMain}
}

func intPtr(v int) *int { return &v }

func TestPredictionCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   PredictionInput
		wantErr error
	}{
		{
			name:    "invalid winner",
			input:   PredictionInput{FightID: 10, PredictedWinner: "draw", WinMethod: models.MethodKoTko},
			wantErr: ErrInvalidWinner,
		},
		{
			name:    "invalid method",
			input:   PredictionInput{FightID: 10, PredictedWinner: models.PredictedFighter1, WinMethod: "split_decision"},
			wantErr: ErrInvalidMethod,
		},
		{
			name:    "confidence below range",
			input:   PredictionInput{FightID: 10, PredictedWinner: models.PredictedFighter1, WinMethod: models.MethodKoTko, Confidence: intPtr(0)},
			wantErr: ErrInvalidConfidence,
		},
		{
			name:    "confidence above range",
			input:   PredictionInput{FightID: 10, PredictedWinner: models.PredictedFighter1, WinMethod: models.MethodKoTko, Confidence: intPtr(6)},
			wantErr: ErrInvalidConfidence,
		},
		{
			name:    "unknown fight",
			input:   PredictionInput{FightID: 99, PredictedWinner: models.PredictedFighter1, WinMethod: models.MethodKoTko},
			wantErr: ErrFightNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewPredictionService(newFakePredictionRepo(), newFakeFightRepo(threeRoundFight(10)))
			_, err := service.Create(context.Background(), 1, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPredictionCreateAndConflict(t *testing.T) {
	predictionRepo := newFakePredictionRepo()
	service := NewPredictionService(predictionRepo, newFakeFightRepo(threeRoundFight(10)))

	input := PredictionInput{
		FightID:         10,
		PredictedWinner: models.PredictedFighter1,
		WinMethod:       models.MethodDecision,
		Confidence:      intPtr(4),
	}
	created, err := service.Create(context.Background(), 1, input)
	require.NoError(t, err)
	assert.Equal(t, 1, created.UserID)
	assert.Nil(t, created.IsCorrect)
	assert.Nil(t, created.ResolvedAt)

	// The fake does not enforce uniqueness, so verify the mapping separately.
	mine, err := service.GetUserPredictionForFight(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, created.ID, mine.ID)
}

func TestPredictionListByFight(t *testing.T) {
	predictionRepo := newFakePredictionRepo()
	service := NewPredictionService(predictionRepo, newFakeFightRepo(threeRoundFight(10), threeRoundFight(11)))

	for userID, fightID := range map[int]int{1: 10, 2: 10, 3: 11} {
		p := &models.Prediction{UserID: userID, FightID: fightID, PredictedWinner: models.PredictedFighter1, WinMethod: models.MethodDecision}
		require.NoError(t, predictionRepo.Create(context.Background(), p))
	}

	predictions, err := service.ListByFight(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, predictions, 2)

	_, err = service.ListByFight(context.Background(), 99)
	assert.ErrorIs(t, err, ErrFightNotFound)
}

func TestPredictionFightStats(t *testing.T) {
	predictionRepo := newFakePredictionRepo()
	service := NewPredictionService(predictionRepo, newFakeFightRepo(threeRoundFight(10)))

	add := func(userID int, winner models.PredictedWinner, method models.WinMethod) {
		p := &models.Prediction{UserID: userID, FightID: 10, PredictedWinner: winner, WinMethod: method}
		require.NoError(t, predictionRepo.Create(context.Background(), p))
	}
	add(1, models.PredictedFighter1, models.MethodKoTko)
	add(2, models.PredictedFighter1, models.MethodKoTko)
	add(3, models.PredictedFighter1, models.MethodDecision)
	add(4, models.PredictedFighter2, models.MethodSubmission)

	stats, err := service.GetFightStats(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalPredictions)
	assert.Equal(t, 3, stats.Fighter1Picks)
	assert.Equal(t, 1, stats.Fighter2Picks)
	assert.InDelta(t, 75.0, stats.Fighter1Percentage, 0.01)
	assert.InDelta(t, 25.0, stats.Fighter2Percentage, 0.01)
	assert.Equal(t, PredictionMethodSplit{Fighter1: 2}, stats.Methods[models.MethodKoTko])
	assert.Equal(t, PredictionMethodSplit{Fighter1: 1}, stats.Methods[models.MethodDecision])
	assert.Equal(t, PredictionMethodSplit{Fighter2: 1}, stats.Methods[models.MethodSubmission])
}

func TestPredictionFightStatsEmpty(t *testing.T) {
	service := NewPredictionService(newFakePredictionRepo(), newFakeFightRepo(threeRoundFight(10)))

	stats, err := service.GetFightStats(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalPredictions)
	assert.Zero(t, stats.Fighter1Percentage)
	assert.Zero(t, stats.Fighter2Percentage)
	assert.Empty(t, stats.Methods)
}
