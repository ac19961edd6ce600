package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
)

// In-memory repositories. The resolution engine runs on whatever executor the
// caller passes, so the fakes simply ignore it.

type fakePredictionRepo struct {
	predictions map[int]*models.Prediction
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{predictions: make(map[int]*models.Prediction)}
}

func (f *fakePredictionRepo) Create(ctx context.Context, p *models.Prediction) error {
	p.ID = len(f.predictions) + 1
	f.predictions[p.ID] = p
	return nil
}

func (f *fakePredictionRepo) GetByUserAndFight(ctx context.Context, userID, fightID int) (*models.Prediction, error) {
	for _, p := range f.predictions {
		if p.UserID == userID && p.FightID == fightID {
			return p, nil
		}
	}
	return nil, repositories.ErrPredictionNotFound
}

func (f *fakePredictionRepo) ListByFight(ctx context.Context, _ repositories.SQLExecutor, fightID int) ([]*models.Prediction, error) {
	out := make([]*models.Prediction, 0)
	for id := 1; id <= len(f.predictions); id++ {
		if p, ok := f.predictions[id]; ok && p.FightID == fightID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) ListByUser(ctx context.Context, userID int) ([]*models.Prediction, error) {
	out := make([]*models.Prediction, 0)
	for id := 1; id <= len(f.predictions); id++ {
		if p, ok := f.predictions[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) UpdateResolution(ctx context.Context, _ repositories.SQLExecutor, id int, isCorrect *bool, resolvedAt *time.Time) error {
	p, ok := f.predictions[id]
	if !ok {
		return repositories.ErrPredictionNotFound
	}
	p.IsCorrect = isCorrect
	p.ResolvedAt = resolvedAt
	return nil
}

type fakeScorecardRepo struct {
	scorecards map[int]*models.Scorecard
	rounds     map[int]*models.RoundScore
	nextRound  int
}

func newFakeScorecardRepo() *fakeScorecardRepo {
	return &fakeScorecardRepo{
		scorecards: make(map[int]*models.Scorecard),
		rounds:     make(map[int]*models.RoundScore),
		nextRound:  1,
	}
}

func (f *fakeScorecardRepo) Create(ctx context.Context, sc *models.Scorecard) error {
	sc.ID = len(f.scorecards) + 1
	f.scorecards[sc.ID] = sc
	for _, rs := range sc.RoundScores {
		rs.ID = f.nextRound
		rs.ScorecardID = sc.ID
		f.rounds[rs.ID] = rs
		f.nextRound++
	}
	return nil
}

func (f *fakeScorecardRepo) GetByUserAndFight(ctx context.Context, userID, fightID int) (*models.Scorecard, error) {
	for _, sc := range f.scorecards {
		if sc.UserID == userID && sc.FightID == fightID {
			return sc, nil
		}
	}
	return nil, repositories.ErrScorecardNotFound
}

func (f *fakeScorecardRepo) ListByFight(ctx context.Context, _ repositories.SQLExecutor, fightID int) ([]*models.Scorecard, error) {
	out := make([]*models.Scorecard, 0)
	for id := 1; id <= len(f.scorecards); id++ {
		if sc, ok := f.scorecards[id]; ok && sc.FightID == fightID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (f *fakeScorecardRepo) ListByUser(ctx context.Context, userID int) ([]*models.Scorecard, error) {
	out := make([]*models.Scorecard, 0)
	for id := 1; id <= len(f.scorecards); id++ {
		if sc, ok := f.scorecards[id]; ok && sc.UserID == userID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (f *fakeScorecardRepo) UpdateResolution(ctx context.Context, _ repositories.SQLExecutor, id int, correctRounds, totalRounds int, resolvedAt *time.Time) error {
	sc, ok := f.scorecards[id]
	if !ok {
		return repositories.ErrScorecardNotFound
	}
	sc.CorrectRounds = correctRounds
	sc.TotalRounds = totalRounds
	sc.ResolvedAt = resolvedAt
	return nil
}

func (f *fakeScorecardRepo) UpdateRoundCorrect(ctx context.Context, _ repositories.SQLExecutor, roundScoreID int, isCorrect *bool) error {
	rs, ok := f.rounds[roundScoreID]
	if !ok {
		return repositories.ErrRoundScoreNotFound
	}
	rs.IsCorrect = isCorrect
	return nil
}

type fakeResultRepo struct {
	results map[int]*models.FightResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[int]*models.FightResult)}
}

func (f *fakeResultRepo) Create(ctx context.Context, _ repositories.SQLExecutor, r *models.FightResult) error {
	r.ID = len(f.results) + 1
	f.results[r.ID] = r
	return nil
}

func (f *fakeResultRepo) GetByFightID(ctx context.Context, _ repositories.SQLExecutor, fightID int) (*models.FightResult, error) {
	for _, r := range f.results {
		if r.FightID == fightID {
			return r, nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (f *fakeResultRepo) UpdateCore(ctx context.Context, _ repositories.SQLExecutor, r *models.FightResult) error {
	f.results[r.ID] = r
	return nil
}

func (f *fakeResultRepo) ReplaceOfficialScorecards(ctx context.Context, _ repositories.SQLExecutor, r *models.FightResult, cards []*models.OfficialScorecard) error {
	r.OfficialScorecards = cards
	return nil
}

func (f *fakeResultRepo) SetResolved(ctx context.Context, _ repositories.SQLExecutor, id int, resolved bool) error {
	r, ok := f.results[id]
	if !ok {
		return repositories.ErrResultNotFound
	}
	r.IsResolved = resolved
	return nil
}

func (f *fakeResultRepo) Delete(ctx context.Context, _ repositories.SQLExecutor, id int) error {
	delete(f.results, id)
	return nil
}

type resolutionFixture struct {
	predictions *fakePredictionRepo
	scorecards  *fakeScorecardRepo
	results     *fakeResultRepo
	service     ResolutionService
}

func newResolutionFixture() *resolutionFixture {
	predictions := newFakePredictionRepo()
	scorecards := newFakeScorecardRepo()
	results := newFakeResultRepo()
	return &resolutionFixture{
		predictions: predictions,
		scorecards:  scorecards,
		results:     results,
		service:     NewResolutionService(predictions, scorecards, results),
	}
}

func (fx *resolutionFixture) addPrediction(t *testing.T, userID, fightID int, winner models.PredictedWinner, method models.WinMethod) *models.Prediction {
	t.Helper()
	p := &models.Prediction{UserID: userID, FightID: fightID, PredictedWinner: winner, WinMethod: method}
	require.NoError(t, fx.predictions.Create(context.Background(), p))
	return p
}

func (fx *resolutionFixture) addScorecard(t *testing.T, userID, fightID int, rounds [][2]int) *models.Scorecard {
	t.Helper()
	sc := &models.Scorecard{UserID: userID, FightID: fightID}
	for i, pair := range rounds {
		sc.RoundScores = append(sc.RoundScores, &models.RoundScore{
			RoundNumber:   i + 1,
			Fighter1Score: pair[0],
			Fighter2Score: pair[1],
		})
	}
	require.NoError(t, fx.scorecards.Create(context.Background(), sc))
	return sc
}

func (fx *resolutionFixture) addResult(t *testing.T, fightID int, winner models.FightWinner, method models.WinMethod, cards []*models.OfficialScorecard) *models.FightResult {
	t.Helper()
	r := &models.FightResult{FightID: fightID, Winner: winner, Method: method, OfficialScorecards: cards}
	require.NoError(t, fx.results.Create(context.Background(), nil, r))
	return r
}

func officialCard(judge string, rounds [][2]int) *models.OfficialScorecard {
	card := &models.OfficialScorecard{JudgeName: judge}
	for i, pair := range rounds {
		card.RoundScores = append(card.RoundScores, &models.OfficialRoundScore{
			RoundNumber:   i + 1,
			Fighter1Score: pair[0],
			Fighter2Score: pair[1],
		})
	}
	return card
}

func TestResolvePredictions(t *testing.T) {
	tests := []struct {
		name        string
		winner      models.FightWinner
		method      models.WinMethod
		predicted   models.PredictedWinner
		predMethod  models.WinMethod
		wantCorrect bool
	}{
		{
			name:        "winner and method match",
			winner:      models.WinnerFighter1,
			method:      models.MethodKoTko,
			predicted:   models.PredictedFighter1,
			predMethod:  models.MethodKoTko,
			wantCorrect: true,
		},
		{
			name:        "winner matches but method differs",
			winner:      models.WinnerFighter1,
			method:      models.MethodKoTko,
			predicted:   models.PredictedFighter1,
			predMethod:  models.MethodSubmission,
			wantCorrect: false,
		},
		{
			name:        "method matches but winner differs",
			winner:      models.WinnerFighter1,
			method:      models.MethodDecision,
			predicted:   models.PredictedFighter2,
			predMethod:  models.MethodDecision,
			wantCorrect: false,
		},
		{
			name:        "draw marks every prediction incorrect",
			winner:      models.WinnerDraw,
			method:      models.MethodDecision,
			predicted:   models.PredictedFighter1,
			predMethod:  models.MethodDecision,
			wantCorrect: false,
		},
		{
			name:        "no contest marks every prediction incorrect",
			winner:      models.WinnerNoContest,
			method:      models.MethodKoTko,
			predicted:   models.PredictedFighter2,
			predMethod:  models.MethodKoTko,
			wantCorrect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newResolutionFixture()
			p := fx.addPrediction(t, 1, 10, tt.predicted, tt.predMethod)
			result := fx.addResult(t, 10, tt.winner, tt.method, nil)

			summary, err := fx.service.Resolve(context.Background(), nil, result)
			require.NoError(t, err)

			assert.Equal(t, 1, summary.PredictionsResolved)
			require.NotNil(t, p.IsCorrect)
			assert.Equal(t, tt.wantCorrect, *p.IsCorrect)
			assert.NotNil(t, p.ResolvedAt)
			assert.True(t, result.IsResolved)
		})
	}
}

func TestResolveScorecardRoundAgainstAnyJudge(t *testing.T) {
	fx := newResolutionFixture()

	// Three judges disagree on round 1; the user only needs to match one.
	cards := []*models.OfficialScorecard{
		officialCard("Judge A", [][2]int{{10, 9}, {10, 9}, {9, 10}}),
		officialCard("Judge B", [][2]int{{9, 10}, {10, 9}, {9, 10}}),
		officialCard("Judge C", [][2]int{{10, 9}, {10, 9}, {10, 9}}),
	}
	sc := fx.addScorecard(t, 1, 10, [][2]int{{9, 10}, {10, 9}, {10, 9}})
	result := fx.addResult(t, 10, models.WinnerFighter1, models.MethodDecision, cards)

	summary, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ScorecardsResolved)

	// Round 1 (9,10) matches Judge B, round 2 (10,9) matches everyone,
	// round 3 (10,9) matches Judge C.
	for i, want := range []bool{true, true, true} {
		require.NotNil(t, sc.RoundScores[i].IsCorrect, "round %d", i+1)
		assert.Equal(t, want, *sc.RoundScores[i].IsCorrect, "round %d", i+1)
	}
	assert.Equal(t, 3, sc.CorrectRounds)
	assert.Equal(t, 3, sc.TotalRounds)
	assert.NotNil(t, sc.ResolvedAt)
}

func TestResolveScorecardOrderSensitive(t *testing.T) {
	fx := newResolutionFixture()

	// Every judge has fighter1 winning round 1. A user card with the same
	// numbers flipped must not count.
	cards := []*models.OfficialScorecard{
		officialCard("Judge A", [][2]int{{10, 9}}),
	}
	sc := fx.addScorecard(t, 1, 10, [][2]int{{9, 10}})
	result := fx.addResult(t, 10, models.WinnerFighter1, models.MethodDecision, cards)

	_, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)

	require.NotNil(t, sc.RoundScores[0].IsCorrect)
	assert.False(t, *sc.RoundScores[0].IsCorrect)
	assert.Equal(t, 0, sc.CorrectRounds)
	assert.Equal(t, 1, sc.TotalRounds)
}

func TestResolveWithoutOfficialScorecardsLeavesUserCardsAlone(t *testing.T) {
	fx := newResolutionFixture()

	sc := fx.addScorecard(t, 1, 10, [][2]int{{10, 9}, {10, 9}, {10, 9}})
	result := fx.addResult(t, 10, models.WinnerFighter1, models.MethodKoTko, nil)

	summary, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ScorecardsResolved)
	assert.Nil(t, sc.ResolvedAt)
	assert.Equal(t, 0, sc.CorrectRounds)
	assert.Equal(t, 0, sc.TotalRounds)
	for _, rs := range sc.RoundScores {
		assert.Nil(t, rs.IsCorrect)
	}
	// The result itself still counts as resolved.
	assert.True(t, result.IsResolved)
}

func TestResolveIsIdempotent(t *testing.T) {
	fx := newResolutionFixture()

	p := fx.addPrediction(t, 1, 10, models.PredictedFighter1, models.MethodDecision)
	sc := fx.addScorecard(t, 2, 10, [][2]int{{10, 9}, {9, 10}})
	cards := []*models.OfficialScorecard{
		officialCard("Judge A", [][2]int{{10, 9}, {10, 9}}),
	}
	result := fx.addResult(t, 10, models.WinnerFighter1, models.MethodDecision, cards)

	first, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)
	firstCorrect := *p.IsCorrect
	firstRounds := sc.CorrectRounds

	second, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)

	assert.Equal(t, first.PredictionsResolved, second.PredictionsResolved)
	assert.Equal(t, first.ScorecardsResolved, second.ScorecardsResolved)
	assert.Equal(t, firstCorrect, *p.IsCorrect)
	assert.Equal(t, firstRounds, sc.CorrectRounds)
}

func TestUnresolveRestoresCleanState(t *testing.T) {
	fx := newResolutionFixture()

	p := fx.addPrediction(t, 1, 10, models.PredictedFighter1, models.MethodKoTko)
	sc := fx.addScorecard(t, 2, 10, [][2]int{{10, 9}, {9, 10}, {10, 9}})
	cards := []*models.OfficialScorecard{
		officialCard("Judge A", [][2]int{{10, 9}, {9, 10}, {10, 9}}),
	}
	result := fx.addResult(t, 10, models.WinnerFighter1, models.MethodKoTko, cards)

	_, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)
	require.NotNil(t, p.IsCorrect)
	require.Equal(t, 3, sc.CorrectRounds)

	require.NoError(t, fx.service.Unresolve(context.Background(), nil, 10))

	assert.Nil(t, p.IsCorrect)
	assert.Nil(t, p.ResolvedAt)
	assert.Equal(t, 0, sc.CorrectRounds)
	assert.Equal(t, 0, sc.TotalRounds)
	assert.Nil(t, sc.ResolvedAt)
	for _, rs := range sc.RoundScores {
		assert.Nil(t, rs.IsCorrect)
	}
}

func TestResolveMixedCrowd(t *testing.T) {
	fx := newResolutionFixture()

	exact := fx.addPrediction(t, 1, 10, models.PredictedFighter2, models.MethodSubmission)
	wrongMethod := fx.addPrediction(t, 2, 10, models.PredictedFighter2, models.MethodKoTko)
	wrongWinner := fx.addPrediction(t, 3, 10, models.PredictedFighter1, models.MethodSubmission)
	result := fx.addResult(t, 10, models.WinnerFighter2, models.MethodSubmission, nil)

	summary, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.PredictionsResolved)
	assert.True(t, *exact.IsCorrect)
	assert.False(t, *wrongMethod.IsCorrect)
	assert.False(t, *wrongWinner.IsCorrect)
}

func TestResolveDuplicateJudgeTallies(t *testing.T) {
	fx := newResolutionFixture()

	// Two judges share the same round 1 tally; membership, not frequency,
	// decides correctness.
	cards := []*models.OfficialScorecard{
		officialCard("Judge A", [][2]int{{10, 9}}),
		officialCard("Judge B", [][2]int{{10, 9}}),
	}
	sc := fx.addScorecard(t, 1, 10, [][2]int{{10, 9}})
	result := fx.addResult(t, 10, models.WinnerFighter1, models.MethodDecision, cards)

	_, err := fx.service.Resolve(context.Background(), nil, result)
	require.NoError(t, err)

	assert.True(t, *sc.RoundScores[0].IsCorrect)
	assert.Equal(t, 1, sc.CorrectRounds)
}
