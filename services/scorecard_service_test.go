package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasbek/fightcard/models"
)

func scorecardInput(fightID int, rounds [][3]int) ScorecardInput {
	input := ScorecardInput{FightID: fightID}
	for _, r := range rounds {
		input.RoundScores = append(input.RoundScores, RoundScoreInput{
			RoundNumber:   r[0],
			Fighter1Score: r[1],
			Fighter2Score: r[2],
		})
	}
	return input
}

func TestScorecardCreateValidation(t *testing.T) {
	fiveRounder := &models.Fight{ID: 20, EventID: 1, CardType: models.CardTypeMain, Rounds: intPtr(5)}

	tests := []struct {
		name    string
		input   ScorecardInput
		wantErr error
	}{
		{
			name:    "unknown fight",
			input:   scorecardInput(99, [][3]int{{1, 10, 9}, {2, 10, 9}, {3, 10, 9}}),
			wantErr: ErrFightNotFound,
		},
		{
			name:    "too few rounds",
			input:   scorecardInput(10, [][3]int{{1, 10, 9}, {2, 10, 9}}),
			wantErr: ErrInvalidRoundCount,
		},
		{
			name:    "too many rounds for three round fight",
			input:   scorecardInput(10, [][3]int{{1, 10, 9}, {2, 10, 9}, {3, 10, 9}, {4, 10, 9}}),
			wantErr: ErrInvalidRoundCount,
		},
		{
			name:    "duplicate round number",
			input:   scorecardInput(10, [][3]int{{1, 10, 9}, {2, 10, 9}, {2, 9, 10}}),
			wantErr: ErrInvalidRoundNumber,
		},
		{
			name:    "round number beyond scheduled distance",
			input:   scorecardInput(10, [][3]int{{1, 10, 9}, {2, 10, 9}, {4, 10, 9}}),
			wantErr: ErrInvalidRoundNumber,
		},
		{
			name:    "score above ten",
			input:   scorecardInput(10, [][3]int{{1, 11, 9}, {2, 10, 9}, {3, 10, 9}}),
			wantErr: ErrInvalidRoundScore,
		},
		{
			name:    "score below seven",
			input:   scorecardInput(10, [][3]int{{1, 10, 6}, {2, 10, 9}, {3, 10, 9}}),
			wantErr: ErrInvalidRoundScore,
		},
		{
			name:    "five round card on a five round fight is fine",
			input:   scorecardInput(20, [][3]int{{1, 10, 9}, {2, 10, 9}, {3, 9, 10}, {4, 10, 8}, {5, 10, 10}}),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewScorecardService(newFakeScorecardRepo(), newFakeFightRepo(threeRoundFight(10), fiveRounder))
			_, err := service.Create(context.Background(), 1, tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestScorecardCreateStartsUnresolved(t *testing.T) {
	service := NewScorecardService(newFakeScorecardRepo(), newFakeFightRepo(threeRoundFight(10)))

	sc, err := service.Create(context.Background(), 1, scorecardInput(10, [][3]int{{1, 10, 9}, {2, 9, 10}, {3, 10, 9}}))
	require.NoError(t, err)

	assert.Equal(t, 0, sc.CorrectRounds)
	assert.Equal(t, 0, sc.TotalRounds)
	assert.Nil(t, sc.ResolvedAt)
	for _, rs := range sc.RoundScores {
		assert.Nil(t, rs.IsCorrect)
	}
}

func TestScorecardListByFight(t *testing.T) {
	scorecardRepo := newFakeScorecardRepo()
	service := NewScorecardService(scorecardRepo, newFakeFightRepo(threeRoundFight(10), threeRoundFight(11)))

	for userID, fightID := range map[int]int{1: 10, 2: 10, 3: 11} {
		sc := &models.Scorecard{UserID: userID, FightID: fightID}
		require.NoError(t, scorecardRepo.Create(context.Background(), sc))
	}

	scorecards, err := service.ListByFight(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, scorecards, 2)

	_, err = service.ListByFight(context.Background(), 99)
	assert.ErrorIs(t, err, ErrFightNotFound)
}

func TestScorecardFightStats(t *testing.T) {
	scorecardRepo := newFakeScorecardRepo()
	service := NewScorecardService(scorecardRepo, newFakeFightRepo(threeRoundFight(10)))

	add := func(userID int, rounds [][2]int) {
		sc := &models.Scorecard{UserID: userID, FightID: 10}
		for i, pair := range rounds {
			sc.RoundScores = append(sc.RoundScores, &models.RoundScore{
				RoundNumber: i + 1, Fighter1Score: pair[0], Fighter2Score: pair[1],
			})
		}
		require.NoError(t, scorecardRepo.Create(context.Background(), sc))
	}
	// Card 1: fighter1 sweeps (30-27). Card 2: fighter2 takes it 28-29.
	add(1, [][2]int{{10, 9}, {10, 9}, {10, 9}})
	add(2, [][2]int{{10, 9}, {9, 10}, {9, 10}})

	stats, err := service.GetFightStats(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalScorecards)
	assert.Equal(t, 1, stats.Fighter1Winners)
	assert.Equal(t, 1, stats.Fighter2Winners)
	assert.Equal(t, 0, stats.DrawCards)
	assert.InDelta(t, 29.0, stats.AvgTotalFighter1, 0.01)
	assert.InDelta(t, 28.0, stats.AvgTotalFighter2, 0.01)

	require.Len(t, stats.Rounds, 3)
	round1 := stats.Rounds[0]
	assert.Equal(t, 1, round1.RoundNumber)
	assert.InDelta(t, 10.0, round1.AvgFighter1, 0.01)
	assert.InDelta(t, 9.0, round1.AvgFighter2, 0.01)
	assert.Equal(t, 2, round1.Fighter1Rounds)
	assert.Equal(t, 0, round1.Fighter2Rounds)

	round2 := stats.Rounds[1]
	assert.Equal(t, 1, round2.Fighter1Rounds)
	assert.Equal(t, 1, round2.Fighter2Rounds)
	assert.InDelta(t, 9.5, round2.AvgFighter1, 0.01)
	assert.InDelta(t, 9.5, round2.AvgFighter2, 0.01)
}

func TestScorecardFightStatsEmpty(t *testing.T) {
	service := NewScorecardService(newFakeScorecardRepo(), newFakeFightRepo(threeRoundFight(10)))

	stats, err := service.GetFightStats(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalScorecards)
	assert.Empty(t, stats.Rounds)
}
