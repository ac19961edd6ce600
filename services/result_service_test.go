package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almasbek/fightcard/models"
)

func TestValidateResultInput(t *testing.T) {
	threeRounder := threeRoundFight(10)
	fiveRounder := &models.Fight{ID: 20, EventID: 1, CardType: models.CardTypeMain, Rounds: intPtr(5)}

	validCards := []OfficialScorecardInput{
		{JudgeName: "Sal D'Amato", RoundScores: []OfficialRoundScoreInput{
			{RoundNumber: 1, Fighter1Score: 10, Fighter2Score: 9},
			{RoundNumber: 2, Fighter1Score: 9, Fighter2Score: 10},
			{RoundNumber: 3, Fighter1Score: 10, Fighter2Score: 9},
		}},
	}

	tests := []struct {
		name    string
		fight   *models.Fight
		input   FightResultInput
		wantErr error
	}{
		{
			name:    "valid decision with scorecards",
			fight:   threeRounder,
			input:   FightResultInput{Winner: models.WinnerFighter1, Method: models.MethodDecision, OfficialScorecards: validCards},
			wantErr: nil,
		},
		{
			name:    "valid finish without scorecards",
			fight:   threeRounder,
			input:   FightResultInput{Winner: models.WinnerFighter2, Method: models.MethodKoTko, FinishRound: intPtr(2)},
			wantErr: nil,
		},
		{
			name:    "draw is a valid outcome",
			fight:   threeRounder,
			input:   FightResultInput{Winner: models.WinnerDraw, Method: models.MethodDecision},
			wantErr: nil,
		},
		{
			name:    "invalid winner",
			fight:   threeRounder,
			input:   FightResultInput{Winner: "fighter3", Method: models.MethodKoTko},
			wantErr: ErrInvalidWinner,
		},
		{
			name:    "invalid method",
			fight:   threeRounder,
			input:   FightResultInput{Winner: models.WinnerFighter1, Method: "forfeit"},
			wantErr: ErrInvalidMethod,
		},
		{
			name:    "finish round beyond distance",
			fight:   threeRounder,
			input:   FightResultInput{Winner: models.WinnerFighter1, Method: models.MethodKoTko, FinishRound: intPtr(4)},
			wantErr: ErrInvalidFinishRound,
		},
		{
			name:    "finish round four valid on five rounder",
			fight:   fiveRounder,
			input:   FightResultInput{Winner: models.WinnerFighter1, Method: models.MethodKoTko, FinishRound: intPtr(4)},
			wantErr: nil,
		},
		{
			name:  "judge name required",
			fight: threeRounder,
			input: FightResultInput{Winner: models.WinnerFighter1, Method: models.MethodDecision, OfficialScorecards: []OfficialScorecardInput{
				{JudgeName: "", RoundScores: []OfficialRoundScoreInput{{RoundNumber: 1, Fighter1Score: 10, Fighter2Score: 9}}},
			}},
			wantErr: ErrJudgeNameRequired,
		},
		{
			name:  "duplicate round within a card",
			fight: threeRounder,
			input: FightResultInput{Winner: models.WinnerFighter1, Method: models.MethodDecision, OfficialScorecards: []OfficialScorecardInput{
				{JudgeName: "Judge", RoundScores: []OfficialRoundScoreInput{
					{RoundNumber: 1, Fighter1Score: 10, Fighter2Score: 9},
					{RoundNumber: 1, Fighter1Score: 9, Fighter2Score: 10},
				}},
			}},
			wantErr: ErrInvalidRoundNumber,
		},
		{
			name:  "official score out of range",
			fight: threeRounder,
			input: FightResultInput{Winner: models.WinnerFighter1, Method: models.MethodDecision, OfficialScorecards: []OfficialScorecardInput{
				{JudgeName: "Judge", RoundScores: []OfficialRoundScoreInput{
					{RoundNumber: 1, Fighter1Score: 10, Fighter2Score: 6},
				}},
			}},
			wantErr: ErrInvalidRoundScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResultInput(tt.fight, tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuildResult(t *testing.T) {
	input := FightResultInput{
		Winner:      models.WinnerFighter2,
		Method:      models.MethodSubmission,
		FinishRound: intPtr(2),
		OfficialScorecards: []OfficialScorecardInput{
			{JudgeName: "Judge A", RoundScores: []OfficialRoundScoreInput{
				{RoundNumber: 1, Fighter1Score: 9, Fighter2Score: 10},
			}},
		},
	}

	result := buildResult(10, input)

	assert.Equal(t, 10, result.FightID)
	assert.Equal(t, models.WinnerFighter2, result.Winner)
	assert.Equal(t, models.MethodSubmission, result.Method)
	assert.False(t, result.IsResolved)
	require.Len(t, result.OfficialScorecards, 1)
	assert.Equal(t, "Judge A", result.OfficialScorecards[0].JudgeName)
	require.Len(t, result.OfficialScorecards[0].RoundScores, 1)
	assert.Equal(t, 10, result.OfficialScorecards[0].RoundScores[0].Fighter2Score)
}
