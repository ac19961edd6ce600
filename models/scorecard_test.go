package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func card(rounds ...[2]int) *Scorecard {
	sc := &Scorecard{}
	for i, pair := range rounds {
		sc.RoundScores = append(sc.RoundScores, &RoundScore{
			RoundNumber:   i + 1,
			Fighter1Score: pair[0],
			Fighter2Score: pair[1],
		})
	}
	return sc
}

func TestScorecardTotalsAndWinner(t *testing.T) {
	tests := []struct {
		name       string
		scorecard  *Scorecard
		wantTotal1 int
		wantTotal2 int
		wantWinner ScorecardWinner
	}{
		{
			name:       "clean sweep",
			scorecard:  card([2]int{10, 9}, [2]int{10, 9}, [2]int{10, 9}),
			wantTotal1: 30,
			wantTotal2: 27,
			wantWinner: ScorecardFighter1,
		},
		{
			name:       "close card for fighter2",
			scorecard:  card([2]int{10, 9}, [2]int{9, 10}, [2]int{9, 10}),
			wantTotal1: 28,
			wantTotal2: 29,
			wantWinner: ScorecardFighter2,
		},
		{
			name:       "even totals are a draw",
			scorecard:  card([2]int{10, 9}, [2]int{9, 10}),
			wantTotal1: 19,
			wantTotal2: 19,
			wantWinner: ScorecardDraw,
		},
		{
			name:       "ten eight round swings the card",
			scorecard:  card([2]int{10, 8}, [2]int{9, 10}, [2]int{9, 10}),
			wantTotal1: 28,
			wantTotal2: 28,
			wantWinner: ScorecardDraw,
		},
		{
			name:       "empty card",
			scorecard:  card(),
			wantTotal1: 0,
			wantTotal2: 0,
			wantWinner: ScorecardDraw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTotal1, tt.scorecard.TotalFighter1())
			assert.Equal(t, tt.wantTotal2, tt.scorecard.TotalFighter2())
			assert.Equal(t, tt.wantWinner, tt.scorecard.Winner())
		})
	}
}

func TestFightRoundCount(t *testing.T) {
	five := 5
	zero := 0

	assert.Equal(t, 3, (&Fight{}).RoundCount())
	assert.Equal(t, 3, (&Fight{Rounds: &zero}).RoundCount())
	assert.Equal(t, 5, (&Fight{Rounds: &five}).RoundCount())
}

func TestUserDisplayName(t *testing.T) {
	username := "khabib"
	lastName := "Nurmagomedov"

	assert.Equal(t, "@khabib", (&User{FirstName: "Khabib", Username: &username}).DisplayName())
	assert.Equal(t, "Khabib Nurmagomedov", (&User{FirstName: "Khabib", LastName: &lastName}).DisplayName())
	assert.Equal(t, "Khabib", (&User{FirstName: "Khabib"}).DisplayName())
}
