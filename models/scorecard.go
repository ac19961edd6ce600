package models

import "time"

// ScorecardWinner is derived from a scorecard's totals, never stored.
type ScorecardWinner string

const (
	ScorecardFighter1 ScorecardWinner = "fighter1"
	ScorecardFighter2 ScorecardWinner = "fighter2"
	ScorecardDraw     ScorecardWinner = "draw"
)

// Scorecard is a user's round-by-round score for a fight, one RoundScore per
// round number 1..fight.RoundCount(). The round scores are fixed at creation;
// only the resolution aggregates change afterwards. At most one scorecard
// exists per (user, fight) pair.
type Scorecard struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	FightID   int       `json:"fight_id"`
	CreatedAt time.Time `json:"created_at"`

	RoundScores []*RoundScore `json:"round_scores"`

	// Resolution aggregates, zeroed until resolved.
	CorrectRounds int        `json:"correct_rounds"`
	TotalRounds   int        `json:"total_rounds"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`

	// Populated on detail endpoints only.
	User *User `json:"user,omitempty"`
}

// RoundScore is one round of a user scorecard, 10-point-must convention
// (scores 7..10, validated at the API boundary).
type RoundScore struct {
	ID            int `json:"id"`
	ScorecardID   int `json:"scorecard_id"`
	RoundNumber   int `json:"round_number"`
	Fighter1Score int `json:"fighter1_score"`
	Fighter2Score int `json:"fighter2_score"`

	// Nil until resolved against the official judge scorecards.
	IsCorrect *bool `json:"is_correct,omitempty"`
}

// TotalFighter1 is always the sum of the per-round scores; totals are never
// stored independently.
func (s *Scorecard) TotalFighter1() int {
	total := 0
	for _, rs := range s.RoundScores {
		total += rs.Fighter1Score
	}
	return total
}

func (s *Scorecard) TotalFighter2() int {
	total := 0
	for _, rs := range s.RoundScores {
		total += rs.Fighter2Score
	}
	return total
}

// Winner is a pure function of the two totals; equal totals are a draw.
func (s *Scorecard) Winner() ScorecardWinner {
	t1, t2 := s.TotalFighter1(), s.TotalFighter2()
	switch {
	case t1 > t2:
		return ScorecardFighter1
	case t2 > t1:
		return ScorecardFighter2
	default:
		return ScorecardDraw
	}
}
