package models

import "time"

// FightWinner is the official outcome space. Unlike PredictedWinner it
// includes draw and no-contest, against which no prediction can be correct.
type FightWinner string

const (
	WinnerFighter1  FightWinner = "fighter1"
	WinnerFighter2  FightWinner = "fighter2"
	WinnerDraw      FightWinner = "draw"
	WinnerNoContest FightWinner = "no_contest"
)

func (w FightWinner) Valid() bool {
	switch w {
	case WinnerFighter1, WinnerFighter2, WinnerDraw, WinnerNoContest:
		return true
	}
	return false
}

// FightResult is the official outcome an admin enters for a fight (1:1 with
// the fight). IsResolved becomes true only after the resolution engine has run
// both resolvers against it, and is reset to false whenever the result is
// replaced before re-resolution completes.
type FightResult struct {
	ID          int         `json:"id"`
	FightID     int         `json:"fight_id"`
	Winner      FightWinner `json:"winner"`
	Method      WinMethod   `json:"method"`
	FinishRound *int        `json:"finish_round,omitempty"`
	FinishTime  *string     `json:"finish_time,omitempty"` // "m:ss" within the finish round
	IsResolved  bool        `json:"is_resolved"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	OfficialScorecards []*OfficialScorecard `json:"official_scorecards"`
}

// OfficialScorecard is one judge's card for a result. Round numbers are unique
// within a card; a result typically carries three cards but may carry none.
type OfficialScorecard struct {
	ID            int       `json:"id"`
	FightResultID int       `json:"fight_result_id"`
	JudgeName     string    `json:"judge_name"`
	CreatedAt     time.Time `json:"created_at"`

	RoundScores []*OfficialRoundScore `json:"round_scores"`
}

// OfficialRoundScore is one round of a judge's card.
type OfficialRoundScore struct {
	ID                  int `json:"id"`
	OfficialScorecardID int `json:"official_scorecard_id"`
	RoundNumber         int `json:"round_number"`
	Fighter1Score       int `json:"fighter1_score"`
	Fighter2Score       int `json:"fighter2_score"`
}
