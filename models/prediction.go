package models

import "time"

// WinMethod is how a fight was (or is predicted to be) won.
type WinMethod string

const (
	MethodKoTko      WinMethod = "ko_tko"
	MethodSubmission WinMethod = "submission"
	MethodDecision   WinMethod = "decision"
	MethodDQ         WinMethod = "dq"
)

func (m WinMethod) Valid() bool {
	switch m {
	case MethodKoTko, MethodSubmission, MethodDecision, MethodDQ:
		return true
	}
	return false
}

// PredictedWinner is the binary winner space of a prediction. There is
// deliberately no draw/no-contest option: users always pick a fighter.
type PredictedWinner string

const (
	PredictedFighter1 PredictedWinner = "fighter1"
	PredictedFighter2 PredictedWinner = "fighter2"
)

func (w PredictedWinner) Valid() bool {
	return w == PredictedFighter1 || w == PredictedFighter2
}

// Prediction is a pre-fight pick of winner and method. It is immutable once
// created; only the resolution fields (IsCorrect, ResolvedAt) change, and only
// through the resolution engine. At most one prediction exists per
// (user, fight) pair.
type Prediction struct {
	ID              int             `json:"id"`
	UserID          int             `json:"user_id"`
	FightID         int             `json:"fight_id"`
	PredictedWinner PredictedWinner `json:"predicted_winner"`
	WinMethod       WinMethod       `json:"win_method"`
	Confidence      *int            `json:"confidence,omitempty"` // 1-5
	CreatedAt       time.Time       `json:"created_at"`

	// Resolution state: both nil until the fight's official result is
	// resolved, both nil again after unresolution.
	IsCorrect  *bool      `json:"is_correct,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// Populated on detail endpoints only.
	User *User `json:"user,omitempty"`
}
