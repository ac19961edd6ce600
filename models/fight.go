package models

import "time"

type CardType string

const (
	CardTypeMain   CardType = "main"
	CardTypePrelim CardType = "prelim"
)

// DefaultRounds is assumed when a fight has no round count set.
const DefaultRounds = 3

// Fight belongs to exactly one event and references two optional fighters
// (either slot may still be TBA). A fight has at most one official result.
type Fight struct {
	ID          int       `json:"id"`
	EventID     int       `json:"event_id"`
	Fighter1ID  *int      `json:"fighter1_id,omitempty"`
	Fighter2ID  *int      `json:"fighter2_id,omitempty"`
	CardType    CardType  `json:"card_type"`
	WeightClass *string   `json:"weight_class,omitempty"`
	Rounds      *int      `json:"rounds,omitempty"`
	FightOrder  *int      `json:"fight_order,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated on detail endpoints only.
	Fighter1 *Fighter     `json:"fighter1,omitempty"`
	Fighter2 *Fighter     `json:"fighter2,omitempty"`
	Result   *FightResult `json:"result,omitempty"`
}

// RoundCount returns the scheduled rounds, defaulting to 3 when unset.
// User scorecards are validated against this count.
func (f *Fight) RoundCount() int {
	if f.Rounds == nil || *f.Rounds <= 0 {
		return DefaultRounds
	}
	return *f.Rounds
}
