package models

import (
	"fmt"
	"time"
)

// Fighter stores an individual fighter's identity, record and optional bio
// pulled from their public profile.
type Fighter struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	NameEnglish *string `json:"name_english,omitempty"`
	Country     *string `json:"country,omitempty"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`

	// Physical stats
	Age      *int     `json:"age,omitempty"`
	HeightCm *int     `json:"height_cm,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	ReachCm  *int     `json:"reach_cm,omitempty"`

	// Fighting info
	Style       *string `json:"style,omitempty"`
	WeightClass *string `json:"weight_class,omitempty"`
	Ranking     *string `json:"ranking,omitempty"`

	// Win/loss method splits
	WinsKoTko        *int `json:"wins_ko_tko,omitempty"`
	WinsSubmission   *int `json:"wins_submission,omitempty"`
	WinsDecision     *int `json:"wins_decision,omitempty"`
	LossesKoTko      *int `json:"losses_ko_tko,omitempty"`
	LossesSubmission *int `json:"losses_submission,omitempty"`
	LossesDecision   *int `json:"losses_decision,omitempty"`

	ProfileURL *string `json:"profile_url,omitempty"`
	PhotoURL   *string `json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record returns the W-L-D record string.
func (f *Fighter) Record() string {
	return fmt.Sprintf("%d-%d-%d", f.Wins, f.Losses, f.Draws)
}
