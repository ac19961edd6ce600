package models

import "time"

// Event is a single fight card (UFC 300, Bellator 301, ...). An event owns its
// fights; deleting the event cascades to them.
type Event struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Organization string     `json:"organization"`
	EventDate    *time.Time `json:"event_date,omitempty"`
	Location     *string    `json:"location,omitempty"`
	URL          string     `json:"url"`
	Slug         string     `json:"slug"`
	IsUpcoming   bool       `json:"is_upcoming"`
	ScrapedAt    time.Time  `json:"scraped_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Populated on detail endpoints only.
	Fights []*Fight `json:"fights,omitempty"`
}
