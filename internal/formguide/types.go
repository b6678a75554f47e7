package formguide

import "time"

// Guide is a team's recent-results form, normalized to W/D/L tokens,
// newest first.
type Guide struct {
	Team      string    `json:"team"`
	Form      string    `json:"form"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}
