package models

import "time"

// Stop is one tournament event. The engine uses its ID only to scope rounds,
// websocket rooms and published bracket snapshots.
type Stop struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StopBracket is the assembled view of a stop: every round with its matches,
// each match with its games, plus the teams referenced anywhere in the bracket.
type StopBracket struct {
	Stop    *Stop    `json:"stop"`
	Rounds  []*Round `json:"rounds"`
	Matches []*Match `json:"matches"`
	Teams   []*Team  `json:"teams"`
}
