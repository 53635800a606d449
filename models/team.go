package models

import "time"

// Team identity is opaque to the engine; only the ID is ever inspected.
type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ClubID    *int      `json:"club_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
