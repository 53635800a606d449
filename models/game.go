package models

import "time"

// GameSlot names a fixed sub-contest within a team match.
type GameSlot string

const (
	SlotMensDoubles   GameSlot = "MENS_DOUBLES"
	SlotWomensDoubles GameSlot = "WOMENS_DOUBLES"
	SlotMixed1        GameSlot = "MIXED_1"
	SlotMixed2        GameSlot = "MIXED_2"
	SlotTiebreaker    GameSlot = "TIEBREAKER"
)

// StandardSlots are the four slots every team match plays before any tiebreaker.
var StandardSlots = []GameSlot{SlotMensDoubles, SlotWomensDoubles, SlotMixed1, SlotMixed2}

// Game is one unit of play within a match. In the club (multi-bracket) format a
// match spans several brackets and each game additionally carries the bracket it
// belongs to; in the team round-robin format BracketID is nil.
type Game struct {
	ID         int      `json:"id"`
	MatchID    int      `json:"match_id"`
	Slot       GameSlot `json:"slot"`
	BracketID  *int     `json:"bracket_id,omitempty"`
	TeamAScore *int     `json:"team_a_score,omitempty"`
	TeamBScore *int     `json:"team_b_score,omitempty"`
	IsComplete bool     `json:"is_complete"`

	CreatedAt time.Time `json:"created_at"`
}

// IsStandard reports whether the game counts toward the regular slate, as
// opposed to a tiebreaker.
func (g *Game) IsStandard() bool {
	return g.Slot != SlotTiebreaker
}
