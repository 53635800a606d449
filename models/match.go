package models

import "time"

// MatchSide identifies one of the two team slots of a match.
type MatchSide string

const (
	SideA MatchSide = "A"
	SideB MatchSide = "B"
)

// TiebreakerStatus represents match tiebreaker states, matching the ENUM in the DB.
type TiebreakerStatus string

const (
	TiebreakerNone     TiebreakerStatus = "NONE"
	TiebreakerNeeded   TiebreakerStatus = "NEEDS_DECISION"
	TiebreakerRequired TiebreakerStatus = "REQUIRES_TIEBREAKER"
	TiebreakerPending  TiebreakerStatus = "PENDING_TIEBREAKER"
	TiebreakerByPoints TiebreakerStatus = "DECIDED_POINTS"
	TiebreakerByGame   TiebreakerStatus = "DECIDED_TIEBREAKER"
)

// IsTerminal reports whether the status is a sticky decided state that the
// evaluator must never recompute.
func (s TiebreakerStatus) IsTerminal() bool {
	return s == TiebreakerByPoints || s == TiebreakerByGame
}

// Match is a single contest between two bracket slots. Team slots may be nil
// until the upstream matches feeding them resolve.
type Match struct {
	ID      int `json:"id"`
	StopID  int `json:"stop_id"`
	RoundID int `json:"round_id"`

	TeamAID *int `json:"team_a_id,omitempty"`
	TeamBID *int `json:"team_b_id,omitempty"`

	IsBye       bool       `json:"is_bye"`
	ForfeitTeam *MatchSide `json:"forfeit_team,omitempty"`

	TiebreakerStatus       TiebreakerStatus `json:"tiebreaker_status"`
	TiebreakerWinnerTeamID *int             `json:"tiebreaker_winner_team_id,omitempty"`
	TiebreakerGameID       *int             `json:"tiebreaker_game_id,omitempty"`
	TiebreakerDecidedAt    *time.Time       `json:"tiebreaker_decided_at,omitempty"`

	TotalPointsTeamA int `json:"total_points_team_a"`
	TotalPointsTeamB int `json:"total_points_team_b"`

	WinnerID *int `json:"winner_id,omitempty"`

	// Which upstream matches feed this match's two slots.
	SourceMatchAID *int `json:"source_match_a_id,omitempty"`
	SourceMatchBID *int `json:"source_match_b_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Joined entities, populated by repositories/services when requested.
	Round *Round  `json:"round,omitempty"`
	Games []*Game `json:"games,omitempty"`
}

// TeamID returns the team occupying the given side, nil if the slot is still TBD.
func (m *Match) TeamID(side MatchSide) *int {
	if side == SideA {
		return m.TeamAID
	}
	return m.TeamBID
}

// SideOf returns which slot the team occupies, or "" if it is not in this match.
func (m *Match) SideOf(teamID int) MatchSide {
	if m.TeamAID != nil && *m.TeamAID == teamID {
		return SideA
	}
	if m.TeamBID != nil && *m.TeamBID == teamID {
		return SideB
	}
	return ""
}
