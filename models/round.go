package models

// BracketType identifies the bracket lineage a round belongs to in a
// double-elimination stop. Nil on a round means round-robin play.
type BracketType string

const (
	BracketWinner BracketType = "WINNER"
	BracketLoser  BracketType = "LOSER"
	BracketFinals BracketType = "FINALS"
)

// Round groups the matches played at one depth of a bracket. Depth is the
// distance from the final: 0 is the final itself.
type Round struct {
	ID          int          `json:"id"`
	StopID      int          `json:"stop_id"`
	BracketType *BracketType `json:"bracket_type,omitempty"`
	Depth       int          `json:"depth"`
}

// IsBracket reports whether the round carries a bracket lineage (elimination
// play) as opposed to round-robin.
func (r *Round) IsBracket() bool {
	return r != nil && r.BracketType != nil
}
