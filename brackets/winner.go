package brackets

import (
	"errors"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

// ErrIndeterminateResult means the winner was requested before any decision
// exists. That is a caller contract violation: resolve only after the
// evaluator reached a decided state, a forfeit, or for a BYE.
var ErrIndeterminateResult = errors.New("match result is indeterminate")

// ResolveWinner derives the winning and losing team of a concluded match.
// For a BYE the present team wins and the loser is nil.
func ResolveWinner(m *models.Match, ev Evaluation) (winnerID int, loserID *int, err error) {
	if m.IsBye {
		switch {
		case m.TeamAID != nil:
			return *m.TeamAID, nil, nil
		case m.TeamBID != nil:
			return *m.TeamBID, nil, nil
		default:
			return 0, nil, ErrIndeterminateResult
		}
	}

	if ev.WinnerTeamID == nil {
		return 0, nil, ErrIndeterminateResult
	}
	winnerID = *ev.WinnerTeamID

	switch {
	case m.TeamAID != nil && *m.TeamAID == winnerID:
		loserID = m.TeamBID
	case m.TeamBID != nil && *m.TeamBID == winnerID:
		loserID = m.TeamAID
	default:
		return 0, nil, ErrIndeterminateResult
	}
	return winnerID, loserID, nil
}
