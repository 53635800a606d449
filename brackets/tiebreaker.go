package brackets

import (
	"github.com/markbrown88/pickleball-app-sub006/models"
)

// Evaluation is the outcome of one evaluator pass over a match and its games.
// It describes the state to persist plus any tiebreaker-game lifecycle work;
// applying it is the service layer's job so the computation stays pure.
type Evaluation struct {
	// Unchanged is set when the match is already in a terminal decided state
	// and must not be recomputed.
	Unchanged bool

	Status models.TiebreakerStatus

	// WinnerTeamID is the match winner if this evaluation concluded one
	// (by game wins, by the tiebreaker game, or by forfeit). Nil otherwise.
	WinnerTeamID *int

	// TiebreakerWinnerTeamID mirrors the persisted field: set only when the
	// tiebreaker game itself produced the winner.
	TiebreakerWinnerTeamID *int

	// TiebreakerGameID is the association to keep on the match; nil clears it.
	TiebreakerGameID *int

	TotalPointsTeamA int
	TotalPointsTeamB int

	// NewlyDecided marks a transition into a DECIDED_* status; the caller
	// stamps TiebreakerDecidedAt.
	NewlyDecided bool

	// CreateTiebreakerGame asks the caller to create the TIEBREAKER game and
	// attach it to the match.
	CreateTiebreakerGame bool

	// DeleteTiebreakerGameID asks the caller to delete a tiebreaker game that
	// became moot.
	DeleteTiebreakerGameID *int
}

type gameTally struct {
	winsA, winsB     int
	pointsA, pointsB int
	completed        int
}

// tallyStandardGames sums wins and points over completed standard games.
// A completed game with one missing score counts that side as 0; a game with
// neither score recorded contributes nothing to the win tally. Tolerates
// partially written historical rows instead of failing.
func tallyStandardGames(games []*models.Game) gameTally {
	var t gameTally
	for _, g := range games {
		if !g.IsStandard() || !g.IsComplete {
			continue
		}
		t.completed++
		if g.TeamAScore == nil && g.TeamBScore == nil {
			continue
		}
		a, b := scoreOrZero(g.TeamAScore), scoreOrZero(g.TeamBScore)
		t.pointsA += a
		t.pointsB += b
		switch {
		case a > b:
			t.winsA++
		case b > a:
			t.winsB++
		}
	}
	return t
}

func scoreOrZero(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}

func findTiebreakerGame(games []*models.Game) *models.Game {
	for _, g := range games {
		if g.Slot == models.SlotTiebreaker {
			return g
		}
	}
	return nil
}

// EvaluateMatch recomputes a match's concluded/pending state from its games.
// It is designed to be re-invoked after every single score write: every
// non-terminal state is derived from scratch, and terminal DECIDED_* states
// are returned unchanged.
func EvaluateMatch(m *models.Match, games []*models.Game) Evaluation {
	// Forfeit overrides everything that happened on court.
	if m.ForfeitTeam != nil {
		ev := Evaluation{Status: models.TiebreakerNone}
		switch *m.ForfeitTeam {
		case models.SideA:
			ev.WinnerTeamID = m.TeamBID
		case models.SideB:
			ev.WinnerTeamID = m.TeamAID
		}
		if tb := findTiebreakerGame(games); tb != nil {
			id := tb.ID
			ev.DeleteTiebreakerGameID = &id
		}
		return ev
	}

	if m.TiebreakerStatus.IsTerminal() {
		return Evaluation{
			Unchanged:              true,
			Status:                 m.TiebreakerStatus,
			WinnerTeamID:           m.TiebreakerWinnerTeamID,
			TiebreakerWinnerTeamID: m.TiebreakerWinnerTeamID,
			TiebreakerGameID:       m.TiebreakerGameID,
			TotalPointsTeamA:       m.TotalPointsTeamA,
			TotalPointsTeamB:       m.TotalPointsTeamB,
		}
	}

	format := ResolveFormat(games)
	expected := format.ExpectedStandardGames()
	t := tallyStandardGames(games)
	tb := findTiebreakerGame(games)

	ev := Evaluation{
		Status:           models.TiebreakerNone,
		TotalPointsTeamA: t.pointsA,
		TotalPointsTeamB: t.pointsB,
	}

	// Not all standard games are in: back to square one. Covers a previously
	// tied match whose game got reopened.
	if t.completed < expected {
		if tb != nil && !tb.IsComplete {
			id := tb.ID
			ev.DeleteTiebreakerGameID = &id
		}
		return ev
	}

	if t.winsA != t.winsB {
		// Decided by game wins; a leftover tiebreaker game is stray.
		if t.winsA > t.winsB {
			ev.WinnerTeamID = m.TeamAID
		} else {
			ev.WinnerTeamID = m.TeamBID
		}
		if tb != nil {
			id := tb.ID
			ev.DeleteTiebreakerGameID = &id
		}
		return ev
	}

	// Standard games split evenly.
	switch {
	case tb != nil && tb.TeamAScore != nil && tb.TeamBScore != nil:
		id := tb.ID
		ev.TiebreakerGameID = &id
		switch {
		case *tb.TeamAScore > *tb.TeamBScore:
			ev.Status = models.TiebreakerByGame
			ev.WinnerTeamID = m.TeamAID
			ev.TiebreakerWinnerTeamID = m.TeamAID
			ev.NewlyDecided = true
		case *tb.TeamBScore > *tb.TeamAScore:
			ev.Status = models.TiebreakerByGame
			ev.WinnerTeamID = m.TeamBID
			ev.TiebreakerWinnerTeamID = m.TeamBID
			ev.NewlyDecided = true
		default:
			// Tied again. Stays pending until the score is corrected.
			ev.Status = models.TiebreakerPending
		}

	case tb != nil:
		if t.pointsA == t.pointsB {
			id := tb.ID
			ev.TiebreakerGameID = &id
			ev.Status = models.TiebreakerPending
		} else {
			// Points break the tie, so the tiebreaker game is spurious; an
			// admin has to pick points-based or tiebreaker-based resolution.
			id := tb.ID
			ev.DeleteTiebreakerGameID = &id
			ev.Status = models.TiebreakerNeeded
		}

	default:
		if t.pointsA == t.pointsB {
			ev.CreateTiebreakerGame = true
			ev.Status = models.TiebreakerRequired
		} else {
			ev.Status = models.TiebreakerNeeded
		}
	}

	return ev
}

// TotalPoints sums aggregate points per side over completed standard games.
func TotalPoints(games []*models.Game) (int, int) {
	t := tallyStandardGames(games)
	return t.pointsA, t.pointsB
}

// PointsWinner returns the side leading on aggregate points, for the explicit
// points-based decision. Returns false when totals are level.
func PointsWinner(games []*models.Game) (models.MatchSide, bool) {
	t := tallyStandardGames(games)
	switch {
	case t.pointsA > t.pointsB:
		return models.SideA, true
	case t.pointsB > t.pointsA:
		return models.SideB, true
	default:
		return "", false
	}
}
