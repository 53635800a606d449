package services

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/markbrown88/pickleball-app-sub006/brackets"
	"github.com/markbrown88/pickleball-app-sub006/models"
	"github.com/markbrown88/pickleball-app-sub006/repositories"
)

// TiebreakerService recomputes a match's concluded/pending state after every
// game-score mutation and owns the explicit admin exits from NEEDS_DECISION.
type TiebreakerService interface {
	EvaluateTiebreaker(ctx context.Context, matchID int) (*models.Match, error)
	DecideByPoints(ctx context.Context, matchID int) (*models.Match, error)
	RequestTiebreakerGame(ctx context.Context, matchID int) (*models.Match, error)
}

type tiebreakerService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	gameRepo  repositories.GameRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewTiebreakerService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) TiebreakerService {
	return &tiebreakerService{
		db:        db,
		matchRepo: matchRepo,
		gameRepo:  gameRepo,
		hub:       hub,
		logger:    logger,
	}
}

// evaluateMatchTx loads a match with its games, runs the evaluator and applies
// the result inside the caller's transaction. It reports whether any
// observable field changed; a second run with no intervening game changes
// performs no writes. Shared with the match service so score submission and
// completion evaluate inside their own transactions.
func evaluateMatchTx(
	ctx context.Context,
	exec repositories.SQLExecutor,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	matchID int,
) (*models.Match, bool, error) {
	match, err := matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, false, mapMatchRepoError(err)
	}
	games, err := gameRepo.ListByMatch(ctx, exec, matchID)
	if err != nil {
		return nil, false, err
	}
	match.Games = games

	ev := brackets.EvaluateMatch(match, games)
	if ev.Unchanged {
		return match, false, nil
	}

	changed, err := applyEvaluation(ctx, exec, matchRepo, gameRepo, match, ev)
	if err != nil {
		return nil, false, err
	}
	return match, changed, nil
}

// applyEvaluation persists an evaluator outcome: tiebreaker game lifecycle
// first, then the match's tiebreaker fields, but only when something
// observable actually moved.
func applyEvaluation(
	ctx context.Context,
	exec repositories.SQLExecutor,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	match *models.Match,
	ev brackets.Evaluation,
) (bool, error) {
	mutatedGames := false

	if ev.DeleteTiebreakerGameID != nil {
		if err := gameRepo.Delete(ctx, exec, *ev.DeleteTiebreakerGameID); err != nil {
			return false, mapGameRepoError(err)
		}
		match.Games = withoutGame(match.Games, *ev.DeleteTiebreakerGameID)
		mutatedGames = true
	}

	tiebreakerGameID := ev.TiebreakerGameID
	if ev.CreateTiebreakerGame {
		game := &models.Game{MatchID: match.ID, Slot: models.SlotTiebreaker}
		if err := gameRepo.Create(ctx, exec, game); err != nil {
			return false, err
		}
		match.Games = append(match.Games, game)
		tiebreakerGameID = &game.ID
		mutatedGames = true
	}

	decidedAt := match.TiebreakerDecidedAt
	if ev.NewlyDecided && decidedAt == nil {
		now := time.Now().UTC()
		decidedAt = &now
	}
	if !ev.Status.IsTerminal() {
		decidedAt = nil
	}

	changed := mutatedGames ||
		match.TiebreakerStatus != ev.Status ||
		!intPtrEqual(match.TiebreakerWinnerTeamID, ev.TiebreakerWinnerTeamID) ||
		!intPtrEqual(match.TiebreakerGameID, tiebreakerGameID) ||
		!timePtrEqual(match.TiebreakerDecidedAt, decidedAt) ||
		match.TotalPointsTeamA != ev.TotalPointsTeamA ||
		match.TotalPointsTeamB != ev.TotalPointsTeamB

	if !changed {
		return false, nil
	}

	match.TiebreakerStatus = ev.Status
	match.TiebreakerWinnerTeamID = ev.TiebreakerWinnerTeamID
	match.TiebreakerGameID = tiebreakerGameID
	match.TiebreakerDecidedAt = decidedAt
	match.TotalPointsTeamA = ev.TotalPointsTeamA
	match.TotalPointsTeamB = ev.TotalPointsTeamB

	if err := matchRepo.UpdateTiebreakerState(ctx, exec, match); err != nil {
		return false, mapMatchRepoError(err)
	}
	return true, nil
}

func (s *tiebreakerService) EvaluateTiebreaker(ctx context.Context, matchID int) (*models.Match, error) {
	var match *models.Match
	var changed bool

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		match, changed, txErr = evaluateMatchTx(ctx, tx, s.matchRepo, s.gameRepo, matchID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.broadcastMatch(match)
	}
	return match, nil
}

func (s *tiebreakerService) DecideByPoints(ctx context.Context, matchID int) (*models.Match, error) {
	var match *models.Match

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		match, txErr = s.decideByPointsTx(ctx, tx, matchID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.broadcastMatch(match)
	return match, nil
}

func (s *tiebreakerService) decideByPointsTx(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	if match.TiebreakerStatus != models.TiebreakerNeeded {
		return nil, ErrTiebreakerDecisionInvalid
	}

	games, err := s.gameRepo.ListByMatch(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	match.Games = games

	side, ok := brackets.PointsWinner(games)
	if !ok {
		// Level totals cannot be decided on points.
		return nil, ErrTiebreakerDecisionInvalid
	}
	winner := match.TeamID(side)
	if winner == nil {
		return nil, brackets.ErrIndeterminateResult
	}

	pointsA, pointsB := brackets.TotalPoints(games)
	now := time.Now().UTC()

	match.TiebreakerStatus = models.TiebreakerByPoints
	match.TiebreakerWinnerTeamID = winner
	match.TiebreakerGameID = nil
	match.TiebreakerDecidedAt = &now
	match.TotalPointsTeamA = pointsA
	match.TotalPointsTeamB = pointsB

	if err := s.matchRepo.UpdateTiebreakerState(ctx, exec, match); err != nil {
		return nil, mapMatchRepoError(err)
	}
	return match, nil
}

func (s *tiebreakerService) RequestTiebreakerGame(ctx context.Context, matchID int) (*models.Match, error) {
	var match *models.Match

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		match, txErr = s.requestTiebreakerGameTx(ctx, tx, matchID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.broadcastMatch(match)
	return match, nil
}

func (s *tiebreakerService) requestTiebreakerGameTx(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	if match.TiebreakerStatus != models.TiebreakerNeeded {
		return nil, ErrTiebreakerDecisionInvalid
	}

	game := &models.Game{MatchID: match.ID, Slot: models.SlotTiebreaker}
	if err := s.gameRepo.Create(ctx, exec, game); err != nil {
		return nil, err
	}

	match.TiebreakerStatus = models.TiebreakerRequired
	match.TiebreakerGameID = &game.ID
	match.TiebreakerWinnerTeamID = nil
	match.TiebreakerDecidedAt = nil

	if err := s.matchRepo.UpdateTiebreakerState(ctx, exec, match); err != nil {
		return nil, mapMatchRepoError(err)
	}

	games, err := s.gameRepo.ListByMatch(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	match.Games = games
	return match, nil
}

func (s *tiebreakerService) broadcastMatch(match *models.Match) {
	if s.hub == nil || match == nil {
		return
	}
	s.hub.BroadcastToRoom(stopRoom(match.StopID), brackets.WebSocketMessage{
		Type:    brackets.EventMatchUpdated,
		Payload: match,
		RoomID:  stopRoom(match.StopID),
	})
}

func withoutGame(games []*models.Game, id int) []*models.Game {
	out := games[:0]
	for _, g := range games {
		if g.ID != id {
			out = append(out, g)
		}
	}
	return out
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
