package services

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/markbrown88/pickleball-app-sub006/brackets"
	"github.com/markbrown88/pickleball-app-sub006/models"
	"github.com/markbrown88/pickleball-app-sub006/repositories"
)

// CompleteMatchResult reports what one completion did to the bracket.
type CompleteMatchResult struct {
	MatchID               int  `json:"match_id"`
	WinnerID              int  `json:"winner_id"`
	LoserID               *int `json:"loser_id,omitempty"`
	AdvancedWinnerMatches int  `json:"advanced_winner_matches"`
	AdvancedLoserMatches  int  `json:"advanced_loser_matches"`
	BracketResetTriggered bool `json:"bracket_reset_triggered"`
}

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	SubmitGameScore(ctx context.Context, matchID, gameID int, teamAScore, teamBScore *int, isComplete bool) (*models.Match, error)
	CompleteMatch(ctx context.Context, matchID int) (*CompleteMatchResult, error)
	SeedStandardGames(ctx context.Context, matchID int, bracketIDs []int) ([]*models.Game, error)
}

type matchService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	gameRepo  repositories.GameRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		matchRepo: matchRepo,
		gameRepo:  gameRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	games, err := s.gameRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	match.Games = games
	return match, nil
}

// SubmitGameScore records (or clears) a game's score and immediately re-runs
// the tiebreaker evaluator in the same transaction.
func (s *matchService) SubmitGameScore(ctx context.Context, matchID, gameID int, teamAScore, teamBScore *int, isComplete bool) (*models.Match, error) {
	var match *models.Match
	var changed bool

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		match, changed, txErr = s.submitGameScoreTx(ctx, tx, matchID, gameID, teamAScore, teamBScore, isComplete)
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

func (s *matchService) submitGameScoreTx(
	ctx context.Context,
	exec repositories.SQLExecutor,
	matchID, gameID int,
	teamAScore, teamBScore *int,
	isComplete bool,
) (*models.Match, bool, error) {
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, false, mapMatchRepoError(err)
	}
	if match.WinnerID != nil {
		return nil, false, ErrGameLocked
	}

	game, err := s.gameRepo.GetByID(ctx, exec, gameID)
	if err != nil {
		return nil, false, mapGameRepoError(err)
	}
	if game.MatchID != matchID {
		return nil, false, ErrGameNotFound
	}

	if err := s.gameRepo.UpdateScore(ctx, exec, gameID, teamAScore, teamBScore, isComplete); err != nil {
		return nil, false, mapGameRepoError(err)
	}

	return evaluateMatchTx(ctx, exec, s.matchRepo, s.gameRepo, matchID)
}

// CompleteMatch resolves the winner and propagates it through the bracket.
// The match's winner write and every downstream slot write commit in one
// transaction: the bracket is never left partially advanced.
func (s *matchService) CompleteMatch(ctx context.Context, matchID int) (*CompleteMatchResult, error) {
	var result *CompleteMatchResult
	var stopID int

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		result, stopID, txErr = s.completeMatchTx(ctx, tx, matchID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.broadcastBracket(stopID, result)
	return result, nil
}

func (s *matchService) completeMatchTx(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*CompleteMatchResult, int, error) {
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, 0, mapMatchRepoError(err)
	}
	if match.WinnerID != nil {
		return nil, 0, ErrMatchAlreadyCompleted
	}

	var winnerID int
	var loserID *int

	if match.IsBye {
		// A bye auto-resolves without any evaluator involvement.
		winnerID, loserID, err = brackets.ResolveWinner(match, brackets.Evaluation{})
		if err != nil {
			return nil, 0, err
		}
	} else {
		games, listErr := s.gameRepo.ListByMatch(ctx, exec, matchID)
		if listErr != nil {
			return nil, 0, listErr
		}
		if len(games) == 0 && match.ForfeitTeam == nil {
			return nil, 0, ErrNoGamesRecorded
		}
		match.Games = games

		ev := brackets.EvaluateMatch(match, games)
		if _, applyErr := applyEvaluation(ctx, exec, s.matchRepo, s.gameRepo, match, ev); applyErr != nil {
			return nil, 0, applyErr
		}

		if ev.WinnerTeamID == nil {
			if ev.Status == models.TiebreakerNone {
				return nil, 0, ErrGamesIncomplete
			}
			return nil, 0, ErrAmbiguousWinner
		}

		winnerID, loserID, err = brackets.ResolveWinner(match, ev)
		if err != nil {
			return nil, 0, err
		}
	}

	plan, resetTriggered, err := s.advanceTx(ctx, exec, match, winnerID, loserID)
	if err != nil {
		return nil, 0, err
	}

	if err := s.matchRepo.SetWinner(ctx, exec, match.ID, winnerID); err != nil {
		return nil, 0, mapMatchRepoError(err)
	}

	return &CompleteMatchResult{
		MatchID:               match.ID,
		WinnerID:              winnerID,
		LoserID:               loserID,
		AdvancedWinnerMatches: len(plan.WinnerPlacements),
		AdvancedLoserMatches:  len(plan.LoserPlacements),
		BracketResetTriggered: resetTriggered,
	}, match.StopID, nil
}

// advanceTx writes the winner (and loser, for double elimination) into every
// downstream slot that registered this match as its source.
func (s *matchService) advanceTx(
	ctx context.Context,
	exec repositories.SQLExecutor,
	match *models.Match,
	winnerID int,
	loserID *int,
) (brackets.AdvancementPlan, bool, error) {
	downstream, err := s.matchRepo.ListBySourceMatch(ctx, exec, match.ID)
	if err != nil {
		return brackets.AdvancementPlan{}, false, err
	}

	slots := make([]brackets.DownstreamSlot, 0, len(downstream))
	for _, d := range downstream {
		var bracketType *models.BracketType
		var depth int
		if d.Round != nil {
			bracketType = d.Round.BracketType
			depth = d.Round.Depth
		}
		if d.SourceMatchAID != nil && *d.SourceMatchAID == match.ID {
			slots = append(slots, brackets.DownstreamSlot{MatchID: d.ID, Slot: models.SideA, BracketType: bracketType, Depth: depth})
		}
		if d.SourceMatchBID != nil && *d.SourceMatchBID == match.ID {
			slots = append(slots, brackets.DownstreamSlot{MatchID: d.ID, Slot: models.SideB, BracketType: bracketType, Depth: depth})
		}
	}

	var srcBracket *models.BracketType
	if match.Round != nil {
		srcBracket = match.Round.BracketType
	}
	plan := brackets.RouteAdvancement(srcBracket, winnerID, loserID, slots)

	for _, p := range plan.WinnerPlacements {
		if err := s.matchRepo.SetTeamSlot(ctx, exec, p.MatchID, p.Slot, p.TeamID); err != nil {
			return brackets.AdvancementPlan{}, false, mapMatchRepoError(err)
		}
	}
	for _, p := range plan.LoserPlacements {
		if err := s.matchRepo.SetTeamSlot(ctx, exec, p.MatchID, p.Slot, p.TeamID); err != nil {
			return brackets.AdvancementPlan{}, false, mapMatchRepoError(err)
		}
	}

	resetTriggered, err := s.detectBracketResetTx(ctx, exec, match, winnerID)
	if err != nil {
		return brackets.AdvancementPlan{}, false, err
	}
	return plan, resetTriggered, nil
}

// detectBracketResetTx checks a finals result: if the winner came up through
// the loser bracket the tournament needs a second finals match. The engine
// only signals this; materializing the rematch is the caller's policy.
func (s *matchService) detectBracketResetTx(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, winnerID int) (bool, error) {
	if match.Round == nil || match.Round.BracketType == nil || *match.Round.BracketType != models.BracketFinals {
		return false, nil
	}

	sourceBracket := func(id *int) (*models.BracketType, error) {
		if id == nil {
			return nil, nil
		}
		src, err := s.matchRepo.GetByID(ctx, exec, *id)
		if err != nil {
			return nil, mapMatchRepoError(err)
		}
		if src.Round == nil {
			return nil, nil
		}
		return src.Round.BracketType, nil
	}

	aBracket, err := sourceBracket(match.SourceMatchAID)
	if err != nil {
		return false, err
	}
	bBracket, err := sourceBracket(match.SourceMatchBID)
	if err != nil {
		return false, err
	}

	return brackets.IsBracketReset(match, winnerID, aBracket, bBracket), nil
}

// SeedStandardGames creates the four standard games of a match from the fixed
// lineup-to-slot contract: one set for a team-format match, one set per
// bracket for a club-format match.
func (s *matchService) SeedStandardGames(ctx context.Context, matchID int, bracketIDs []int) ([]*models.Game, error) {
	var games []*models.Game

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, txErr := s.matchRepo.GetByID(ctx, tx, matchID)
		if txErr != nil {
			return mapMatchRepoError(txErr)
		}
		if match.WinnerID != nil {
			return ErrMatchAlreadyCompleted
		}

		existing, txErr := s.gameRepo.ListByMatch(ctx, tx, matchID)
		if txErr != nil {
			return txErr
		}
		if len(existing) > 0 {
			return repositories.ErrGameSlotConflict
		}

		seed := func(bracketID *int) error {
			for _, pairing := range brackets.StandardSlotPairings() {
				game := &models.Game{MatchID: matchID, Slot: pairing.Slot, BracketID: bracketID}
				if createErr := s.gameRepo.Create(ctx, tx, game); createErr != nil {
					return createErr
				}
				games = append(games, game)
			}
			return nil
		}

		if len(bracketIDs) == 0 {
			return seed(nil)
		}
		for _, id := range bracketIDs {
			bid := id
			if seedErr := seed(&bid); seedErr != nil {
				return seedErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (s *matchService) broadcastMatch(match *models.Match) {
	if s.hub == nil || match == nil {
		return
	}
	s.hub.BroadcastToRoom(stopRoom(match.StopID), brackets.WebSocketMessage{
		Type:    brackets.EventMatchUpdated,
		Payload: match,
		RoomID:  stopRoom(match.StopID),
	})
}

func (s *matchService) broadcastBracket(stopID int, result *CompleteMatchResult) {
	if s.hub == nil || result == nil {
		return
	}
	s.hub.BroadcastToRoom(stopRoom(stopID), brackets.WebSocketMessage{
		Type:    brackets.EventBracketUpdated,
		Payload: result,
		RoomID:  stopRoom(stopID),
	})
}
