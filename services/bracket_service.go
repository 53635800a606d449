package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markbrown88/pickleball-app-sub006/brackets"
	"github.com/markbrown88/pickleball-app-sub006/models"
	"github.com/markbrown88/pickleball-app-sub006/repositories"
	"github.com/markbrown88/pickleball-app-sub006/storage"
)

// BracketService builds bracket structure for a stop and assembles/publishes
// the full bracket view consumed by the renderer and websocket clients.
type BracketService interface {
	GenerateBracket(ctx context.Context, stopID int, teamIDs []int, kind string) (*models.StopBracket, error)
	GetStopBracket(ctx context.Context, stopID int) (*models.StopBracket, error)
	PublishSnapshot(ctx context.Context, stopID int) (string, error)
}

type bracketService struct {
	db           *sql.DB
	stopRepo     repositories.StopRepository
	roundRepo    repositories.RoundRepository
	matchRepo    repositories.MatchRepository
	gameRepo     repositories.GameRepository
	teamRepo     repositories.TeamRepository
	matchService MatchService
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	stopRepo repositories.StopRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	matchService MatchService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:           db,
		stopRepo:     stopRepo,
		roundRepo:    roundRepo,
		matchRepo:    matchRepo,
		gameRepo:     gameRepo,
		teamRepo:     teamRepo,
		matchService: matchService,
		uploader:     uploader,
		logger:       logger,
	}
}

// GenerateBracket persists a generated bracket structure in two passes inside
// one transaction: create every round and match first, then resolve the
// source-match links to row IDs. BYE matches are completed afterwards through
// the normal completion path so their teams propagate like any other result.
func (s *bracketService) GenerateBracket(ctx context.Context, stopID int, teamIDs []int, kind string) (*models.StopBracket, error) {
	stop, err := s.stopRepo.GetByID(ctx, nil, stopID)
	if err != nil {
		if errors.Is(err, repositories.ErrStopNotFound) {
			return nil, ErrStopNotFound
		}
		return nil, err
	}

	var generator brackets.Generator
	switch kind {
	case "SingleElimination":
		generator = brackets.NewSingleEliminationGenerator()
	case "DoubleElimination":
		generator = brackets.NewDoubleEliminationGenerator()
	default:
		return nil, fmt.Errorf("%w: %q", ErrBracketKindUnsupported, kind)
	}

	existing, err := s.roundRepo.ListByStop(ctx, nil, stopID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrBracketAlreadyExists
	}

	generated, err := generator.Generate(brackets.GenerateParams{TeamIDs: teamIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s structure for stop %d: %w", generator.Name(), stopID, err)
	}

	var byeMatchIDs []int
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		uidToMatch := make(map[string]*models.Match)

		for _, genRound := range generated {
			round := &models.Round{
				StopID:      stop.ID,
				BracketType: genRound.BracketType,
				Depth:       genRound.Depth,
			}
			if createErr := s.roundRepo.Create(ctx, tx, round); createErr != nil {
				return createErr
			}

			for _, gm := range genRound.Matches {
				match := &models.Match{
					StopID:           stop.ID,
					RoundID:          round.ID,
					TeamAID:          gm.TeamAID,
					TeamBID:          gm.TeamBID,
					IsBye:            gm.IsBye,
					TiebreakerStatus: models.TiebreakerNone,
				}
				if createErr := s.matchRepo.Create(ctx, tx, match); createErr != nil {
					return createErr
				}
				uidToMatch[gm.UID] = match
				if gm.IsBye {
					byeMatchIDs = append(byeMatchIDs, match.ID)
				}
			}
		}

		// Second pass: resolve UID links now that every match has a row ID.
		for _, genRound := range generated {
			for _, gm := range genRound.Matches {
				if gm.SourceMatchAUID == nil && gm.SourceMatchBUID == nil {
					continue
				}
				var sourceAID, sourceBID *int
				if gm.SourceMatchAUID != nil {
					src, ok := uidToMatch[*gm.SourceMatchAUID]
					if !ok {
						return fmt.Errorf("generated match %s references unknown source %s", gm.UID, *gm.SourceMatchAUID)
					}
					sourceAID = &src.ID
				}
				if gm.SourceMatchBUID != nil {
					src, ok := uidToMatch[*gm.SourceMatchBUID]
					if !ok {
						return fmt.Errorf("generated match %s references unknown source %s", gm.UID, *gm.SourceMatchBUID)
					}
					sourceBID = &src.ID
				}
				if linkErr := s.matchRepo.UpdateSourceLinks(ctx, tx, uidToMatch[gm.UID].ID, sourceAID, sourceBID); linkErr != nil {
					return linkErr
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, matchID := range byeMatchIDs {
		if _, completeErr := s.matchService.CompleteMatch(ctx, matchID); completeErr != nil {
			return nil, fmt.Errorf("failed to propagate bye match %d: %w", matchID, completeErr)
		}
	}

	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("stop_id", stopID),
		slog.String("kind", generator.Name()),
		slog.Int("teams", len(teamIDs)),
		slog.Int("byes", len(byeMatchIDs)),
	)

	return s.GetStopBracket(ctx, stopID)
}

// GetStopBracket assembles the full bracket for a stop. Rounds, matches and
// the stop itself load in parallel; games and team details follow once the
// match list is known.
func (s *bracketService) GetStopBracket(ctx context.Context, stopID int) (*models.StopBracket, error) {
	bracket := &models.StopBracket{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stop, err := s.stopRepo.GetByID(gCtx, nil, stopID)
		if err != nil {
			if errors.Is(err, repositories.ErrStopNotFound) {
				return ErrStopNotFound
			}
			return err
		}
		bracket.Stop = stop
		return nil
	})

	g.Go(func() error {
		rounds, err := s.roundRepo.ListByStop(gCtx, nil, stopID)
		if err != nil {
			return fmt.Errorf("failed to list rounds for stop %d: %w", stopID, err)
		}
		bracket.Rounds = rounds
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByStop(gCtx, nil, stopID)
		if err != nil {
			return fmt.Errorf("failed to list matches for stop %d: %w", stopID, err)
		}
		bracket.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	teamIDs := make(map[int]struct{})
	for _, match := range bracket.Matches {
		games, err := s.gameRepo.ListByMatch(ctx, nil, match.ID)
		if err != nil {
			return nil, err
		}
		match.Games = games
		for _, id := range []*int{match.TeamAID, match.TeamBID, match.WinnerID} {
			if id != nil {
				teamIDs[*id] = struct{}{}
			}
		}
	}

	ids := make([]int, 0, len(teamIDs))
	for id := range teamIDs {
		ids = append(ids, id)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	bracket.Teams = teams

	return bracket, nil
}

// PublishSnapshot uploads the stop's bracket as JSON for the static viewer.
// Returns the public URL, or "" when no uploader is configured.
func (s *bracketService) PublishSnapshot(ctx context.Context, stopID int) (string, error) {
	if s.uploader == nil {
		return "", nil
	}

	bracket, err := s.GetStopBracket(ctx, stopID)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(struct {
		*models.StopBracket
		GeneratedAt time.Time `json:"generated_at"`
	}{bracket, time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal bracket snapshot for stop %d: %w", stopID, err)
	}

	key := fmt.Sprintf("brackets/stop_%d.json", stopID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to upload bracket snapshot for stop %d: %w", stopID, err)
	}
	return result.Location, nil
}
