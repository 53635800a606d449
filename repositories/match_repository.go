package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/markbrown88/pickleball-app-sub006/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchRoundInvalid      = errors.New("match round conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
	ErrMatchSourceInvalid     = errors.New("match source match conflict or invalid")
	ErrMatchWinnerTeamInvalid = errors.New("match winner team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByStop(ctx context.Context, exec SQLExecutor, stopID int) ([]*models.Match, error)
	ListBySourceMatch(ctx context.Context, exec SQLExecutor, sourceMatchID int) ([]*models.Match, error)
	SetTeamSlot(ctx context.Context, exec SQLExecutor, matchID int, slot models.MatchSide, teamID int) error
	SetWinner(ctx context.Context, exec SQLExecutor, matchID int, winnerID int) error
	UpdateSourceLinks(ctx context.Context, exec SQLExecutor, matchID int, sourceMatchAID, sourceMatchBID *int) error
	UpdateTiebreakerState(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	m.id, m.stop_id, m.round_id, m.team_a_id, m.team_b_id, m.is_bye, m.forfeit_team,
	m.tiebreaker_status, m.tiebreaker_winner_team_id, m.tiebreaker_game_id, m.tiebreaker_decided_at,
	m.total_points_team_a, m.total_points_team_b, m.winner_id,
	m.source_match_a_id, m.source_match_b_id, m.created_at,
	r.id, r.stop_id, r.bracket_type, r.depth`

func scanMatchWithRound(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	round := &models.Round{}
	err := scanner.Scan(
		&match.ID,
		&match.StopID,
		&match.RoundID,
		&match.TeamAID,
		&match.TeamBID,
		&match.IsBye,
		&match.ForfeitTeam,
		&match.TiebreakerStatus,
		&match.TiebreakerWinnerTeamID,
		&match.TiebreakerGameID,
		&match.TiebreakerDecidedAt,
		&match.TotalPointsTeamA,
		&match.TotalPointsTeamB,
		&match.WinnerID,
		&match.SourceMatchAID,
		&match.SourceMatchBID,
		&match.CreatedAt,
		&round.ID,
		&round.StopID,
		&round.BracketType,
		&round.Depth,
	)
	if err != nil {
		return nil, err
	}
	match.Round = round
	return match, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(stop_id, round_id, team_a_id, team_b_id, is_bye, forfeit_team,
			 tiebreaker_status, total_points_team_a, total_points_team_b,
			 source_match_a_id, source_match_b_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.StopID,
		match.RoundID,
		match.TeamAID,
		match.TeamBID,
		match.IsBye,
		match.ForfeitTeam,
		match.TiebreakerStatus,
		match.TotalPointsTeamA,
		match.TotalPointsTeamB,
		match.SourceMatchAID,
		match.SourceMatchBID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE m.id = $1`

	match, err := scanMatchWithRound(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByStop(ctx context.Context, exec SQLExecutor, stopID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE m.stop_id = $1
		ORDER BY r.depth DESC, m.id ASC`

	return r.queryMatches(ctx, exec, query, stopID)
}

func (r *postgresMatchRepository) ListBySourceMatch(ctx context.Context, exec SQLExecutor, sourceMatchID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE m.source_match_a_id = $1 OR m.source_match_b_id = $1
		ORDER BY m.id ASC`

	return r.queryMatches(ctx, exec, query, sourceMatchID)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatchWithRound(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) SetTeamSlot(ctx context.Context, exec SQLExecutor, matchID int, slot models.MatchSide, teamID int) error {
	column := "team_a_id"
	if slot == models.SideB {
		column = "team_b_id"
	}
	query := `UPDATE matches SET ` + column + ` = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, teamID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetWinner(ctx context.Context, exec SQLExecutor, matchID int, winnerID int) error {
	query := `UPDATE matches SET winner_id = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, winnerID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSourceLinks(ctx context.Context, exec SQLExecutor, matchID int, sourceMatchAID, sourceMatchBID *int) error {
	query := `UPDATE matches SET source_match_a_id = $1, source_match_b_id = $2 WHERE id = $3`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, sourceMatchAID, sourceMatchBID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTiebreakerState(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET tiebreaker_status = $1, tiebreaker_winner_team_id = $2, tiebreaker_game_id = $3,
		    tiebreaker_decided_at = $4, total_points_team_a = $5, total_points_team_b = $6
		WHERE id = $7`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		match.TiebreakerStatus,
		match.TiebreakerWinnerTeamID,
		match.TiebreakerGameID,
		match.TiebreakerDecidedAt,
		match.TotalPointsTeamA,
		match.TotalPointsTeamB,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_round_id_fkey":
				return ErrMatchRoundInvalid
			case "matches_team_a_id_fkey", "matches_team_b_id_fkey":
				return ErrMatchTeamInvalid
			case "matches_winner_id_fkey", "matches_tiebreaker_winner_team_id_fkey":
				return ErrMatchWinnerTeamInvalid
			case "matches_source_match_a_id_fkey", "matches_source_match_b_id_fkey":
				return ErrMatchSourceInvalid
			}
		}
	}
	return err
}
