package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/markbrown88/pickleball-app-sub006/models"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameMatchInvalid = errors.New("game match conflict or invalid")
	ErrGameSlotConflict = errors.New("game slot already exists for this match")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Game, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, teamAScore, teamBScore *int, isComplete bool) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (match_id, slot, bracket_id, team_a_score, team_b_score, is_complete)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		game.MatchID,
		game.Slot,
		game.BracketID,
		game.TeamAScore,
		game.TeamBScore,
		game.IsComplete,
	).Scan(&game.ID, &game.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := `
		SELECT id, match_id, slot, bracket_id, team_a_score, team_b_score, is_complete, created_at
		FROM games
		WHERE id = $1`

	game := &models.Game{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&game.ID,
		&game.MatchID,
		&game.Slot,
		&game.BracketID,
		&game.TeamAScore,
		&game.TeamBScore,
		&game.IsComplete,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *postgresGameRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Game, error) {
	query := `
		SELECT id, match_id, slot, bracket_id, team_a_score, team_b_score, is_complete, created_at
		FROM games
		WHERE match_id = $1
		ORDER BY bracket_id ASC NULLS FIRST, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game := &models.Game{}
		if scanErr := rows.Scan(
			&game.ID,
			&game.MatchID,
			&game.Slot,
			&game.BracketID,
			&game.TeamAScore,
			&game.TeamBScore,
			&game.IsComplete,
			&game.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		games = append(games, game)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, teamAScore, teamBScore *int, isComplete bool) error {
	query := `
		UPDATE games
		SET team_a_score = $1, team_b_score = $2, is_complete = $3
		WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, teamAScore, teamBScore, isComplete, id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM games WHERE id = $1`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "games_match_id_fkey" {
				return ErrGameMatchInvalid
			}
		case "23505": // unique_violation
			if pqErr.Constraint == "games_match_id_slot_bracket_id_key" {
				return ErrGameSlotConflict
			}
		}
	}
	return err
}
