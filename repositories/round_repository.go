package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Round, error)
	ListByStop(ctx context.Context, exec SQLExecutor, stopID int) ([]*models.Round, error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `
		INSERT INTO rounds (stop_id, bracket_type, depth)
		VALUES ($1, $2, $3)
		RETURNING id`

	return r.getExecutor(exec).QueryRowContext(ctx, query,
		round.StopID,
		round.BracketType,
		round.Depth,
	).Scan(&round.ID)
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Round, error) {
	query := `SELECT id, stop_id, bracket_type, depth FROM rounds WHERE id = $1`

	round := &models.Round{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&round.ID,
		&round.StopID,
		&round.BracketType,
		&round.Depth,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return round, nil
}

func (r *postgresRoundRepository) ListByStop(ctx context.Context, exec SQLExecutor, stopID int) ([]*models.Round, error) {
	query := `
		SELECT id, stop_id, bracket_type, depth
		FROM rounds
		WHERE stop_id = $1
		ORDER BY bracket_type ASC NULLS FIRST, depth DESC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, stopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round := &models.Round{}
		if scanErr := rows.Scan(&round.ID, &round.StopID, &round.BracketType, &round.Depth); scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}
