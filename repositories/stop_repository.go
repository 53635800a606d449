package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

var ErrStopNotFound = errors.New("stop not found")

type StopRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stop *models.Stop) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stop, error)
}

type postgresStopRepository struct {
	db *sql.DB
}

func NewPostgresStopRepository(db *sql.DB) StopRepository {
	return &postgresStopRepository{db: db}
}

func (r *postgresStopRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStopRepository) Create(ctx context.Context, exec SQLExecutor, stop *models.Stop) error {
	query := `INSERT INTO stops (name) VALUES ($1) RETURNING id, created_at`

	return r.getExecutor(exec).QueryRowContext(ctx, query, stop.Name).
		Scan(&stop.ID, &stop.CreatedAt)
}

func (r *postgresStopRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stop, error) {
	query := `SELECT id, name, created_at FROM stops WHERE id = $1`

	stop := &models.Stop{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(&stop.ID, &stop.Name, &stop.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStopNotFound
		}
		return nil, err
	}
	return stop, nil
}
