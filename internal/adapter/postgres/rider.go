package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/postgres"
)

type RiderRepository struct {
	db *pgxpool.Pool
}

func NewRiderRepository(db *postgres.DB) *RiderRepository {
	return &RiderRepository{db: db.Pool}
}

func (r *RiderRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Rider, error) {
	query := `SELECT id, name, phone, socket_id FROM riders WHERE id = $1`

	var rider models.Rider
	err := txOrDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&rider.ID, &rider.Name, &rider.Phone, &rider.SocketID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rider{}, types.ErrRiderNotFound
		}
		return models.Rider{}, fmt.Errorf("get rider: %w", err)
	}
	return rider, nil
}

func (r *RiderRepository) SetSocketID(ctx context.Context, id uuid.UUID, handle string) error {
	query := `UPDATE riders SET socket_id = $2 WHERE id = $1`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, id, handle)
	if err != nil {
		return fmt.Errorf("set rider socket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRiderNotFound
	}
	return nil
}

func (r *RiderRepository) ClearSocketID(ctx context.Context, handle string) error {
	query := `UPDATE riders SET socket_id = NULL WHERE socket_id = $1`

	if _, err := txOrDB(ctx, r.db).Exec(ctx, query, handle); err != nil {
		return fmt.Errorf("clear rider socket: %w", err)
	}
	return nil
}
