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

type DriverRepository struct {
	db *pgxpool.Pool
}

func NewDriverRepository(db *postgres.DB) *DriverRepository {
	return &DriverRepository{db: db.Pool}
}

func (r *DriverRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Driver, error) {
	query := `
		SELECT id, name, phone, vehicle_class, vehicle_plate, status,
		       socket_id, latitude, longitude
		FROM drivers
		WHERE id = $1`

	driver, err := scanDriver(txOrDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Driver{}, types.ErrDriverNotFound
		}
		return models.Driver{}, fmt.Errorf("get driver: %w", err)
	}
	return driver, nil
}

func (r *DriverRepository) SetSocketID(ctx context.Context, id uuid.UUID, handle string) error {
	query := `UPDATE drivers SET socket_id = $2 WHERE id = $1`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, id, handle)
	if err != nil {
		return fmt.Errorf("set driver socket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepository) ClearSocketID(ctx context.Context, handle string) error {
	query := `UPDATE drivers SET socket_id = NULL WHERE socket_id = $1`

	if _, err := txOrDB(ctx, r.db).Exec(ctx, query, handle); err != nil {
		return fmt.Errorf("clear driver socket: %w", err)
	}
	return nil
}

func (r *DriverRepository) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	query := `UPDATE drivers SET latitude = $2, longitude = $3 WHERE id = $1`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, id, lat, lng)
	if err != nil {
		return fmt.Errorf("update driver location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

// FindWithinRadius returns drivers whose last reported location lies inside
// or on the spherical cap of radiusKm around the point. Drivers that never
// reported a location are skipped. No ordering is imposed.
func (r *DriverRepository) FindWithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]models.Driver, error) {
	query := `
		SELECT id, name, phone, vehicle_class, vehicle_plate, status,
		       socket_id, latitude, longitude
		FROM drivers
		WHERE latitude IS NOT NULL
		  AND longitude IS NOT NULL
		  AND acos(least(1.0, greatest(-1.0,
		        sin(radians($1)) * sin(radians(latitude)) +
		        cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude) - radians($2))
		      ))) <= $3 / 6371.0`

	rows, err := txOrDB(ctx, r.db).Query(ctx, query, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("find drivers within radius: %w", err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, driver)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}
	return drivers, nil
}

func scanDriver(row pgx.Row) (models.Driver, error) {
	var (
		driver   models.Driver
		lat, lng *float64
	)
	err := row.Scan(
		&driver.ID, &driver.Name, &driver.Phone, &driver.VehicleClass,
		&driver.VehiclePlate, &driver.Status, &driver.SocketID, &lat, &lng,
	)
	if err != nil {
		return models.Driver{}, err
	}
	if lat != nil && lng != nil {
		driver.Location = &models.Location{Latitude: *lat, Longitude: *lng}
	}
	return driver, nil
}
