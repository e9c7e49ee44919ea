package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/towradar/backend/internal/models"
)

func (s *Store) FindAvailableTruck(ctx context.Context, companyID string) (models.Truck, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, company_id, name, status FROM trucks
		WHERE company_id = $1 AND status = $2
		ORDER BY name ASC
		LIMIT 1
	`, companyID, models.TruckAvailable)

	var t models.Truck
	err := row.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Truck{}, ErrNotFound
	}
	return t, err
}

func (s *Store) ListTrucks(ctx context.Context, companyID string) ([]models.Truck, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, company_id, name, status FROM trucks
		WHERE company_id = $1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Truck
	for rows.Next() {
		var t models.Truck
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Status); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
