package db

import (
	"context"
	"time"

	"github.com/towradar/backend/internal/models"
)

// UpsertIncident inserts or refreshes an incident keyed by its natural
// key (source, external_id). The ON CONFLICT clause is the sole safety
// mechanism against concurrent ingestion runs; there is no outer lock.
func (s *Store) UpsertIncident(ctx context.Context, inc models.Incident) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO incidents (source, external_id, category, description, lat, lng, road, city, state, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (source, external_id) DO UPDATE SET
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			road = EXCLUDED.road,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			occurred_at = EXCLUDED.occurred_at
	`, inc.Source, inc.ExternalID, inc.Category, inc.Description, inc.Lat, inc.Lng, inc.Road, inc.City, inc.State, inc.OccurredAt)
	return err
}

func (s *Store) ListIncidentsSince(ctx context.Context, cutoff time.Time) ([]models.Incident, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, source, external_id, category, description, lat, lng, road, city, state, occurred_at
		FROM incidents
		WHERE occurred_at >= $1
		ORDER BY occurred_at DESC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Incident
	for rows.Next() {
		var inc models.Incident
		if err := rows.Scan(&inc.ID, &inc.Source, &inc.ExternalID, &inc.Category, &inc.Description,
			&inc.Lat, &inc.Lng, &inc.Road, &inc.City, &inc.State, &inc.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *Store) CountIncidents(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&n)
	return n, err
}
