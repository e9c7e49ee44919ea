package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/towradar/backend/internal/models"
)

const companyColumns = `id, user_id, name, base_lat, base_lng, radius_km, alert_buffer_km,
	alerts_enabled, alert_crash, alert_disabled, alert_hazard,
	alert_email, alert_phone, quiet_hours_start, quiet_hours_end`

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCompanyByUser(ctx context.Context, userID string) (models.Company, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, userID)
	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Company{}, ErrNotFound
	}
	return c, err
}

// The schema keeps one boolean column per category; the model exposes
// them as a toggle map keyed by display category.
func scanCompany(row pgx.Row) (models.Company, error) {
	var (
		c                              models.Company
		alertCrash, alertDis, alertHaz bool
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.BaseLat, &c.BaseLng, &c.RadiusKm, &c.AlertBufferKm,
		&c.AlertsEnabled, &alertCrash, &alertDis, &alertHaz,
		&c.AlertEmail, &c.AlertPhone, &c.QuietStart, &c.QuietEnd); err != nil {
		return models.Company{}, err
	}
	c.AlertToggles = map[models.DisplayCategory]bool{
		models.DisplayCrash:    alertCrash,
		models.DisplayDisabled: alertDis,
		models.DisplayHazard:   alertHaz,
	}
	return c, nil
}
