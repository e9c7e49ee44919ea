package db

import (
	"context"
)

// CreateNotificationRecord conditionally inserts a ledger row for the
// (company, incident) pair. The returned flag is true only for the
// caller that actually created the row; concurrent evaluations of the
// same pair see false and must not dispatch.
func (s *Store) CreateNotificationRecord(ctx context.Context, companyID, incidentID, channel string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO company_incident_notifications (company_id, incident_id, channel, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (company_id, incident_id) DO NOTHING
	`, companyID, incidentID, channel)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountNotifications(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM company_incident_notifications WHERE company_id = $1`, companyID).Scan(&n)
	return n, err
}
