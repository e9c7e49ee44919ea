package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/towradar/backend/internal/models"
)

const claimColumns = `id, company_id, incident_id, status, truck_id, driver_id,
	claimed_at, en_route_at, on_scene_at, completed_at`

// CreateClaim atomically claims an incident for a company and marks
// the truck on_job in the same transaction. A concurrent claimant hits
// the unique index on (company_id, incident_id) and gets
// ErrAlreadyClaimed; a truck that is no longer available rolls the
// claim back with ErrTruckUnavailable.
func (s *Store) CreateClaim(ctx context.Context, claim models.Claim) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO company_incident_claims (id, company_id, incident_id, status, truck_id, driver_id, claimed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (company_id, incident_id) DO NOTHING
		`, claim.ID, claim.CompanyID, claim.IncidentID, claim.Status, claim.TruckID, claim.DriverID, claim.ClaimedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyClaimed
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyClaimed
		}

		if claim.TruckID != nil {
			tag, err := tx.Exec(ctx, `
				UPDATE trucks SET status = $1 WHERE id = $2 AND status = $3
			`, models.TruckOnJob, *claim.TruckID, models.TruckAvailable)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrTruckUnavailable
			}
		}
		return nil
	})
}

// AdvanceClaim moves a claim one step forward. The status predicate in
// the UPDATE makes the transition conditional: zero rows means the
// claim was not in the expected state.
func (s *Store) AdvanceClaim(ctx context.Context, claimID, companyID string, from, to models.ClaimStatus) error {
	stamp := stampColumn(to)
	query := fmt.Sprintf(`
		UPDATE company_incident_claims
		SET status = $1, %s = NOW()
		WHERE id = $2 AND company_id = $3 AND status = $4
	`, stamp)
	tag, err := s.Pool.Exec(ctx, query, to, claimID, companyID, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// CompleteClaim finishes a claim from any active state and frees the
// assigned truck in the same transaction. If the truck update fails the
// whole operation rolls back so the inconsistency is surfaced.
func (s *Store) CompleteClaim(ctx context.Context, claimID, companyID string) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var truckID *string
		err := tx.QueryRow(ctx, `
			UPDATE company_incident_claims
			SET status = $1, completed_at = NOW()
			WHERE id = $2 AND company_id = $3 AND status <> $1
			RETURNING truck_id
		`, models.ClaimCompleted, claimID, companyID).Scan(&truckID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidTransition
			}
			return err
		}

		if truckID != nil {
			if _, err := tx.Exec(ctx, `
				UPDATE trucks SET status = $1 WHERE id = $2
			`, models.TruckAvailable, *truckID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetClaim(ctx context.Context, claimID string) (models.Claim, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+claimColumns+` FROM company_incident_claims WHERE id = $1`, claimID)
	var c models.Claim
	err := row.Scan(&c.ID, &c.CompanyID, &c.IncidentID, &c.Status, &c.TruckID, &c.DriverID,
		&c.ClaimedAt, &c.EnRouteAt, &c.OnSceneAt, &c.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Claim{}, ErrNotFound
	}
	return c, err
}

func (s *Store) ListClaimsByCompany(ctx context.Context, companyID string, activeOnly bool) ([]models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM company_incident_claims WHERE company_id = $1`
	if activeOnly {
		query += ` AND status <> 'completed'`
	}
	query += ` ORDER BY claimed_at DESC`

	rows, err := s.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Claim
	for rows.Next() {
		var c models.Claim
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.IncidentID, &c.Status, &c.TruckID, &c.DriverID,
			&c.ClaimedAt, &c.EnRouteAt, &c.OnSceneAt, &c.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CountActiveClaimsByDriver(ctx context.Context, driverID string) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM company_incident_claims
		WHERE driver_id = $1 AND status <> 'completed'
	`, driverID).Scan(&n)
	return n, err
}

func stampColumn(to models.ClaimStatus) string {
	switch to {
	case models.ClaimEnRoute:
		return "en_route_at"
	case models.ClaimOnScene:
		return "on_scene_at"
	case models.ClaimCompleted:
		return "completed_at"
	default:
		return "claimed_at"
	}
}
