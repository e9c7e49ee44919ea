package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/models"
)

// MaxActiveClaimsPerDriver caps simultaneous non-completed claims per
// driver. This is a pre-check, not a storage invariant.
const MaxActiveClaimsPerDriver = 2

var (
	ErrDriverBusy = errors.New("driver at active claim limit")
	ErrNoTruck    = errors.New("no available truck")
)

// ClaimStore is the slice of the persistence layer claim coordination
// needs; *db.Store satisfies it.
type ClaimStore interface {
	CreateClaim(ctx context.Context, claim models.Claim) error
	AdvanceClaim(ctx context.Context, claimID, companyID string, from, to models.ClaimStatus) error
	CompleteClaim(ctx context.Context, claimID, companyID string) error
	CountActiveClaimsByDriver(ctx context.Context, driverID string) (int, error)
	FindAvailableTruck(ctx context.Context, companyID string) (models.Truck, error)
}

type Claims struct {
	Store  ClaimStore
	Logger zerolog.Logger
}

// Claim creates the exclusive (company, incident) claim. Winning the
// race is decided by the store's conditional insert, not by any check
// done here; this layer only applies the driver-capacity policy and
// picks a truck when the caller did not.
func (s *Claims) Claim(ctx context.Context, companyID, incidentID string, truckID, driverID *string) (models.Claim, error) {
	if driverID != nil {
		active, err := s.Store.CountActiveClaimsByDriver(ctx, *driverID)
		if err != nil {
			return models.Claim{}, err
		}
		if active >= MaxActiveClaimsPerDriver {
			return models.Claim{}, ErrDriverBusy
		}
	}

	if truckID == nil {
		truck, err := s.Store.FindAvailableTruck(ctx, companyID)
		if err != nil {
			return models.Claim{}, ErrNoTruck
		}
		truckID = &truck.ID
	}

	claim := models.Claim{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		IncidentID: incidentID,
		Status:     models.ClaimClaimed,
		TruckID:    truckID,
		DriverID:   driverID,
		ClaimedAt:  time.Now().UTC(),
	}
	if err := s.Store.CreateClaim(ctx, claim); err != nil {
		return models.Claim{}, err
	}
	s.Logger.Info().Str("company_id", companyID).Str("incident_id", incidentID).Msg("incident claimed")
	return claim, nil
}

// Advance moves a claim strictly forward. Completion is allowed from
// any active state (the simplified claimed → completed flow) and frees
// the truck as part of the same store transaction.
func (s *Claims) Advance(ctx context.Context, companyID, claimID string, to models.ClaimStatus) error {
	switch to {
	case models.ClaimCompleted:
		return s.Store.CompleteClaim(ctx, claimID, companyID)
	case models.ClaimEnRoute:
		return s.Store.AdvanceClaim(ctx, claimID, companyID, models.ClaimClaimed, to)
	case models.ClaimOnScene:
		return s.Store.AdvanceClaim(ctx, claimID, companyID, models.ClaimEnRoute, to)
	default:
		return errors.New("unknown target status")
	}
}
