package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/models"
	"github.com/towradar/backend/internal/sources"
)

// IncidentStore is the slice of the persistence layer the pipeline
// needs; *db.Store satisfies it.
type IncidentStore interface {
	UpsertIncident(ctx context.Context, inc models.Incident) error
}

type RecordError struct {
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
}

type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

type Summary struct {
	Fetched      int           `json:"fetched"`
	Inserted     int           `json:"inserted"`
	SourceErrors []SourceError `json:"source_errors"`
	RecordErrors []RecordError `json:"record_errors"`
}

// Partial reports whether some records or sources failed while others
// succeeded.
func (s Summary) Partial() bool {
	return len(s.SourceErrors) > 0 || len(s.RecordErrors) > 0
}

type Pipeline struct {
	Sources []sources.Source
	Store   IncidentStore
	Logger  zerolog.Logger
}

// Run fetches every configured source and upserts the aggregate batch.
// A failing source degrades completeness for that source only; a
// failing upsert is collected per record. Neither aborts the run.
func (p *Pipeline) Run(ctx context.Context) Summary {
	summary := Summary{SourceErrors: []SourceError{}, RecordErrors: []RecordError{}}

	var batch []models.Incident
	for _, src := range p.Sources {
		incidents, err := src.Fetch(ctx)
		if err != nil {
			p.Logger.Error().Err(err).Str("source", src.Name()).Msg("source fetch failed")
			summary.SourceErrors = append(summary.SourceErrors, SourceError{Source: src.Name(), Message: err.Error()})
			continue
		}
		p.Logger.Info().Str("source", src.Name()).Int("count", len(incidents)).Msg("source fetched")
		batch = append(batch, incidents...)
	}
	summary.Fetched = len(batch)

	for _, inc := range batch {
		if err := p.Store.UpsertIncident(ctx, inc); err != nil {
			p.Logger.Error().Err(err).Str("source", inc.Source).Str("external_id", inc.ExternalID).Msg("upsert failed")
			summary.RecordErrors = append(summary.RecordErrors, RecordError{
				Source:     inc.Source,
				ExternalID: inc.ExternalID,
				Message:    err.Error(),
			})
			continue
		}
		summary.Inserted++
	}
	return summary
}
