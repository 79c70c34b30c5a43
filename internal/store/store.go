// Package store writes applicant submissions to the configured backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"renaissance-story/internal/common/config"
	"renaissance-story/internal/common/database"
	"renaissance-story/internal/common/supabase"
	"renaissance-story/internal/models"
)

// ErrNotConfigured is returned by New when the selected backend lacks credentials.
var ErrNotConfigured = errors.New("STORE_NOT_CONFIGURED")

// Store persists one submission per call. Implementations never retry.
type Store interface {
	InsertSubmission(ctx context.Context, sub *models.ApplicantSubmission) error
}

// New returns the store selected by cfg.Driver. pg is only used by the
// postgres driver and may be nil otherwise.
func New(cfg config.StorageConfig, pg *database.PostgresClient) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverPostgres:
		if pg == nil {
			return nil, fmt.Errorf("%w: postgres client missing", ErrNotConfigured)
		}
		return NewPostgresStore(pg, cfg.Table), nil
	case config.StorageDriverSupabase, "":
		client, err := supabase.NewClient(supabase.Config{
			URL:        cfg.Supabase.URL,
			ServiceKey: cfg.Supabase.ServiceRole,
			Timeout:    config.GetDuration(cfg.Timeout),
		})
		if err != nil {
			if errors.Is(err, supabase.ErrNotConfigured) {
				return nil, fmt.Errorf("%w: SUPABASE_URL or SUPABASE_SERVICE_ROLE missing", ErrNotConfigured)
			}
			return nil, err
		}
		return NewSupabaseStore(client, cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
