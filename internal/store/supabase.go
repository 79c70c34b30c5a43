package store

import (
	"context"

	"renaissance-story/internal/models"
)

type inserter interface {
	Insert(ctx context.Context, table string, rows interface{}) error
}

// SupabaseStore inserts through the PostgREST API.
type SupabaseStore struct {
	client inserter
	table  string
}

func NewSupabaseStore(client inserter, table string) *SupabaseStore {
	return &SupabaseStore{client: client, table: table}
}

// InsertSubmission sends a one-row array, as PostgREST expects for bulk insert.
func (s *SupabaseStore) InsertSubmission(ctx context.Context, sub *models.ApplicantSubmission) error {
	return s.client.Insert(ctx, s.table, []*models.ApplicantSubmission{sub})
}
