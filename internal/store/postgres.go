package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"renaissance-story/internal/common/database"
	"renaissance-story/internal/models"

	"github.com/lib/pq"
)

// PostgresStore inserts directly into the submissions table.
type PostgresStore struct {
	pg    *database.PostgresClient
	query string
}

func NewPostgresStore(pg *database.PostgresClient, table string) *PostgresStore {
	placeholders := make([]string, len(models.SubmissionColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return &PostgresStore{
		pg: pg,
		query: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			pq.QuoteIdentifier(table),
			strings.Join(models.SubmissionColumns, ", "),
			strings.Join(placeholders, ", "),
		),
	}
}

// InsertSubmission returns the driver's own message on failure, e.g. the
// constraint violated.
func (s *PostgresStore) InsertSubmission(ctx context.Context, sub *models.ApplicantSubmission) error {
	if _, err := s.pg.Exec(ctx, s.query, sub.Values()...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return errors.New(pqErr.Message)
		}
		return err
	}
	return nil
}
