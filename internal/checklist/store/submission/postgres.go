package submission

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

// PostgresStore aggregates uploaded files per document type.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListForSubject(ctx context.Context, subjectID id.SubjectID) ([]models.SubmittedArtifact, error) {
	query := `
		SELECT document_type, SUM(file_count)
		FROM submitted_documents
		WHERE subject_id = $1
		GROUP BY document_type
		ORDER BY document_type
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(subjectID))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []models.SubmittedArtifact{}
	for rows.Next() {
		a := models.SubmittedArtifact{SubjectID: subjectID}
		if err := rows.Scan(&a.DocumentType, &a.Count); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// Record stores one upload of count files.
func (s *PostgresStore) Record(ctx context.Context, a models.SubmittedArtifact) error {
	query := `
		INSERT INTO submitted_documents (id, subject_id, document_type, file_count)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, uuid.New(), uuid.UUID(a.SubjectID), a.DocumentType, a.Count); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}
