package subject

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
	"docket/pkg/platform/sentinel"
)

// PostgresStore reads onboarding cases from the onboarding_subjects table.
type PostgresStore struct {
	db       *sql.DB
	location *time.Location
}

func NewPostgres(db *sql.DB, loc *time.Location) *PostgresStore {
	return &PostgresStore{db: db, location: loc}
}

func (s *PostgresStore) Get(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	query := `
		SELECT admission_date, created_at, marital_status, role, has_dependents, has_extension
		FROM onboarding_subjects
		WHERE id = $1
	`
	var (
		admission     id.Date
		createdAt     time.Time
		maritalStatus sql.NullString
		role          sql.NullString
		hasDependents sql.NullBool
		hasExtension  sql.NullBool
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(subjectID)).Scan(
		&admission, &createdAt, &maritalStatus, &role, &hasDependents, &hasExtension,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", subjectID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}

	attrs := make(map[models.ConditionType]models.Value, 4)
	if maritalStatus.Valid {
		attrs[models.ConditionMaritalStatus] = models.StringValue(maritalStatus.String)
	}
	if role.Valid {
		attrs[models.ConditionRole] = models.StringValue(role.String)
	}
	if hasDependents.Valid {
		attrs[models.ConditionHasDependents] = models.BoolValue(hasDependents.Bool)
	}
	if hasExtension.Valid {
		attrs[models.ConditionHasExtension] = models.BoolValue(hasExtension.Bool)
	}

	return &models.Subject{
		ID:            subjectID,
		ReferenceDate: ReferenceDate(admission, createdAt, s.location),
		Attributes:    attrs,
	}, nil
}

func (s *PostgresStore) ListIDs(ctx context.Context) ([]id.SubjectID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM onboarding_subjects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var ids []id.SubjectID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan subject id: %w", err)
		}
		ids = append(ids, id.SubjectID(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return ids, nil
}

// Save upserts a case. Absent attributes are stored as NULL.
func (s *PostgresStore) Save(ctx context.Context, r Record) error {
	query := `
		INSERT INTO onboarding_subjects (id, admission_date, created_at, marital_status, role, has_dependents, has_extension)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			admission_date = EXCLUDED.admission_date,
			marital_status = EXCLUDED.marital_status,
			role = EXCLUDED.role,
			has_dependents = EXCLUDED.has_dependents,
			has_extension = EXCLUDED.has_extension
	`
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(r.ID), r.AdmissionDate, createdAt,
		nullString(r.Attributes, models.ConditionMaritalStatus),
		nullString(r.Attributes, models.ConditionRole),
		nullBool(r.Attributes, models.ConditionHasDependents),
		nullBool(r.Attributes, models.ConditionHasExtension),
	)
	if err != nil {
		return fmt.Errorf("save subject: %w", err)
	}
	return nil
}

func nullString(attrs map[models.ConditionType]models.Value, ct models.ConditionType) sql.NullString {
	v, ok := attrs[ct]
	if !ok || v.Kind() != models.KindString {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}

func nullBool(attrs map[models.ConditionType]models.Value, ct models.ConditionType) sql.NullBool {
	v, ok := attrs[ct]
	if !ok || v.Kind() != models.KindBool {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: v.Bool(), Valid: true}
}
