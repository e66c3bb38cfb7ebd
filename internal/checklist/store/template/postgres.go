package template

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"docket/internal/checklist/models"
)

const listActiveQuery = `
	SELECT id, document_type, display_name, category, mandatory_by_default,
	       deadline_offset_days, conditional, condition_type, condition_values,
	       allows_multiple_files, instructions, accepted_format
	FROM requirement_templates
	WHERE active`

// PostgresStore reads the active rule set from PostgreSQL.
//
// Rows are decoded leniently: a row whose condition does not validate is
// still returned, so the engine's malformed-rule policy decides what happens
// to it instead of one bad row hiding the whole rule set. Ordering is done in
// Go with models.SortTemplates so it matches the other stores byte for byte
// regardless of the database collation.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListActiveTemplates(ctx context.Context) ([]models.RequirementTemplate, error) {
	rows, err := s.db.QueryContext(ctx, listActiveQuery)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []models.RequirementTemplate
	for rows.Next() {
		var (
			t             models.RequirementTemplate
			conditionType sql.NullString
			values        pq.StringArray
			instructions  sql.NullString
		)
		if err := rows.Scan(
			&t.ID, &t.DocumentType, &t.DisplayName, &t.Category, &t.MandatoryByDefault,
			&t.DeadlineOffsetDays, &t.Conditional, &conditionType, &values,
			&t.AllowsMultipleFiles, &instructions, &t.AcceptedFormat,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Instructions = instructions.String
		if conditionType.Valid {
			t.ConditionType = models.ConditionType(conditionType.String)
			t.ConditionValues = decodeValues(t.ConditionType, values)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	models.SortTemplates(out)
	return out, nil
}

// decodeValues types raw column values by condition kind. Values that do not
// parse are kept as strings so validation reports them.
func decodeValues(ct models.ConditionType, raw []string) models.ValueSet {
	values := make([]models.Value, 0, len(raw))
	for _, r := range raw {
		v, err := ct.ParseValue(r)
		if err != nil {
			v = models.StringValue(r)
		}
		values = append(values, v)
	}
	return models.NewValueSet(values...)
}
