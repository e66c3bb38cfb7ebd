package subject

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
	"docket/pkg/platform/sentinel"
)

var subjectColumns = []string{"admission_date", "created_at", "marital_status", "role", "has_dependents", "has_extension"}

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgres(db, time.UTC)
	subjectID := id.NewSubjectID()
	created := time.Date(2025, time.May, 20, 12, 0, 0, 0, time.UTC)

	t.Run("maps columns to attributes", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM onboarding_subjects")).
			WithArgs(subjectID.String()).
			WillReturnRows(sqlmock.NewRows(subjectColumns).
				AddRow(time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC), created, "married", nil, true, nil))

		got, err := store.Get(context.Background(), subjectID)
		require.NoError(t, err)
		assert.Equal(t, "2025-05-05", got.ReferenceDate.String())

		marital, ok := got.Attribute(models.ConditionMaritalStatus)
		assert.True(t, ok)
		assert.Equal(t, "married", marital.String())

		deps, ok := got.Attribute(models.ConditionHasDependents)
		assert.True(t, ok)
		assert.True(t, deps.Bool())

		_, ok = got.Attribute(models.ConditionRole)
		assert.False(t, ok, "NULL column must be absent")
		_, ok = got.Attribute(models.ConditionHasExtension)
		assert.False(t, ok)
	})

	t.Run("missing admission date falls back to creation day", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM onboarding_subjects")).
			WithArgs(subjectID.String()).
			WillReturnRows(sqlmock.NewRows(subjectColumns).
				AddRow(nil, created, nil, nil, nil, nil))

		got, err := store.Get(context.Background(), subjectID)
		require.NoError(t, err)
		assert.Equal(t, "2025-05-20", got.ReferenceDate.String())
		assert.Empty(t, got.Attributes)
	})

	t.Run("no row is ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM onboarding_subjects")).
			WithArgs(subjectID.String()).
			WillReturnError(sql.ErrNoRows)

		_, err := store.Get(context.Background(), subjectID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, b := id.NewSubjectID(), id.NewSubjectID()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM onboarding_subjects")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := NewPostgres(db, time.UTC).ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []id.SubjectID{a, b}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
