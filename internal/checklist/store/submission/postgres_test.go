package submission

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

func TestPostgresStore_ListForSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgres(db)
	subjectID := id.NewSubjectID()

	t.Run("aggregates per document type", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SUM(file_count)")).
			WithArgs(subjectID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"document_type", "sum"}).
				AddRow("cpf", int64(1)).
				AddRow("rg", int64(3)))

		got, err := store.ListForSubject(context.Background(), subjectID)
		require.NoError(t, err)
		assert.Equal(t, []models.SubmittedArtifact{
			{SubjectID: subjectID, DocumentType: "cpf", Count: 1},
			{SubjectID: subjectID, DocumentType: "rg", Count: 3},
		}, got)
	})

	t.Run("no uploads yields empty slice", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SUM(file_count)")).
			WithArgs(subjectID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"document_type", "sum"}))

		got, err := store.ListForSubject(context.Background(), subjectID)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("query failure is returned", func(t *testing.T) {
		boom := errors.New("timeout")
		mock.ExpectQuery(regexp.QuoteMeta("SUM(file_count)")).WillReturnError(boom)

		_, err := store.ListForSubject(context.Background(), subjectID)
		assert.ErrorIs(t, err, boom)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	subjectID := id.NewSubjectID()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submitted_documents")).
		WithArgs(sqlmock.AnyArg(), subjectID.String(), "rg", 2).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewPostgres(db).Record(context.Background(), models.SubmittedArtifact{SubjectID: subjectID, DocumentType: "rg", Count: 2})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
