package submission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	subject := id.NewSubjectID()
	other := id.NewSubjectID()

	require.NoError(t, store.Record(ctx, models.SubmittedArtifact{SubjectID: subject, DocumentType: "rg", Count: 1}))
	require.NoError(t, store.Record(ctx, models.SubmittedArtifact{SubjectID: subject, DocumentType: "rg", Count: 2}))
	require.NoError(t, store.Record(ctx, models.SubmittedArtifact{SubjectID: other, DocumentType: "cpf", Count: 1}))

	t.Run("returns only the subject's uploads", func(t *testing.T) {
		got, err := store.ListForSubject(ctx, subject)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		for _, a := range got {
			assert.Equal(t, subject, a.SubjectID)
		}
	})

	t.Run("subject without uploads yields empty slice", func(t *testing.T) {
		got, err := store.ListForSubject(ctx, id.NewSubjectID())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
