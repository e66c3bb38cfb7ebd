package checklist_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/checklist"
	"docket/internal/checklist/models"
	"docket/internal/checklist/store/subject"
	"docket/internal/platform/config"
	id "docket/pkg/domain"
	"docket/pkg/testutil"
)

const ruleSet = `
templates:
  - id: tpl-rg
    document_type: rg
    category: identification
    deadline_offset_days: 3
  - id: tpl-marriage
    document_type: marriage_certificate
    category: certifications
    deadline_offset_days: 10
    conditional: true
    condition_type: marital_status
    condition_values: [married]
`

func fileConfig(t *testing.T) config.ChecklistConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ruleSet), 0o600))
	return config.ChecklistConfig{
		RuleSetFile:         path,
		MalformedRulePolicy: "skip",
		BatchConcurrency:    2,
		Timezone:            "America/Sao_Paulo",
	}
}

func TestOpenStoresFromRuleSetFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := fileConfig(t)

	stores, err := checklist.OpenStores(cfg, nil, nil, logger, nil)
	require.NoError(t, err)
	assert.Nil(t, stores.Reloader, "watching is opt-in")

	templates, err := stores.Rules.ListActiveTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "tpl-marriage", templates[0].ID, "certifications sorts before identification")

	cfg.RuleSetWatch = true
	stores, err = checklist.OpenStores(cfg, nil, nil, logger, nil)
	require.NoError(t, err)
	assert.NotNil(t, stores.Reloader)
}

func TestOpenStoresRejectsMissingRuleSet(t *testing.T) {
	cfg := fileConfig(t)
	cfg.RuleSetFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := checklist.OpenStores(cfg, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestNewServiceResolvesFromMemoryStores(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := fileConfig(t)
	stores, err := checklist.OpenStores(cfg, nil, nil, logger, nil)
	require.NoError(t, err)

	subjects, ok := stores.Subjects.(*subject.InMemory)
	require.True(t, ok)
	subjectID := id.NewSubjectID()
	require.NoError(t, subjects.Save(context.Background(), subject.Record{
		ID:            subjectID,
		AdmissionDate: id.NewDate(2024, time.January, 1),
		Attributes: map[models.ConditionType]models.Value{
			models.ConditionMaritalStatus: models.StringValue("single"),
		},
	}))

	svc, err := checklist.NewService(cfg, stores, logger, nil)
	require.NoError(t, err)

	got, err := svc.ResolveSubject(testutil.FixedDay(2024, time.January, 5), subjectID)
	require.NoError(t, err)
	require.Len(t, got.Requirements, 1)
	assert.Equal(t, "rg", got.Requirements[0].DocumentType)
	assert.Equal(t, models.StatusOverdue, got.Requirements[0].Status)
}

func TestNewServiceRejectsUnknownPolicy(t *testing.T) {
	cfg := fileConfig(t)
	cfg.MalformedRulePolicy = "ignore"
	stores, err := checklist.OpenStores(cfg, nil, nil, nil, nil)
	require.NoError(t, err)
	_, err = checklist.NewService(cfg, stores, nil, nil)
	assert.Error(t, err)
}

const subjectsSeed = `
subjects:
  - id: 7d0f3c1e-5b8a-4f7e-9c2d-1a6b4e8f0c31
    admission_date: 2024-01-01
    created_at: 2023-12-20T10:00:00-03:00
    attributes:
      marital_status: married
    submissions:
      rg: 1
`

func TestOpenStoresSeedsSubjectsFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := fileConfig(t)
	cfg.SubjectsFile = filepath.Join(t.TempDir(), "subjects.yaml")
	require.NoError(t, os.WriteFile(cfg.SubjectsFile, []byte(subjectsSeed), 0o600))

	stores, err := checklist.OpenStores(cfg, nil, nil, logger, nil)
	require.NoError(t, err)

	ids, err := stores.Subjects.ListIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, "7d0f3c1e-5b8a-4f7e-9c2d-1a6b4e8f0c31", ids[0].String())

	svc, err := checklist.NewService(cfg, stores, logger, nil)
	require.NoError(t, err)
	got, err := svc.ResolveSubject(testutil.FixedDay(2024, time.January, 5), ids[0])
	require.NoError(t, err)
	require.Len(t, got.Requirements, 2)

	byType := make(map[string]models.ResolvedRequirement)
	for _, r := range got.Requirements {
		byType[r.DocumentType] = r
	}
	assert.Equal(t, models.StatusOnTime, byType["rg"].Status)
	assert.Equal(t, models.StatusPending, byType["marriage_certificate"].Status)
}

func TestOpenStoresRejectsBadSubjectsFile(t *testing.T) {
	cfg := fileConfig(t)
	cfg.SubjectsFile = filepath.Join(t.TempDir(), "subjects.yaml")
	require.NoError(t, os.WriteFile(cfg.SubjectsFile, []byte("subjects:\n  - id: nope\n"), 0o600))

	_, err := checklist.OpenStores(cfg, nil, nil, nil, nil)
	assert.Error(t, err)

	cfg.SubjectsFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = checklist.OpenStores(cfg, nil, nil, nil, nil)
	assert.Error(t, err)
}
