package template

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleRuleSet = `
templates:
  - id: tpl-cpf
    document_type: cpf
    category: identification
    deadline_offset_days: 3
`

func newWatchedStore(t *testing.T) (string, *InMemory) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRuleSet), 0o600))
	templates, err := LoadFile(path)
	require.NoError(t, err)
	store, err := NewInMemory(templates)
	require.NoError(t, err)
	return path, store
}

func activeIDs(t *testing.T, store *InMemory) []string {
	t.Helper()
	templates, err := store.ListActiveTemplates(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(templates))
	for _, tpl := range templates {
		ids = append(ids, tpl.ID)
	}
	return ids
}

func TestReloader_Reload(t *testing.T) {
	quiet := WithReloadLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("unchanged content is a no-op", func(t *testing.T) {
		path, store := newWatchedStore(t)
		reloads := 0
		r := NewReloader(path, store, quiet, OnReload(func(context.Context) { reloads++ }))

		assert.False(t, r.Reload(context.Background()))
		assert.Zero(t, reloads)
	})

	t.Run("valid revision replaces the rule set", func(t *testing.T) {
		path, store := newWatchedStore(t)
		reloads := 0
		r := NewReloader(path, store, quiet, OnReload(func(context.Context) { reloads++ }))

		require.NoError(t, os.WriteFile(path, []byte(singleRuleSet), 0o600))
		assert.True(t, r.Reload(context.Background()))
		assert.Equal(t, []string{"tpl-cpf"}, activeIDs(t, store))
		assert.Equal(t, 1, reloads)
	})

	t.Run("invalid revision keeps the previous rule set", func(t *testing.T) {
		path, store := newWatchedStore(t)
		before := activeIDs(t, store)
		r := NewReloader(path, store, quiet)

		bad := strings.Replace(singleRuleSet, "deadline_offset_days: 3", "deadline_offset_days: 3\n    condition_type: shoe_size", 1)
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))
		assert.False(t, r.Reload(context.Background()))
		assert.Equal(t, before, activeIDs(t, store))
	})

	t.Run("missing file keeps the previous rule set", func(t *testing.T) {
		path, store := newWatchedStore(t)
		before := activeIDs(t, store)
		r := NewReloader(path, store, quiet)

		require.NoError(t, os.Remove(path))
		assert.False(t, r.Reload(context.Background()))
		assert.Equal(t, before, activeIDs(t, store))
	})
}

func TestReloader_RunPicksUpWrites(t *testing.T) {
	path, store := newWatchedStore(t)
	r := NewReloader(path, store,
		WithReloadLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithReloadDebounce(20*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(singleRuleSet), 0o600))

	assert.Eventually(t, func() bool {
		ids := activeIDs(t, store)
		return len(ids) == 1 && ids[0] == "tpl-cpf"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
