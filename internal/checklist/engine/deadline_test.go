package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

func TestComputeDeadline(t *testing.T) {
	base := id.NewDate(2024, time.January, 1)

	t.Run("zero offset returns the base date", func(t *testing.T) {
		d, err := ComputeDeadline(base, 0)
		require.NoError(t, err)
		assert.True(t, d.Equal(base))
	})

	t.Run("adds calendar days", func(t *testing.T) {
		d, err := ComputeDeadline(base, 5)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-06", d.String())
	})

	t.Run("crosses leap day", func(t *testing.T) {
		d, err := ComputeDeadline(id.NewDate(2024, time.February, 27), 3)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", d.String())
	})

	t.Run("strictly increasing in offset", func(t *testing.T) {
		prev, err := ComputeDeadline(base, 0)
		require.NoError(t, err)
		for n := 1; n <= 400; n++ {
			next, err := ComputeDeadline(base, n)
			require.NoError(t, err)
			require.True(t, next.After(prev), "offset %d", n)
			prev = next
		}
	})

	t.Run("rejects negative offset", func(t *testing.T) {
		_, err := ComputeDeadline(base, -1)
		assert.ErrorIs(t, err, models.ErrInvalidOffset)
	})

	t.Run("rejects missing base date", func(t *testing.T) {
		_, err := ComputeDeadline(id.Date{}, 5)
		assert.ErrorIs(t, err, models.ErrMissingReferenceDate)
	})
}
