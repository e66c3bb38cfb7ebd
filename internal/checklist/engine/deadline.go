package engine

import (
	"fmt"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

// ComputeDeadline returns base moved forward by offsetDays calendar days.
func ComputeDeadline(base id.Date, offsetDays int) (id.Date, error) {
	if base.IsZero() {
		return id.Date{}, models.ErrMissingReferenceDate
	}
	if offsetDays < 0 {
		return id.Date{}, fmt.Errorf("%w: %d days", models.ErrInvalidOffset, offsetDays)
	}
	return base.AddDays(offsetDays), nil
}
