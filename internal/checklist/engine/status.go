package engine

import (
	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

// ResolveStatus derives a requirement's status. First match wins:
//  1. anything submitted - on time, whatever the dates say
//  2. nothing submitted and today after the deadline - overdue
//  3. otherwise pending (the deadline day itself is still pending)
//
// It never returns StatusNotApplicable; only applicable rules reach it.
func ResolveStatus(deadline, today id.Date, submittedCount int) models.Status {
	if submittedCount > 0 {
		return models.StatusOnTime
	}
	if today.After(deadline) {
		return models.StatusOverdue
	}
	return models.StatusPending
}
