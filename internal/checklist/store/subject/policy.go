package subject

import (
	"time"

	id "docket/pkg/domain"
)

// ReferenceDate picks the date deadlines are counted from: the admission date
// when one is recorded, otherwise the calendar day the case was created in loc.
// A nil loc means UTC.
func ReferenceDate(admission id.Date, createdAt time.Time, loc *time.Location) id.Date {
	if !admission.IsZero() {
		return admission
	}
	if createdAt.IsZero() {
		return id.Date{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return id.DateIn(createdAt, loc)
}
