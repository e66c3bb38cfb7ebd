package testutil

import (
	"context"
	"time"

	"docket/pkg/requestcontext"
)

// FixedDay returns a context whose request time is noon UTC on the given day,
// so the date is the same in any business timezone between UTC-11 and UTC+11.
func FixedDay(year int, month time.Month, day int) context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}
