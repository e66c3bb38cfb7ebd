package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
	dErrors "docket/pkg/domain-errors"
)

// BatchResult is the outcome for one subject of a batch. Exactly one of
// Checklist and Err is set.
type BatchResult struct {
	SubjectID id.SubjectID
	Checklist *models.ResolvedChecklist
	Err       error
}

// ResolveBatch resolves many subjects against a single read of the rule set
// and a single evaluation date. Subject failures are reported per entry and
// never stop the rest of the batch. Results keep the order of subjectIDs.
//
// The only batch-level error is failing to load the rule set. Once ctx is
// cancelled no further subjects are started; those entries carry a
// service_unavailable error wrapping ctx.Err().
func (s *Service) ResolveBatch(ctx context.Context, subjectIDs []id.SubjectID) ([]BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "checklist.ResolveBatch",
		trace.WithAttributes(attribute.Int("batch.size", len(subjectIDs))))
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveBatch(start, len(subjectIDs))

	templates, err := s.loadTemplates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load templates")
		return nil, err
	}
	today := s.today(ctx)

	results := make([]BatchResult, len(subjectIDs))
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, subjectID := range subjectIDs {
		results[i].SubjectID = subjectID
		if ctx.Err() != nil {
			results[i].Err = cancelled(ctx)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i].Err = cancelled(ctx)
				return nil
			}
			checklist, err := s.resolve(ctx, subjectID, templates, today)
			if err != nil {
				s.recordFailure(ctx, subjectID, err)
				results[i].Err = err
				return nil
			}
			results[i].Checklist = checklist
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("batch.failed", failed))
	s.logInfo(ctx, "checklist batch resolved",
		"subjects", len(subjectIDs),
		"failed", failed,
		"evaluated_on", today.String(),
	)
	return results, nil
}

func cancelled(ctx context.Context) error {
	return dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "batch cancelled before subject was resolved")
}
