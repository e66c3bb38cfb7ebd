package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docket/internal/checklist/engine"
	"docket/internal/checklist/metrics"
	"docket/internal/checklist/models"
	id "docket/pkg/domain"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/sentinel"
	"docket/pkg/requestcontext"
)

const tracerName = "docket/internal/checklist/service"

type RuleRepository interface {
	ListActiveTemplates(ctx context.Context) ([]models.RequirementTemplate, error)
}

type SubjectRepository interface {
	Get(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error)
}

type SubmissionRepository interface {
	ListForSubject(ctx context.Context, subjectID id.SubjectID) ([]models.SubmittedArtifact, error)
}

// Service loads rules, subjects and submissions and hands them to the engine.
// It owns the notion of "today" and all error translation; the engine stays pure.
type Service struct {
	rules       RuleRepository
	subjects    SubjectRepository
	submissions SubmissionRepository
	engine      *engine.Engine
	logger      *slog.Logger
	metrics     *metrics.Metrics
	location    *time.Location
	concurrency int
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocation sets the business timezone used to turn the request time into
// the evaluation date.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithConcurrency bounds how many subjects a batch resolves at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(
	rules RuleRepository,
	subjects SubjectRepository,
	submissions SubmissionRepository,
	eng *engine.Engine,
	opts ...Option,
) *Service {
	s := &Service{
		rules:       rules,
		subjects:    subjects,
		submissions: submissions,
		engine:      eng,
		location:    time.UTC,
		concurrency: 8,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = engine.New(engine.WithLogger(s.logger), engine.WithMetrics(s.metrics))
	}
	return s
}

// ResolveSubject builds the checklist for one subject as of the request date.
func (s *Service) ResolveSubject(ctx context.Context, subjectID id.SubjectID) (*models.ResolvedChecklist, error) {
	ctx, span := s.tracer.Start(ctx, "checklist.ResolveSubject",
		trace.WithAttributes(attribute.String("subject.id", subjectID.String())))
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveResolve(start)

	templates, err := s.loadTemplates(ctx)
	if err != nil {
		s.fail(ctx, span, subjectID, err)
		return nil, err
	}

	checklist, err := s.resolve(ctx, subjectID, templates, s.today(ctx))
	if err != nil {
		s.fail(ctx, span, subjectID, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("checklist.requirements", checklist.Summary.Total))
	return checklist, nil
}

// ListTemplates returns the active rule set in store order.
func (s *Service) ListTemplates(ctx context.Context) ([]models.RequirementTemplate, error) {
	ctx, span := s.tracer.Start(ctx, "checklist.ListTemplates")
	defer span.End()

	templates, err := s.loadTemplates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load templates")
		return nil, err
	}
	return templates, nil
}

func (s *Service) today(ctx context.Context) id.Date {
	return id.DateIn(requestcontext.Now(ctx), s.location)
}

func (s *Service) loadTemplates(ctx context.Context) ([]models.RequirementTemplate, error) {
	start := time.Now()
	templates, err := s.rules.ListActiveTemplates(ctx)
	s.metrics.ObserveRepositoryLatency("templates", time.Since(start))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load requirement templates")
	}
	return templates, nil
}

// resolve runs one subject against an already loaded rule set.
func (s *Service) resolve(
	ctx context.Context,
	subjectID id.SubjectID,
	templates []models.RequirementTemplate,
	today id.Date,
) (*models.ResolvedChecklist, error) {
	start := time.Now()
	subject, err := s.subjects.Get(ctx, subjectID)
	s.metrics.ObserveRepositoryLatency("subject", time.Since(start))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "subject not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
	}

	start = time.Now()
	submissions, err := s.submissions.ListForSubject(ctx, subjectID)
	s.metrics.ObserveRepositoryLatency("submissions", time.Since(start))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submissions")
	}

	checklist, err := s.engine.Resolve(subject, templates, submissions, today)
	if err != nil {
		return nil, translateEngineError(err)
	}

	s.metrics.IncrementResolution("success")
	for _, req := range checklist.Requirements {
		s.metrics.IncrementStatus(req.Status.String())
	}
	s.logInfo(ctx, "checklist resolved",
		"subject_id", subjectID.String(),
		"evaluated_on", today.String(),
		"requirements", checklist.Summary.Total,
		"overdue", checklist.Summary.Overdue,
		"excluded", len(checklist.Excluded),
	)
	return checklist, nil
}

func translateEngineError(err error) error {
	if errors.Is(err, models.ErrMissingReferenceDate) {
		return dErrors.Wrap(err, dErrors.CodeUnprocessable, "subject has no admission or creation date")
	}
	var ruleErr *engine.RuleError
	if errors.As(err, &ruleErr) {
		return dErrors.Wrap(err, dErrors.CodeUnprocessable,
			fmt.Sprintf("requirement template %s cannot be evaluated: %s", ruleErr.TemplateID, ruleErr.Reason()))
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve checklist")
}

func (s *Service) fail(ctx context.Context, span trace.Span, subjectID id.SubjectID, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	s.recordFailure(ctx, subjectID, err)
}

func (s *Service) recordFailure(ctx context.Context, subjectID id.SubjectID, err error) {
	s.metrics.IncrementResolution("error")

	attrs := []any{"subject_id", subjectID.String(), "error", err}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		s.logError(ctx, "checklist resolution failed", attrs...)
		return
	}
	s.logInfo(ctx, "checklist resolution rejected", attrs...)
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	s.logger.InfoContext(ctx, msg, args...)
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx))
	s.logger.ErrorContext(ctx, msg, args...)
}
