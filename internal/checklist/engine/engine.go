package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"docket/internal/checklist/metrics"
	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

// ErrMissingEvaluationDate is returned when Resolve is called without a
// "today".
var ErrMissingEvaluationDate = errors.New("evaluation date is required")

// Engine resolves checklists. It holds configuration only, so one Engine can
// serve any number of goroutines.
type Engine struct {
	policy  MalformedRulePolicy
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Engine)

// WithPolicy sets the malformed rule policy. Defaults to PolicySkip.
func WithPolicy(p MalformedRulePolicy) Option {
	return func(e *Engine) {
		if p != "" {
			e.policy = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{policy: PolicySkip}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Policy() MalformedRulePolicy {
	return e.policy
}

// Resolve builds the checklist for subject as of today.
//
// Rules are emitted in input order; rules that do not apply are omitted.
// Submissions are summed per document type. A subject without a reference
// date fails with ErrMissingReferenceDate. A rule that cannot be evaluated is
// handled according to the engine's MalformedRulePolicy.
func (e *Engine) Resolve(
	subject *models.Subject,
	rules []models.RequirementTemplate,
	submissions []models.SubmittedArtifact,
	today id.Date,
) (*models.ResolvedChecklist, error) {
	if subject == nil {
		return nil, errors.New("subject is required")
	}
	if subject.ReferenceDate.IsZero() {
		return nil, fmt.Errorf("subject %s: %w", subject.ID, models.ErrMissingReferenceDate)
	}
	if today.IsZero() {
		return nil, ErrMissingEvaluationDate
	}

	counts := indexSubmissions(subject.ID, submissions)

	checklist := &models.ResolvedChecklist{
		SubjectID:     subject.ID,
		ReferenceDate: subject.ReferenceDate,
		EvaluatedOn:   today,
		Requirements:  make([]models.ResolvedRequirement, 0, len(rules)),
		Excluded:      []models.ExcludedRule{},
	}

	for i := range rules {
		rule := &rules[i]
		req, applies, err := e.resolveRule(rule, subject, counts, today)
		if err != nil {
			ruleErr := &RuleError{TemplateID: rule.ID, DocumentType: rule.DocumentType, Err: err}
			if e.policy == PolicyAbort {
				return nil, ruleErr
			}
			e.exclude(checklist, subject, ruleErr)
			continue
		}
		if !applies {
			continue
		}
		checklist.Requirements = append(checklist.Requirements, req)
		checklist.Summary.Add(req.Status)
	}

	return checklist, nil
}

func (e *Engine) resolveRule(
	rule *models.RequirementTemplate,
	subject *models.Subject,
	counts map[string]int,
	today id.Date,
) (models.ResolvedRequirement, bool, error) {
	// Database rows skip load-time validation; every rule is checked here,
	// applicable or not.
	if err := rule.Validate(); err != nil {
		return models.ResolvedRequirement{}, false, err
	}
	applies, err := Applies(rule, subject)
	if err != nil || !applies {
		return models.ResolvedRequirement{}, false, err
	}

	deadline, err := ComputeDeadline(subject.ReferenceDate, rule.DeadlineOffsetDays)
	if err != nil {
		return models.ResolvedRequirement{}, false, err
	}

	count := counts[rule.DocumentType]
	return models.ResolvedRequirement{
		TemplateID:          rule.ID,
		DocumentType:        rule.DocumentType,
		DisplayName:         rule.DisplayName,
		Category:            rule.Category,
		Mandatory:           rule.MandatoryByDefault,
		AllowsMultipleFiles: rule.AllowsMultipleFiles,
		DeadlineOffsetDays:  rule.DeadlineOffsetDays,
		DeadlineDate:        deadline,
		Status:              ResolveStatus(deadline, today, count),
		SubmittedCount:      count,
		Instructions:        rule.Instructions,
		AcceptedFormat:      rule.AcceptedFormat,
	}, true, nil
}

func (e *Engine) exclude(checklist *models.ResolvedChecklist, subject *models.Subject, ruleErr *RuleError) {
	reason := ruleErr.Reason()
	checklist.Excluded = append(checklist.Excluded, models.ExcludedRule{
		TemplateID:   ruleErr.TemplateID,
		DocumentType: ruleErr.DocumentType,
		Reason:       reason,
	})
	if e.logger != nil {
		e.logger.Warn("rule excluded from checklist",
			"subject_id", subject.ID,
			"template_id", ruleErr.TemplateID,
			"document_type", ruleErr.DocumentType,
			"reason", reason,
			"error", ruleErr.Err,
		)
	}
	e.metrics.IncrementRuleExcluded(reason)
}

// indexSubmissions sums artifact counts per document type. Artifacts that
// belong to another subject or carry no files are ignored.
func indexSubmissions(subjectID id.SubjectID, submissions []models.SubmittedArtifact) map[string]int {
	counts := make(map[string]int, len(submissions))
	for _, s := range submissions {
		if s.Count <= 0 {
			continue
		}
		if !s.SubjectID.IsNil() && s.SubjectID != subjectID {
			continue
		}
		counts[s.DocumentType] += s.Count
	}
	return counts
}
