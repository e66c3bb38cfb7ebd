package engine

import (
	"errors"
	"fmt"

	"docket/internal/checklist/models"
)

// MalformedRulePolicy decides what a rule-level failure does to the rest of
// the resolution.
type MalformedRulePolicy string

const (
	// PolicySkip excludes the failing rule, records an ExcludedRule and keeps
	// resolving the others.
	PolicySkip MalformedRulePolicy = "skip"
	// PolicyAbort fails the whole resolution with a *RuleError.
	PolicyAbort MalformedRulePolicy = "abort"
)

// ParseMalformedRulePolicy validates a policy name from configuration.
func ParseMalformedRulePolicy(s string) (MalformedRulePolicy, error) {
	switch p := MalformedRulePolicy(s); p {
	case PolicySkip, PolicyAbort:
		return p, nil
	default:
		return "", fmt.Errorf("unknown malformed rule policy %q: expected skip or abort", s)
	}
}

// Exclusion reasons recorded on ExcludedRule and in metrics.
const (
	ReasonUnknownConditionType = "unknown_condition_type"
	ReasonMalformedRule        = "malformed_rule"
	ReasonInvalidOffset        = "invalid_offset"
	ReasonUnknown              = "unknown"
)

// RuleError is a failure to evaluate a single rule.
type RuleError struct {
	TemplateID   string
	DocumentType string
	Err          error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s (%s): %v", e.TemplateID, e.DocumentType, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Reason classifies the failure for diagnostics.
func (e *RuleError) Reason() string {
	return reasonFor(e.Err)
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, models.ErrUnknownConditionType):
		return ReasonUnknownConditionType
	case errors.Is(err, models.ErrMalformedRule):
		return ReasonMalformedRule
	case errors.Is(err, models.ErrInvalidOffset):
		return ReasonInvalidOffset
	default:
		return ReasonUnknown
	}
}
