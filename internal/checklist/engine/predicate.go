package engine

import "docket/internal/checklist/models"

// Applies decides whether rule applies to subject.
// This is pure domain logic - no I/O, no side effects.
//
// Unconditional rules always apply. A conditional rule applies iff the
// subject's attribute for the rule's condition type is one of the rule's
// condition values. An absent attribute fails closed: the rule does not apply.
// A rule whose condition is malformed is an error, never a silent "no".
func Applies(rule *models.RequirementTemplate, subject *models.Subject) (bool, error) {
	if err := rule.ValidateCondition(); err != nil {
		return false, err
	}
	if !rule.Conditional {
		return true, nil
	}

	value, ok := subject.Attribute(rule.ConditionType)
	if !ok {
		return false, nil
	}
	return rule.ConditionValues.Contains(value), nil
}
