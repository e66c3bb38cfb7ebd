package models

import (
	"fmt"
	"sort"
	"strings"
)

// Document categories used by the default rule set. Category is an opaque
// grouping key; display labels belong to the presentation layer.
const (
	CategoryIdentification = "identification"
	CategoryAddress        = "address"
	CategoryBanking        = "banking"
	CategoryHealth         = "health"
	CategoryCertifications = "certifications"
	CategoryPhoto          = "photo"
	CategoryContract       = "contract"
)

// RequirementTemplate describes one potentially-required document.
//
// Invariants (enforced by Validate):
//   - ID, DocumentType and Category are non-empty
//   - DeadlineOffsetDays >= 0
//   - Conditional implies a known ConditionType and a non-empty ConditionValues
//     whose members all match the condition's kind and allowed values
//   - !Conditional implies no ConditionType and no ConditionValues
type RequirementTemplate struct {
	ID                  string        `json:"id"`
	DocumentType        string        `json:"document_type"`
	DisplayName         string        `json:"display_name"`
	Category            string        `json:"category"`
	MandatoryByDefault  bool          `json:"mandatory_by_default"`
	DeadlineOffsetDays  int           `json:"deadline_offset_days"`
	Conditional         bool          `json:"conditional"`
	ConditionType       ConditionType `json:"condition_type,omitempty"`
	ConditionValues     ValueSet      `json:"condition_values"`
	AllowsMultipleFiles bool          `json:"allows_multiple_files"`
	Instructions        string        `json:"instructions,omitempty"`
	AcceptedFormat      string        `json:"accepted_format"`
}

// Validate checks the template invariants. The returned error wraps one of
// ErrUnknownConditionType, ErrMalformedRule or ErrInvalidOffset.
func (t *RequirementTemplate) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrMalformedRule)
	}
	if strings.TrimSpace(t.DocumentType) == "" {
		return fmt.Errorf("%w: template %s: document_type is required", ErrMalformedRule, t.ID)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: template %s: category is required", ErrMalformedRule, t.ID)
	}
	if t.DeadlineOffsetDays < 0 {
		return fmt.Errorf("%w: template %s: offset %d is negative", ErrInvalidOffset, t.ID, t.DeadlineOffsetDays)
	}
	return t.ValidateCondition()
}

// ValidateCondition checks only the conditional/condition shape invariant.
func (t *RequirementTemplate) ValidateCondition() error {
	if !t.Conditional {
		if t.ConditionType != "" || t.ConditionValues.Len() > 0 {
			return fmt.Errorf("%w: template %s: unconditional rule carries a condition", ErrMalformedRule, t.ID)
		}
		return nil
	}
	if t.ConditionType == "" {
		return fmt.Errorf("%w: template %s: conditional rule has no condition type", ErrMalformedRule, t.ID)
	}
	if !t.ConditionType.IsKnown() {
		return fmt.Errorf("%w: template %s: %q", ErrUnknownConditionType, t.ID, t.ConditionType)
	}
	if t.ConditionValues.Len() == 0 {
		return fmt.Errorf("%w: template %s: conditional rule has no condition values", ErrMalformedRule, t.ID)
	}
	for _, v := range t.ConditionValues.Values() {
		if !t.ConditionType.accepts(v) {
			return fmt.Errorf("%w: template %s: value %q (%s) not valid for %s",
				ErrMalformedRule, t.ID, v.String(), v.Kind(), t.ConditionType)
		}
	}
	return nil
}

// SortTemplates orders templates by category, then deadline offset, then
// document type so every store yields the same sequence.
func SortTemplates(templates []RequirementTemplate) {
	sort.SliceStable(templates, func(i, j int) bool {
		a, b := templates[i], templates[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.DeadlineOffsetDays != b.DeadlineOffsetDays {
			return a.DeadlineOffsetDays < b.DeadlineOffsetDays
		}
		return a.DocumentType < b.DocumentType
	})
}
