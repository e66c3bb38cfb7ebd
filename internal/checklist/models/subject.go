package models

import (
	id "docket/pkg/domain"
)

// Subject is the entity a checklist is resolved for.
//
// ReferenceDate is the base date for deadline math. The zero Date means the
// subject has none; the engine refuses to guess one.
type Subject struct {
	ID            id.SubjectID
	ReferenceDate id.Date
	Attributes    map[ConditionType]Value
}

// Attribute returns the subject's value for a condition type.
func (s *Subject) Attribute(ct ConditionType) (Value, bool) {
	if s == nil || s.Attributes == nil {
		return Value{}, false
	}
	v, ok := s.Attributes[ct]
	if !ok || !v.IsValid() {
		return Value{}, false
	}
	return v, true
}

// SubmittedArtifact records that a subject has provided Count files for a
// document type.
type SubmittedArtifact struct {
	SubjectID    id.SubjectID
	DocumentType string
	Count        int
}
