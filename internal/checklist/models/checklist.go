package models

import (
	id "docket/pkg/domain"
)

// Status is the derived compliance state of one requirement.
type Status string

const (
	StatusOnTime  Status = "on_time"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
	// StatusNotApplicable is part of the vocabulary but never emitted:
	// non-applicable rules are omitted from the checklist.
	StatusNotApplicable Status = "not_applicable"
)

func (s Status) String() string {
	return string(s)
}

// ResolvedRequirement is the engine output for one applicable rule.
type ResolvedRequirement struct {
	TemplateID          string
	DocumentType        string
	DisplayName         string
	Category            string
	Mandatory           bool
	AllowsMultipleFiles bool
	DeadlineOffsetDays  int
	DeadlineDate        id.Date
	Status              Status
	SubmittedCount      int
	Instructions        string
	AcceptedFormat      string
}

// Summary tallies requirement statuses.
// Invariant: Total == OnTime + Pending + Overdue.
type Summary struct {
	Total   int
	OnTime  int
	Pending int
	Overdue int
}

// Add counts one requirement with the given status.
func (s *Summary) Add(status Status) {
	s.Total++
	switch status {
	case StatusOnTime:
		s.OnTime++
	case StatusPending:
		s.Pending++
	case StatusOverdue:
		s.Overdue++
	}
}

// ExcludedRule is a diagnostic for a rule left out because it failed to
// evaluate.
type ExcludedRule struct {
	TemplateID   string
	DocumentType string
	Reason       string
}

// ResolvedChecklist is the derived checklist for one subject. It is
// recomputed on every request and never persisted.
type ResolvedChecklist struct {
	SubjectID     id.SubjectID
	ReferenceDate id.Date
	EvaluatedOn   id.Date
	Requirements  []ResolvedRequirement
	Summary       Summary
	Excluded      []ExcludedRule
}
