package handler

import (
	"fmt"

	id "docket/pkg/domain"
	dErrors "docket/pkg/domain-errors"
)

// MaxBatchSubjects caps POST /checklists/batch regardless of configuration.
const MaxBatchSubjects = 500

// BatchRequest is the HTTP request body for POST /checklists/batch.
type BatchRequest struct {
	SubjectIDs []string `json:"subject_ids"`

	parsed []id.SubjectID
}

// Validate parses the subject ids, dropping repeats while keeping order.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.SubjectIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "subject_ids must not be empty")
	}
	if len(r.SubjectIDs) > MaxBatchSubjects {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("subject_ids must contain at most %d entries", MaxBatchSubjects))
	}

	seen := make(map[id.SubjectID]bool, len(r.SubjectIDs))
	r.parsed = make([]id.SubjectID, 0, len(r.SubjectIDs))
	for i, raw := range r.SubjectIDs {
		subjectID, err := id.ParseSubjectID(raw)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("subject_ids[%d] is not a valid id", i))
		}
		if seen[subjectID] {
			continue
		}
		seen[subjectID] = true
		r.parsed = append(r.parsed, subjectID)
	}
	return nil
}

// ParsedSubjectIDs returns the validated, de-duplicated ids.
func (r *BatchRequest) ParsedSubjectIDs() []id.SubjectID {
	return r.parsed
}
