package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "docket/pkg/domain-errors"
)

// SubjectID identifies the entity a checklist is resolved for, typically an
// onboarding case. Construct via ParseSubjectID at trust boundaries.
type SubjectID uuid.UUID

// NewSubjectID returns a random subject id.
func NewSubjectID() SubjectID {
	return SubjectID(uuid.New())
}

// ParseSubjectID parses a non-nil UUID.
//
// Errors: CodeInvalidInput when s is empty, malformed, or the nil UUID.
func ParseSubjectID(s string) (SubjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SubjectID{}, dErrors.New(dErrors.CodeInvalidInput, "subject id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return SubjectID{}, dErrors.New(dErrors.CodeInvalidInput, "subject id must be a valid UUID")
	}
	if u == uuid.Nil {
		return SubjectID{}, dErrors.New(dErrors.CodeInvalidInput, "subject id cannot be nil")
	}
	return SubjectID(u), nil
}

func (id SubjectID) String() string {
	return uuid.UUID(id).String()
}

func (id SubjectID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id SubjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SubjectID) UnmarshalText(b []byte) error {
	parsed, err := ParseSubjectID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
