package subject

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
	"docket/pkg/platform/sentinel"
)

// Record is a stored onboarding case before the reference-date policy runs.
type Record struct {
	ID            id.SubjectID
	AdmissionDate id.Date
	CreatedAt     time.Time
	Attributes    map[models.ConditionType]models.Value
}

// InMemory keeps onboarding cases in a map. Used by tests and the file-backed
// server mode.
type InMemory struct {
	mu       sync.RWMutex
	records  map[id.SubjectID]Record
	location *time.Location
}

func NewInMemory(loc *time.Location) *InMemory {
	return &InMemory{
		records:  make(map[id.SubjectID]Record),
		location: loc,
	}
}

func (s *InMemory) Save(_ context.Context, r Record) error {
	if r.ID.IsNil() {
		return fmt.Errorf("save subject: missing id")
	}
	r.Attributes = maps.Clone(r.Attributes)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

func (s *InMemory) Get(_ context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	r, ok := s.records[subjectID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", subjectID, sentinel.ErrNotFound)
	}
	return &models.Subject{
		ID:            r.ID,
		ReferenceDate: ReferenceDate(r.AdmissionDate, r.CreatedAt, s.location),
		Attributes:    maps.Clone(r.Attributes),
	}, nil
}

// ListIDs returns every stored subject, oldest first.
func (s *InMemory) ListIDs(_ context.Context) ([]id.SubjectID, error) {
	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID.String() < records[j].ID.String()
	})
	ids := make([]id.SubjectID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}
