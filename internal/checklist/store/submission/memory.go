package submission

import (
	"context"
	"sync"

	"docket/internal/checklist/models"
	id "docket/pkg/domain"
)

// InMemory records submitted artifacts per subject.
type InMemory struct {
	mu        sync.RWMutex
	artifacts map[id.SubjectID][]models.SubmittedArtifact
}

func NewInMemory() *InMemory {
	return &InMemory{artifacts: make(map[id.SubjectID][]models.SubmittedArtifact)}
}

func (s *InMemory) Record(_ context.Context, a models.SubmittedArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[a.SubjectID] = append(s.artifacts[a.SubjectID], a)
	return nil
}

// ListForSubject returns the raw artifacts; aggregation happens in the engine.
// A subject with no uploads yields an empty slice, not an error.
func (s *InMemory) ListForSubject(_ context.Context, subjectID id.SubjectID) ([]models.SubmittedArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SubmittedArtifact{}, s.artifacts[subjectID]...), nil
}
