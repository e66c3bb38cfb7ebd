package template

import (
	"context"
	"fmt"
	"sync"

	"docket/internal/checklist/models"
)

// InMemory serves a fixed rule set validated at construction.
type InMemory struct {
	mu        sync.RWMutex
	templates []models.RequirementTemplate
}

// NewInMemory validates and sorts templates. Any invalid template fails the
// whole load.
func NewInMemory(templates []models.RequirementTemplate) (*InMemory, error) {
	s := &InMemory{}
	if err := s.Replace(templates); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps the rule set atomically after validating it.
func (s *InMemory) Replace(templates []models.RequirementTemplate) error {
	sorted, err := prepare(templates)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = sorted
	return nil
}

// ListActiveTemplates returns a copy of the rule set sorted by category and
// deadline offset.
func (s *InMemory) ListActiveTemplates(_ context.Context) ([]models.RequirementTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RequirementTemplate(nil), s.templates...), nil
}

func prepare(templates []models.RequirementTemplate) ([]models.RequirementTemplate, error) {
	seen := make(map[string]bool, len(templates))
	out := make([]models.RequirementTemplate, 0, len(templates))
	for i := range templates {
		t := templates[i]
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate template id %q", models.ErrMalformedRule, t.ID)
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	models.SortTemplates(out)
	return out, nil
}
