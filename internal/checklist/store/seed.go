// Package store seeds the in-memory repositories used when no database is
// configured.
package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"docket/internal/checklist/models"
	"docket/internal/checklist/store/subject"
	"docket/internal/checklist/store/submission"
	id "docket/pkg/domain"
)

type seedFile struct {
	Subjects []seedSubject `yaml:"subjects"`
}

type seedSubject struct {
	ID            string         `yaml:"id"`
	AdmissionDate string         `yaml:"admission_date"`
	CreatedAt     string         `yaml:"created_at"`
	Attributes    map[string]any `yaml:"attributes"`
	Submissions   map[string]int `yaml:"submissions"`
}

// Seed is a parsed subjects file: onboarding cases and what each has
// submitted so far.
type Seed struct {
	Subjects    []subject.Record
	Submissions []models.SubmittedArtifact
}

// LoadSeedFile reads a YAML subjects file.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subjects file: %w", err)
	}
	defer f.Close()

	seed, err := ParseSeed(f)
	if err != nil {
		return nil, fmt.Errorf("subjects file %s: %w", path, err)
	}
	return seed, nil
}

// ParseSeed decodes a subjects file. Attribute names and values are typed the
// same way rule conditions are, so a typo fails at startup instead of making a
// conditional rule silently not apply.
func ParseSeed(r io.Reader) (*Seed, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seed := &Seed{}
	seen := make(map[id.SubjectID]bool, len(file.Subjects))
	for i, ys := range file.Subjects {
		record, err := ys.toRecord()
		if err != nil {
			return nil, fmt.Errorf("subjects[%d]: %w", i, err)
		}
		if seen[record.ID] {
			return nil, fmt.Errorf("subjects[%d]: duplicate id %s", i, record.ID)
		}
		seen[record.ID] = true
		seed.Subjects = append(seed.Subjects, record)

		artifacts, err := ys.toArtifacts(record.ID)
		if err != nil {
			return nil, fmt.Errorf("subjects[%d]: %w", i, err)
		}
		seed.Submissions = append(seed.Submissions, artifacts...)
	}
	return seed, nil
}

func (ys seedSubject) toRecord() (subject.Record, error) {
	subjectID, err := id.ParseSubjectID(ys.ID)
	if err != nil {
		return subject.Record{}, err
	}
	record := subject.Record{ID: subjectID}

	if ys.AdmissionDate != "" {
		if record.AdmissionDate, err = id.ParseDate(ys.AdmissionDate); err != nil {
			return subject.Record{}, fmt.Errorf("admission_date: %w", err)
		}
	}
	if ys.CreatedAt != "" {
		if record.CreatedAt, err = time.Parse(time.RFC3339, ys.CreatedAt); err != nil {
			return subject.Record{}, fmt.Errorf("created_at: %w", err)
		}
	}
	if record.AdmissionDate.IsZero() && record.CreatedAt.IsZero() {
		return subject.Record{}, fmt.Errorf("subject %s needs admission_date or created_at", subjectID)
	}

	if len(ys.Attributes) > 0 {
		record.Attributes = make(map[models.ConditionType]models.Value, len(ys.Attributes))
	}
	for name, raw := range ys.Attributes {
		ct, err := models.ParseConditionType(name)
		if err != nil {
			return subject.Record{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		v, err := ct.ParseValue(fmt.Sprint(raw))
		if err != nil {
			return subject.Record{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		record.Attributes[ct] = v
	}
	return record, nil
}

func (ys seedSubject) toArtifacts(subjectID id.SubjectID) ([]models.SubmittedArtifact, error) {
	docTypes := make([]string, 0, len(ys.Submissions))
	for docType := range ys.Submissions {
		docTypes = append(docTypes, docType)
	}
	sort.Strings(docTypes)

	artifacts := make([]models.SubmittedArtifact, 0, len(docTypes))
	for _, docType := range docTypes {
		count := ys.Submissions[docType]
		if count < 0 {
			return nil, fmt.Errorf("submissions[%s]: negative count %d", docType, count)
		}
		if count == 0 {
			continue
		}
		artifacts = append(artifacts, models.SubmittedArtifact{
			SubjectID:    subjectID,
			DocumentType: docType,
			Count:        count,
		})
	}
	return artifacts, nil
}

// Apply writes the seed into the in-memory stores.
func (s *Seed) Apply(ctx context.Context, subjects *subject.InMemory, submissions *submission.InMemory) error {
	for _, r := range s.Subjects {
		if err := subjects.Save(ctx, r); err != nil {
			return err
		}
	}
	for _, a := range s.Submissions {
		if err := submissions.Record(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
