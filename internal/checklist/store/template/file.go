package template

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"docket/internal/checklist/models"
)

// ruleSetFile is the on-disk YAML rule set.
type ruleSetFile struct {
	Templates []yamlTemplate `yaml:"templates"`
}

type yamlTemplate struct {
	ID                  string `yaml:"id"`
	DocumentType        string `yaml:"document_type"`
	DisplayName         string `yaml:"display_name"`
	Category            string `yaml:"category"`
	Mandatory           *bool  `yaml:"mandatory"`
	DeadlineOffsetDays  int    `yaml:"deadline_offset_days"`
	Conditional         bool   `yaml:"conditional"`
	ConditionType       string `yaml:"condition_type"`
	ConditionValues     []any  `yaml:"condition_values"`
	AllowsMultipleFiles bool   `yaml:"allows_multiple_files"`
	Instructions        string `yaml:"instructions"`
	AcceptedFormat      string `yaml:"accepted_format"`
}

// LoadFile reads and validates a YAML rule set.
func LoadFile(path string) ([]models.RequirementTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule set: %w", err)
	}
	defer f.Close()

	templates, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("rule set %s: %w", path, err)
	}
	return templates, nil
}

// Parse decodes a YAML rule set. Condition types and values are checked here
// so a bad rule set fails at startup rather than during resolution.
func Parse(r io.Reader) ([]models.RequirementTemplate, error) {
	var file ruleSetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	templates := make([]models.RequirementTemplate, 0, len(file.Templates))
	for _, yt := range file.Templates {
		t, err := yt.toModel()
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	prepared, err := prepare(templates)
	if err != nil {
		return nil, err
	}
	return prepared, nil
}

func (yt yamlTemplate) toModel() (models.RequirementTemplate, error) {
	mandatory := true
	if yt.Mandatory != nil {
		mandatory = *yt.Mandatory
	}
	t := models.RequirementTemplate{
		ID:                  yt.ID,
		DocumentType:        yt.DocumentType,
		DisplayName:         yt.DisplayName,
		Category:            yt.Category,
		MandatoryByDefault:  mandatory,
		DeadlineOffsetDays:  yt.DeadlineOffsetDays,
		Conditional:         yt.Conditional,
		AllowsMultipleFiles: yt.AllowsMultipleFiles,
		Instructions:        yt.Instructions,
		AcceptedFormat:      yt.AcceptedFormat,
	}
	if t.DisplayName == "" {
		t.DisplayName = t.DocumentType
	}
	if yt.ConditionType == "" && len(yt.ConditionValues) == 0 {
		return t, nil
	}

	ct, err := models.ParseConditionType(yt.ConditionType)
	if err != nil {
		return t, fmt.Errorf("template %s: %w", yt.ID, err)
	}
	values := make([]models.Value, 0, len(yt.ConditionValues))
	for _, raw := range yt.ConditionValues {
		v, err := ct.ParseValue(fmt.Sprint(raw))
		if err != nil {
			return t, fmt.Errorf("template %s: %w", yt.ID, err)
		}
		values = append(values, v)
	}
	t.ConditionType = ct
	t.ConditionValues = models.NewValueSet(values...)
	return t, nil
}
