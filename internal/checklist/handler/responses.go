package handler

import (
	"errors"

	"docket/internal/checklist/models"
	"docket/internal/checklist/service"
	dErrors "docket/pkg/domain-errors"
)

// ChecklistResponse is the HTTP shape of a resolved checklist. Dates are
// YYYY-MM-DD.
type ChecklistResponse struct {
	SubjectID     string                `json:"subject_id"`
	ReferenceDate string                `json:"reference_date"`
	EvaluatedOn   string                `json:"evaluated_on"`
	Requirements  []RequirementResponse `json:"requirements"`
	Summary       SummaryResponse       `json:"summary"`
	Excluded      []ExcludedResponse    `json:"excluded"`
}

type RequirementResponse struct {
	TemplateID          string `json:"template_id"`
	DocumentType        string `json:"document_type"`
	DisplayName         string `json:"display_name"`
	Category            string `json:"category"`
	CategoryLabel       string `json:"category_label"`
	Mandatory           bool   `json:"mandatory"`
	AllowsMultipleFiles bool   `json:"allows_multiple_files"`
	DeadlineOffsetDays  int    `json:"deadline_offset_days"`
	DeadlineDate        string `json:"deadline_date"`
	Status              string `json:"status"`
	SubmittedCount      int    `json:"submitted_count"`
	Instructions        string `json:"instructions,omitempty"`
	AcceptedFormat      string `json:"accepted_format,omitempty"`
}

type SummaryResponse struct {
	Total   int `json:"total"`
	OnTime  int `json:"on_time"`
	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
}

// ExcludedResponse reports a rule left out because it could not be evaluated.
type ExcludedResponse struct {
	TemplateID   string `json:"template_id"`
	DocumentType string `json:"document_type"`
	Reason       string `json:"reason"`
}

// BatchResponse is the HTTP response for POST /checklists/batch.
type BatchResponse struct {
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

type BatchItemResponse struct {
	SubjectID        string             `json:"subject_id"`
	Checklist        *ChecklistResponse `json:"checklist,omitempty"`
	Error            string             `json:"error,omitempty"`
	ErrorDescription string             `json:"error_description,omitempty"`
}

type TemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
	Count     int                `json:"count"`
}

type TemplateResponse struct {
	ID                  string   `json:"id"`
	DocumentType        string   `json:"document_type"`
	DisplayName         string   `json:"display_name"`
	Category            string   `json:"category"`
	CategoryLabel       string   `json:"category_label"`
	Mandatory           bool     `json:"mandatory"`
	DeadlineOffsetDays  int      `json:"deadline_offset_days"`
	Conditional         bool     `json:"conditional"`
	ConditionType       string   `json:"condition_type,omitempty"`
	ConditionValues     []string `json:"condition_values,omitempty"`
	AllowsMultipleFiles bool     `json:"allows_multiple_files"`
	Instructions        string   `json:"instructions,omitempty"`
	AcceptedFormat      string   `json:"accepted_format,omitempty"`
}

// FromChecklist converts a resolved checklist to its HTTP response.
func FromChecklist(c *models.ResolvedChecklist) *ChecklistResponse {
	resp := &ChecklistResponse{
		SubjectID:     c.SubjectID.String(),
		ReferenceDate: c.ReferenceDate.String(),
		EvaluatedOn:   c.EvaluatedOn.String(),
		Requirements:  make([]RequirementResponse, 0, len(c.Requirements)),
		Summary: SummaryResponse{
			Total:   c.Summary.Total,
			OnTime:  c.Summary.OnTime,
			Pending: c.Summary.Pending,
			Overdue: c.Summary.Overdue,
		},
		Excluded: make([]ExcludedResponse, 0, len(c.Excluded)),
	}
	for _, r := range c.Requirements {
		resp.Requirements = append(resp.Requirements, RequirementResponse{
			TemplateID:          r.TemplateID,
			DocumentType:        r.DocumentType,
			DisplayName:         r.DisplayName,
			Category:            r.Category,
			CategoryLabel:       CategoryLabel(r.Category),
			Mandatory:           r.Mandatory,
			AllowsMultipleFiles: r.AllowsMultipleFiles,
			DeadlineOffsetDays:  r.DeadlineOffsetDays,
			DeadlineDate:        r.DeadlineDate.String(),
			Status:              r.Status.String(),
			SubmittedCount:      r.SubmittedCount,
			Instructions:        r.Instructions,
			AcceptedFormat:      r.AcceptedFormat,
		})
	}
	for _, e := range c.Excluded {
		resp.Excluded = append(resp.Excluded, ExcludedResponse{
			TemplateID:   e.TemplateID,
			DocumentType: e.DocumentType,
			Reason:       e.Reason,
		})
	}
	return resp
}

// FromBatch converts batch results. Failures are reported the way
// httputil.WriteError reports them: a code, plus a description unless internal.
func FromBatch(results []service.BatchResult) *BatchResponse {
	resp := &BatchResponse{Results: make([]BatchItemResponse, 0, len(results))}
	for _, r := range results {
		item := BatchItemResponse{SubjectID: r.SubjectID.String()}
		if r.Err != nil {
			item.Error = string(dErrors.CodeInternal)
			var de *dErrors.Error
			if errors.As(r.Err, &de) {
				item.Error = string(de.Code)
				if de.Code != dErrors.CodeInternal {
					item.ErrorDescription = de.Message
				}
			}
			resp.Failed++
		} else {
			item.Checklist = FromChecklist(r.Checklist)
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}

// FromTemplates converts the active rule set for display.
func FromTemplates(templates []models.RequirementTemplate) *TemplatesResponse {
	resp := &TemplatesResponse{Templates: make([]TemplateResponse, 0, len(templates)), Count: len(templates)}
	for _, t := range templates {
		tr := TemplateResponse{
			ID:                  t.ID,
			DocumentType:        t.DocumentType,
			DisplayName:         t.DisplayName,
			Category:            t.Category,
			CategoryLabel:       CategoryLabel(t.Category),
			Mandatory:           t.MandatoryByDefault,
			DeadlineOffsetDays:  t.DeadlineOffsetDays,
			Conditional:         t.Conditional,
			AllowsMultipleFiles: t.AllowsMultipleFiles,
			Instructions:        t.Instructions,
			AcceptedFormat:      t.AcceptedFormat,
		}
		if t.Conditional {
			tr.ConditionType = t.ConditionType.String()
			tr.ConditionValues = t.ConditionValues.Strings()
		}
		resp.Templates = append(resp.Templates, tr)
	}
	return resp
}
