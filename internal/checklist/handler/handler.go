package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docket/internal/checklist/models"
	"docket/internal/checklist/service"
	id "docket/pkg/domain"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/httputil"
	"docket/pkg/requestcontext"
)

// Service defines the interface for checklist operations.
type Service interface {
	ResolveSubject(ctx context.Context, subjectID id.SubjectID) (*models.ResolvedChecklist, error)
	ResolveBatch(ctx context.Context, subjectIDs []id.SubjectID) ([]service.BatchResult, error)
	ListTemplates(ctx context.Context) ([]models.RequirementTemplate, error)
}

// Handler wires checklist endpoints to the checklist service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	maxBatchSize int
}

// New constructs a checklist handler. maxBatchSize values outside
// 1..MaxBatchSubjects fall back to MaxBatchSubjects.
func New(service Service, logger *slog.Logger, maxBatchSize int) *Handler {
	if maxBatchSize <= 0 || maxBatchSize > MaxBatchSubjects {
		maxBatchSize = MaxBatchSubjects
	}
	return &Handler{
		service:      service,
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
}

// Register mounts checklist endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/subjects/{subjectID}/checklist", h.HandleGetChecklist)
	r.Post("/checklists/batch", h.HandleBatch)
	r.Get("/templates", h.HandleListTemplates)
}

// HandleGetChecklist handles GET /subjects/{subjectID}/checklist.
func (h *Handler) HandleGetChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid subject id",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid subject id"))
		return
	}

	checklist, err := h.service.ResolveSubject(ctx, subjectID)
	if err != nil {
		h.logFailure(ctx, "checklist resolution failed", err,
			"request_id", requestID,
			"subject_id", subjectID.String(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "checklist served",
		"request_id", requestID,
		"subject_id", subjectID.String(),
		"requirements", checklist.Summary.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromChecklist(checklist))
}

// HandleBatch handles POST /checklists/batch.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	subjectIDs := req.ParsedSubjectIDs()
	if len(subjectIDs) > h.maxBatchSize {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("subject_ids must contain at most %d entries", h.maxBatchSize)))
		return
	}

	results, err := h.service.ResolveBatch(ctx, subjectIDs)
	if err != nil {
		h.logFailure(ctx, "checklist batch failed", err,
			"request_id", requestID,
			"subjects", len(subjectIDs),
		)
		httputil.WriteError(w, err)
		return
	}

	resp := FromBatch(results)
	h.logger.InfoContext(ctx, "checklist batch served",
		"request_id", requestID,
		"subjects", len(subjectIDs),
		"failed", resp.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleListTemplates handles GET /templates.
func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	templates, err := h.service.ListTemplates(ctx)
	if err != nil {
		h.logFailure(ctx, "template listing failed", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTemplates(templates))
}

// logFailure logs client-caused failures at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, msg, args...)
	default:
		h.logger.WarnContext(ctx, msg, args...)
	}
}
