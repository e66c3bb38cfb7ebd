// Package checklist resolves onboarding document checklists: which documents
// a new hire owes, when each is due and whether it is on time, pending or
// overdue. Checklists are derived on every request and never stored.
package checklist

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"docket/internal/checklist/engine"
	"docket/internal/checklist/handler"
	"docket/internal/checklist/metrics"
	"docket/internal/checklist/service"
	"docket/internal/checklist/store"
	"docket/internal/checklist/store/subject"
	"docket/internal/checklist/store/submission"
	"docket/internal/checklist/store/template"
	"docket/internal/platform/config"
	id "docket/pkg/domain"
	"docket/pkg/platform/circuit"
)

// Service resolves checklists for one subject or a batch.
type Service = service.Service

// Handler wires HTTP endpoints to the checklist service.
type Handler = handler.Handler

// SubjectStore is a subject repository that can also enumerate subjects,
// which the sweep command needs.
type SubjectStore interface {
	service.SubjectRepository
	ListIDs(ctx context.Context) ([]id.SubjectID, error)
}

// Stores groups the repositories behind a Service.
type Stores struct {
	Rules       service.RuleRepository
	Subjects    SubjectStore
	Submissions service.SubmissionRepository
	// Reloader is set when the rule-set file is watched; run it for the
	// lifetime of the process.
	Reloader *template.Reloader
}

// OpenStores selects backends: PostgreSQL when db is non-nil, otherwise
// in-memory stores with templates from cfg.RuleSetFile and, when set, subjects
// from cfg.SubjectsFile. A non-nil rdb puts a
// read-through cache in front of the template store.
func OpenStores(cfg config.ChecklistConfig, db *sql.DB, rdb *redis.Client, logger *slog.Logger, m *metrics.Metrics) (*Stores, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var (
		stores    Stores
		fileRules *template.InMemory
	)
	if db != nil {
		stores.Rules = template.NewPostgres(db)
		stores.Subjects = subject.NewPostgres(db, loc)
		stores.Submissions = submission.NewPostgres(db)
	} else {
		templates, err := template.LoadFile(cfg.RuleSetFile)
		if err != nil {
			return nil, err
		}
		rules, err := template.NewInMemory(templates)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", cfg.RuleSetFile, err)
		}
		subjects := subject.NewInMemory(loc)
		submissions := submission.NewInMemory()
		if cfg.SubjectsFile != "" {
			seed, err := store.LoadSeedFile(cfg.SubjectsFile)
			if err != nil {
				return nil, err
			}
			if err := seed.Apply(context.Background(), subjects, submissions); err != nil {
				return nil, fmt.Errorf("seed subjects: %w", err)
			}
			if logger != nil {
				logger.Info("seeded in-memory subjects",
					"file", cfg.SubjectsFile,
					"subjects", len(seed.Subjects),
					"submissions", len(seed.Submissions))
			}
		}
		stores.Rules = rules
		stores.Subjects = subjects
		stores.Submissions = submissions
		fileRules = rules
	}

	reloadOpts := []template.ReloaderOption{template.WithReloadLogger(logger)}
	if rdb != nil {
		cache := template.NewRedisCache(rdb, stores.Rules, cfg.TemplateCacheTTL,
			template.WithCacheLogger(logger),
			template.WithCacheMetrics(m),
			template.WithCacheBreaker(circuit.New("template-cache",
				circuit.WithFailureThreshold(cfg.CacheFailureThreshold),
				circuit.WithCooldown(cfg.CacheCooldown),
			)),
		)
		reloadOpts = append(reloadOpts, template.OnReload(func(ctx context.Context) {
			if err := cache.Invalidate(ctx); err != nil && logger != nil {
				logger.WarnContext(ctx, "failed to invalidate template cache after reload", "error", err)
			}
		}))
		stores.Rules = cache
	}

	if fileRules != nil && cfg.RuleSetWatch {
		stores.Reloader = template.NewReloader(cfg.RuleSetFile, fileRules, reloadOpts...)
	}
	return &stores, nil
}

// NewService builds the engine from cfg and the service around it.
func NewService(cfg config.ChecklistConfig, stores *Stores, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	policy, err := engine.ParseMalformedRulePolicy(cfg.MalformedRulePolicy)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	eng := engine.New(
		engine.WithPolicy(policy),
		engine.WithLogger(logger),
		engine.WithMetrics(m),
	)
	return service.New(stores.Rules, stores.Subjects, stores.Submissions, eng,
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithLocation(loc),
		service.WithConcurrency(cfg.BatchConcurrency),
	), nil
}

// NewHandler constructs the HTTP handler for checklist routes.
func NewHandler(s *Service, logger *slog.Logger, maxBatchSize int) *Handler {
	return handler.New(s, logger, maxBatchSize)
}
