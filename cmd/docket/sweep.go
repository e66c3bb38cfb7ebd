package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"docket/internal/checklist"
	"docket/internal/checklist/handler"
	"docket/internal/checklist/service"
	"docket/internal/platform/config"
	"docket/internal/platform/logger"
	"docket/internal/platform/postgres"
	"docket/internal/platform/redis"
	id "docket/pkg/domain"
	platformstrings "docket/pkg/platform/strings"
	"docket/pkg/requestcontext"
)

type sweepOptions struct {
	concurrency int
	subjects    []string
	date        string
	format      string
	timeout     time.Duration
}

func sweepCmd() *cobra.Command {
	var opts sweepOptions
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Resolve checklists for many subjects and report overdue documents",
		Long: `Resolve checklists for the given subjects, or every known subject when
none are given, all against the same evaluation date. Storage and policy come
from the same environment variables as the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "subjects resolved in parallel (default DOCKET_BATCH_CONCURRENCY)")
	cmd.Flags().StringSliceVar(&opts.subjects, "subject", nil, "subject id to resolve; repeatable")
	cmd.Flags().StringVar(&opts.date, "date", "", "evaluation date YYYY-MM-DD (default today in DOCKET_TIMEZONE)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "abort the sweep after this long")
	return cmd
}

func runSweep(cmd *cobra.Command, opts sweepOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if opts.concurrency > 0 {
		cfg.Checklist.BatchConcurrency = opts.concurrency
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	loc, err := cfg.Checklist.Location()
	if err != nil {
		return err
	}
	at, err := evaluationTime(opts.date, loc, time.Now)
	if err != nil {
		return err
	}
	ctx = requestcontext.WithTime(ctx, at)

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rc.Close()

	stores, err := checklist.OpenStores(cfg.Checklist, db, rc.Raw(), log, nil)
	if err != nil {
		return err
	}
	svc, err := checklist.NewService(cfg.Checklist, stores, log, nil)
	if err != nil {
		return err
	}

	subjectIDs, err := sweepTargets(ctx, stores.Subjects, opts.subjects)
	if err != nil {
		return err
	}
	results, err := svc.ResolveBatch(ctx, subjectIDs)
	if err != nil {
		return err
	}

	resp := handler.FromBatch(results)
	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else if err := writeSweepTable(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if resp.Failed > 0 {
		return fmt.Errorf("%d of %d subjects failed", resp.Failed, len(results))
	}
	return nil
}

// evaluationTime pins the sweep clock. An explicit date becomes noon of that
// day in loc, so converting back to a business date yields the same day.
func evaluationTime(date string, loc *time.Location, now func() time.Time) (time.Time, error) {
	if date == "" {
		return now(), nil
	}
	day, err := id.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Time().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc), nil
}

func sweepTargets(ctx context.Context, subjects checklist.SubjectStore, raw []string) ([]id.SubjectID, error) {
	unique := platformstrings.UniqueFold(raw)
	if len(unique) == 0 {
		return subjects.ListIDs(ctx)
	}
	ids := make([]id.SubjectID, 0, len(unique))
	for _, r := range unique {
		subjectID, err := id.ParseSubjectID(r)
		if err != nil {
			return nil, fmt.Errorf("--subject %q: %w", r, err)
		}
		ids = append(ids, subjectID)
	}
	return ids, nil
}

func writeSweepTable(w io.Writer, results []service.BatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBJECT\tTOTAL\tON TIME\tPENDING\tOVERDUE\tNOTE")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%v\n", r.SubjectID, r.Err)
			continue
		}
		s := r.Checklist.Summary
		note := ""
		if n := len(r.Checklist.Excluded); n > 0 {
			note = fmt.Sprintf("%d rules excluded", n)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", r.SubjectID, s.Total, s.OnTime, s.Pending, s.Overdue, note)
	}
	return tw.Flush()
}
