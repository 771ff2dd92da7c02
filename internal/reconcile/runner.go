package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/pagination"
)

const (
	defaultConcurrency = 4
	defaultPageSize    = 100
)

type runner struct {
	store  Store
	cfg    Config
	logger *slog.Logger
}

// New creates a reconciliation system over store.
func New(store Store, cfg Config, logger *slog.Logger) System {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = defaultPageSize
	}
	return &runner{
		store:  store,
		cfg:    cfg,
		logger: logger.With("system", "reconcile"),
	}
}

func (r *runner) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Run scans every document under a single scoring snapshot, then rescores the
// mismatches when opts.Apply is set.
func (r *runner) Run(ctx context.Context, opts Options) (*Report, error) {
	scoring := r.store.Scoring(ctx)

	report := &Report{
		Threshold:  scoring.Threshold,
		Mismatches: []Mismatch{},
		Options:    opts,
		StartedAt:  time.Now().UTC(),
	}

	if err := r.scan(ctx, scoring, report); err != nil {
		return nil, err
	}

	if opts.Apply {
		if err := r.apply(ctx, scoring, opts, report); err != nil {
			return nil, err
		}
	}

	report.CompletedAt = time.Now().UTC()

	r.logger.Info(
		"reconcile complete",
		"scanned", report.Scanned,
		"mismatches", len(report.Mismatches),
		"applied", report.Applied,
		"apply", opts.Apply,
		"include_verified", opts.IncludeVerified,
	)
	return report, nil
}

func (r *runner) scan(ctx context.Context, scoring documents.Scoring, report *Report) error {
	page := pagination.PageRequest{
		Page:     1,
		PageSize: r.cfg.PageSize,
		Sort: pagination.SortFields{
			{Field: "UploadedAt"},
			{Field: "ID"},
		},
	}

	for {
		result, err := r.store.List(ctx, page, documents.Filters{})
		if err != nil {
			return fmt.Errorf("list documents page %d: %w", page.Page, err)
		}

		for _, doc := range result.Data {
			report.Scanned++
			if m, ok := Compare(doc, scoring); ok {
				report.Mismatches = append(report.Mismatches, m)
			}
		}

		if !result.HasNext() {
			return nil
		}
		page.Page++
	}
}

func (r *runner) apply(ctx context.Context, scoring documents.Scoring, opts Options, report *Report) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	cmd := documents.RescoreCommand{
		Scoring:          scoring,
		OverrideVerified: opts.IncludeVerified,
	}

	for i := range report.Mismatches {
		m := &report.Mismatches[i]
		if m.ManualOverride && !opts.IncludeVerified {
			continue
		}

		g.Go(func() error {
			_, changed, err := r.store.Rescore(gctx, m.DocumentID, cmd)
			if errors.Is(err, documents.ErrNotFound) {
				r.logger.Debug("document removed during reconcile", "id", m.DocumentID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("rescore %s: %w", m.DocumentID, err)
			}
			m.Applied = changed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range report.Mismatches {
		if m.Applied {
			report.Applied++
		}
	}
	return nil
}

// Compare classifies doc under scoring and reports a mismatch when the result
// differs from the stored state.
func Compare(doc documents.Document, scoring documents.Scoring) (Mismatch, bool) {
	computed := scoring.Classify(doc.Fields)
	if computed == doc.Confidence {
		return Mismatch{}, false
	}

	return Mismatch{
		DocumentID:     doc.ID,
		Filename:       doc.Filename,
		Stored:         doc.Confidence,
		Computed:       computed,
		ManualOverride: doc.Confidence == confidence.Verified,
	}, true
}
