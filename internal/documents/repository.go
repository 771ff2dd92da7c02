package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
	"github.com/JaimeStill/docket/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	scorer     *Scorer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	scorer *Scorer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		scorer:     scorer,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) Scoring(ctx context.Context) Scoring {
	return r.scorer.Snapshot(ctx)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "ContentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, content_type, size_bytes, page_count, storage_key, status, fields, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '{}'::jsonb, $8)` + returning

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		string(StatusPending),
		string(confidence.Empty),
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*storage.Blob, *Document, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	blob, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download document blob: %w", err)
	}
	return blob, doc, nil
}

func (r *repo) Ingest(ctx context.Context, id uuid.UUID, cmd IngestCommand) (*Document, error) {
	scoring := r.scorer.Snapshot(ctx)

	d, _, err := r.mutate(ctx, id, func(d *Document) (bool, error) {
		cmd.Apply(d, scoring, time.Now().UTC())
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"analysis ingested",
		"id", id,
		"fields", len(d.Fields),
		"confidence", d.Confidence,
	)
	return d, nil
}

func (r *repo) UpdateFields(ctx context.Context, id uuid.UUID, cmd UpdateFieldsCommand) (*Document, error) {
	var scoring Scoring
	if !cmd.SkipRecompute {
		scoring = r.scorer.Snapshot(ctx)
	}

	d, _, err := r.mutate(ctx, id, func(d *Document) (bool, error) {
		cmd.Apply(d, scoring)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"document fields updated",
		"id", id,
		"skip_recompute", cmd.SkipRecompute,
		"confidence", d.Confidence,
	)
	return d, nil
}

func (r *repo) SetManual(ctx context.Context, id uuid.UUID, name string, manual bool) (*Document, error) {
	scoring := r.scorer.Snapshot(ctx)

	d, _, err := r.mutate(ctx, id, func(d *Document) (bool, error) {
		if err := (SetManualCommand{Manual: manual}).Apply(d, name, scoring); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"field confirmation updated",
		"id", id,
		"field", name,
		"manual", manual,
		"confidence", d.Confidence,
	)
	return d, nil
}

func (r *repo) Verify(ctx context.Context, id uuid.UUID) (*Document, error) {
	return r.UpdateFields(ctx, id, UpdateFieldsCommand{SkipRecompute: true})
}

func (r *repo) Rescore(ctx context.Context, id uuid.UUID, cmd RescoreCommand) (*Document, bool, error) {
	d, changed, err := r.mutate(ctx, id, func(d *Document) (bool, error) {
		return cmd.Apply(d), nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		r.logger.Info("document rescored", "id", id, "confidence", d.Confidence)
	}
	return d, changed, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $1, updated_at = now() WHERE id = $2",
		string(status), id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document status updated", "id", id, "status", status)
	return nil
}

func (r *repo) Evaluate(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	eval := r.scorer.Snapshot(ctx).Evaluate(doc.Fields)
	return &Assessment{
		DocumentID: doc.ID,
		Stored:     doc.Confidence,
		Evaluation: eval,
		Diverged:   doc.Confidence != eval.State,
	}, nil
}

// mutate loads the document under a row lock, applies fn, and writes the
// result back when fn reports a change. The returned bool mirrors fn.
func (r *repo) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(d *Document) (bool, error),
) (*Document, bool, error) {
	load := func(tx *sql.Tx) (Document, error) {
		q, args := query.NewBuilder(projection).BuildSingleForUpdate("ID", id)
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	}

	save := func(tx *sql.Tx, d Document) (Document, error) {
		if d.Fields == nil {
			d.Fields = confidence.FieldMap{}
		}

		u := `
			UPDATE documents
			SET fields = $1, confidence = $2, status = $3, analyzed_at = $4, updated_at = now()
			WHERE id = $5` + returning

		return repository.QueryOne(ctx, tx, u, []any{
			repository.JSONOf(&d.Fields),
			string(d.Confidence),
			string(d.Status),
			d.AnalyzedAt,
			id,
		}, scanDocument)
	}

	d, changed, err := repository.UpdateLocked(ctx, r.db, load, fn, save)
	if err != nil {
		return nil, false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, changed, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
