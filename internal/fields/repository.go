package fields

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a field repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "fields"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Field], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Label")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count fields: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanField)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Field, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanField)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Field, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO field_definitions(name, label, required)
		VALUES ($1, $2, $3)
		` + returning

	args := []any{cmd.Name, cmd.Label, cmd.required()}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Field, error) {
		return repository.QueryOne(ctx, tx, q, args, scanField)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("field created", "id", f.ID, "name", f.Name, "required", f.Required)
	return &f, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Field, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	q := `
		UPDATE field_definitions
		SET name = $1, label = $2, required = $3, updated_at = now()
		WHERE id = $4
		` + returning

	args := []any{cmd.Name, cmd.Label, cmd.Required, id}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Field, error) {
		return repository.QueryOne(ctx, tx, q, args, scanField)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("field updated", "id", f.ID, "name", f.Name, "required", f.Required)
	return &f, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM field_definitions WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("field deleted", "id", id)
	return nil
}

func (r *repo) Import(ctx context.Context, cmds []CreateCommand) (*ImportResult, error) {
	for i := range cmds {
		if err := cmds[i].normalize(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	// xmax is zero only for rows this statement inserted.
	q := `
		INSERT INTO field_definitions(name, label, required)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET label = EXCLUDED.label, required = EXCLUDED.required, updated_at = now()
		RETURNING (xmax = 0)`

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ImportResult, error) {
		var res ImportResult
		for _, cmd := range cmds {
			var inserted bool
			if err := tx.QueryRowContext(ctx, q, cmd.Name, cmd.Label, cmd.required()).Scan(&inserted); err != nil {
				return ImportResult{}, fmt.Errorf("upsert %s: %w", cmd.Name, err)
			}
			if inserted {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("fields imported", "created", result.Created, "updated", result.Updated)
	return &result, nil
}

func (r *repo) RequiredSet(ctx context.Context) (*confidence.RequiredSet, error) {
	defs, err := repository.QueryMany(
		ctx, r.db,
		"SELECT name, required FROM field_definitions",
		nil,
		func(s repository.Scanner) (Field, error) {
			var f Field
			err := s.Scan(&f.Name, &f.Required)
			return f, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query required fields: %w", err)
	}

	return RequiredSetOf(defs), nil
}
