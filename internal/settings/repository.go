package settings

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a settings repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "settings"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context) (*Settings, error) {
	s, err := repository.QueryOne(ctx, r.db, findQuery, []any{settingsID}, scanSettings)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &s, nil
}

func (r *repo) Update(ctx context.Context, cmd UpdateCommand) (*Settings, error) {
	if cmd.ConfidenceThreshold != nil && !confidence.ValidThreshold(*cmd.ConfidenceThreshold) {
		return nil, ErrInvalidThreshold
	}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Settings, error) {
		return repository.QueryOne(
			ctx, tx, upsertQuery,
			[]any{settingsID, cmd.ConfidenceThreshold},
			scanSettings,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("settings updated", "confidence_threshold", cmd.ConfidenceThreshold)
	return &s, nil
}

func (r *repo) Threshold(ctx context.Context) float64 {
	return Resolve(ctx, r, r.logger)
}
