package fields

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/pkg/pagination"
)

// System defines the public contract for field reference operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Field], error)

	Find(ctx context.Context, id uuid.UUID) (*Field, error)
	Create(ctx context.Context, cmd CreateCommand) (*Field, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Field, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Import upserts definitions by name in a single transaction.
	Import(ctx context.Context, cmds []CreateCommand) (*ImportResult, error)

	// RequiredSet returns the names that must meet the threshold.
	// A nil set means the reference list is empty and every field is required.
	RequiredSet(ctx context.Context) (*confidence.RequiredSet, error)
}
