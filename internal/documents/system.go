package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/storage"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Download returns the stored blob for a document. The caller must close
	// the blob body.
	Download(ctx context.Context, id uuid.UUID) (*storage.Blob, *Document, error)

	// Ingest merges a fresh analysis result into the document's fields,
	// preserving manually confirmed fields, and recomputes its confidence.
	Ingest(ctx context.Context, id uuid.UUID, cmd IngestCommand) (*Document, error)

	// UpdateFields replaces the document's fields. See UpdateFieldsCommand.
	UpdateFields(ctx context.Context, id uuid.UUID, cmd UpdateFieldsCommand) (*Document, error)

	// SetManual marks or clears manual confirmation on one field and
	// recomputes confidence.
	SetManual(ctx context.Context, id uuid.UUID, name string, manual bool) (*Document, error)

	// Verify marks the document VERIFIED without touching its fields.
	Verify(ctx context.Context, id uuid.UUID) (*Document, error)

	// Rescore reclassifies the stored fields. The bool result reports whether
	// the stored state changed.
	Rescore(ctx context.Context, id uuid.UUID, cmd RescoreCommand) (*Document, bool, error)

	SetStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Evaluate scores the stored fields without writing anything.
	Evaluate(ctx context.Context, id uuid.UUID) (*Assessment, error)

	// Scoring returns a snapshot of the current threshold and required set.
	Scoring(ctx context.Context) Scoring
}
