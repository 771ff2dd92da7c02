// Package reconcile finds documents whose stored confidence state no longer
// matches what their fields classify to under the current threshold and
// required set, and optionally rewrites them.
package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/pagination"
)

// Store is the part of the document system a reconciliation run needs.
type Store interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters documents.Filters,
	) (*pagination.PageResult[documents.Document], error)
	Rescore(ctx context.Context, id uuid.UUID, cmd documents.RescoreCommand) (*documents.Document, bool, error)
	Scoring(ctx context.Context) documents.Scoring
}

// Options controls a run. Without Apply the run only reports.
type Options struct {
	Apply bool `json:"apply"`
	// IncludeVerified allows documents stored as VERIFIED to be overwritten.
	IncludeVerified bool `json:"include_verified"`
}

// Config bounds how a run pages and writes.
type Config struct {
	Concurrency int
	PageSize    int
}

// Mismatch is one document whose stored state differs from its computed state.
type Mismatch struct {
	DocumentID uuid.UUID        `json:"document_id"`
	Filename   string           `json:"filename"`
	Stored     confidence.State `json:"stored"`
	Computed   confidence.State `json:"computed"`
	Applied    bool             `json:"applied"`
	// ManualOverride marks a stored VERIFIED set by sign-off that the fields
	// no longer support.
	ManualOverride bool `json:"manual_override"`
}

// Report summarizes a run.
type Report struct {
	Threshold   float64    `json:"threshold"`
	Scanned     int        `json:"scanned"`
	Applied     int        `json:"applied"`
	Mismatches  []Mismatch `json:"mismatches"`
	Options     Options    `json:"options"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt time.Time  `json:"completed_at"`
}

// System defines the public contract for reconciliation.
type System interface {
	Handler() *Handler
	Run(ctx context.Context, opts Options) (*Report, error)
}
