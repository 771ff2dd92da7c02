// Package documents implements the document domain: upload and blob storage,
// extracted field data, and the confidence state derived from it.
package documents

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
)

// Status tracks a document through the analysis pipeline.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusAnalyzed  Status = "analyzed"
	StatusFailed    Status = "failed"
)

// Statuses lists every valid Status.
var Statuses = []Status{StatusPending, StatusAnalyzing, StatusAnalyzed, StatusFailed}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Document represents an uploaded document, its extracted fields, and their
// confidence state.
type Document struct {
	ID          uuid.UUID           `json:"id"`
	Filename    string              `json:"filename"`
	ContentType string              `json:"content_type"`
	SizeBytes   int64               `json:"size_bytes"`
	PageCount   *int                `json:"page_count"`
	StorageKey  string              `json:"storage_key"`
	Status      Status              `json:"status"`
	Fields      confidence.FieldMap `json:"fields"`
	Confidence  confidence.State    `json:"confidence"`
	AnalyzedAt  *time.Time          `json:"analyzed_at"`
	UploadedAt  time.Time           `json:"uploaded_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// PageCount is extracted by the caller for PDFs; nil is stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// IngestCommand carries a fresh analysis result for a document.
type IngestCommand struct {
	Fields confidence.FieldMap `json:"fields"`
}

// UpdateFieldsCommand replaces a document's fields.
//
// With SkipRecompute the write stores the fields and sets the state to
// VERIFIED without classifying; this is how a reviewer signs off on a
// document as a whole. A nil Fields keeps the stored fields.
type UpdateFieldsCommand struct {
	Fields        confidence.FieldMap `json:"fields"`
	SkipRecompute bool                `json:"skip_recompute"`
}

// SetManualCommand marks or clears manual confirmation on a single field.
type SetManualCommand struct {
	Manual bool `json:"manual"`
}

// RescoreCommand reclassifies a stored document. A stored VERIFIED state is
// left alone unless OverrideVerified is set.
type RescoreCommand struct {
	Scoring          Scoring
	OverrideVerified bool
}

// Assessment pairs a document's stored confidence state with a fresh
// evaluation of its fields under the current threshold and required set.
type Assessment struct {
	DocumentID uuid.UUID        `json:"document_id"`
	Stored     confidence.State `json:"stored"`
	confidence.Evaluation
	// Diverged is true when the stored state differs from the computed one.
	Diverged bool `json:"diverged"`
}

// Apply merges the analysis result into d, classifies the merged map and marks
// d analyzed at now.
func (c IngestCommand) Apply(d *Document, scoring Scoring, now time.Time) {
	d.Fields = confidence.Merge(d.Fields, c.Fields)
	d.Confidence = scoring.Classify(d.Fields)
	d.Status = StatusAnalyzed
	d.AnalyzedAt = &now
}

// Apply replaces d's fields and sets its state: VERIFIED under SkipRecompute,
// otherwise the classification of the resulting map. scoring is unused under
// SkipRecompute.
func (c UpdateFieldsCommand) Apply(d *Document, scoring Scoring) {
	if c.Fields != nil {
		d.Fields = c.Fields.Clone()
	}
	if c.SkipRecompute {
		d.Confidence = confidence.Verified
		return
	}
	d.Confidence = scoring.Classify(d.Fields)
}

// Apply sets the manual flag on the named field of d and reclassifies.
func (c SetManualCommand) Apply(d *Document, name string, scoring Scoring) error {
	fields, ok := confidence.SetManual(d.Fields, name, c.Manual)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}
	d.Fields = fields
	d.Confidence = scoring.Classify(d.Fields)
	return nil
}

// Apply reclassifies d and reports whether its state changed.
func (c RescoreCommand) Apply(d *Document) bool {
	if d.Confidence == confidence.Verified && !c.OverrideVerified {
		return false
	}
	computed := c.Scoring.Classify(d.Fields)
	if computed == d.Confidence {
		return false
	}
	d.Confidence = computed
	return true
}
