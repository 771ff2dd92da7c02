// Package analysis is the boundary to the external OCR pipeline. Documents are
// submitted to a webhook with a signed read URL, and the pipeline posts its
// extraction result back to the callback endpoint, where it is merged into the
// document and scored.
package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
)

// HeaderSecret carries the shared secret on both submissions and callbacks.
const HeaderSecret = "X-Docket-Secret"

// Callback statuses reported by the pipeline.
const (
	CallbackSucceeded = "succeeded"
	CallbackFailed    = "failed"
)

// Config holds the runtime settings for the pipeline boundary.
type Config struct {
	WebhookURL   string
	CallbackURL  string
	Secret       string
	Timeout      time.Duration
	SignedURLTTL time.Duration
}

// Documents is the part of the document system the pipeline drives.
type Documents interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	Ingest(ctx context.Context, id uuid.UUID, cmd documents.IngestCommand) (*documents.Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, status documents.Status) error
}

// Signer issues time-limited read URLs for stored blobs.
type Signer interface {
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Request is the body posted to the pipeline webhook.
type Request struct {
	DocumentID  uuid.UUID `json:"document_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
	CallbackURL string    `json:"callback_url"`
}

// Callback is the body the pipeline posts back. Fields is either a JSON
// object or a JSON string containing one.
type Callback struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Status     string          `json:"status"`
	Fields     json.RawMessage `json:"fields,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Submission reports the outcome of a successful dispatch.
type Submission struct {
	DocumentID  uuid.UUID        `json:"document_id"`
	Status      documents.Status `json:"status"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// System defines the public contract for the pipeline boundary.
type System interface {
	Handler() *Handler

	// Submit dispatches a document to the pipeline and marks it analyzing.
	Submit(ctx context.Context, id uuid.UUID) (*Submission, error)

	// Receive applies a pipeline callback to its document.
	Receive(ctx context.Context, payload []byte) (*documents.Document, error)
}
