package documents

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("fields", "Fields").
	Project("confidence", "Confidence").
	Project("analyzed_at", "AnalyzedAt").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

// returning lists the projected columns, in scan order, for INSERT and UPDATE statements.
const returning = `
	RETURNING id, filename, content_type, size_bytes, page_count, storage_key,
		status, fields, confidence, analyzed_at, uploaded_at, updated_at`

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status and ContentType use exact matching,
// Filename uses case-insensitive contains matching, and Confidence matches
// any of the listed states.
type Filters struct {
	Status      *string            `json:"status,omitempty"`
	Filename    *string            `json:"filename,omitempty"`
	ContentType *string            `json:"content_type,omitempty"`
	Confidence  []confidence.State `json:"confidence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	states := make([]any, len(f.Confidence))
	for i, s := range f.Confidence {
		states[i] = string(s)
	}

	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereIn("Confidence", states)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// confidence accepts a comma-separated list or repeated parameters;
// unknown states are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	for _, raw := range values["confidence"] {
		for part := range strings.SplitSeq(raw, ",") {
			if state, err := confidence.ParseState(strings.TrimSpace(part)); err == nil {
				f.Confidence = append(f.Confidence, state)
			}
		}
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		repository.JSONOf(&d.Fields),
		&d.Confidence,
		&d.AnalyzedAt,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	if d.Fields == nil {
		d.Fields = confidence.FieldMap{}
	}
	return d, err
}
